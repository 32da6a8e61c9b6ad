// Package catalog derives the product list from the semi-structured product
// markup. The source of that markup is pluggable so the parser can be tested
// against literal strings, and the loader caches the parsed result for the
// lifetime of the source text.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

// Source supplies the raw catalog markup. Implementations fetch the text;
// they never parse it.
type Source interface {
	// FetchText returns the raw markup document. A failure here means the
	// parser is never reached and the caller must present a "could not
	// load" state.
	FetchText(ctx context.Context) (string, error)

	// Base returns the URL image paths resolve against, or nil when the
	// source has no meaningful base (file paths stay as written).
	Base() *url.URL
}

// FileSource reads the catalog markup from a file on disk.
type FileSource struct {
	Path string
}

// FetchText reads the whole file.
func (s FileSource) FetchText(_ context.Context) (string, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read catalog source: %w", err)
	}
	return string(raw), nil
}

// Base returns nil; file-sourced image paths are kept as written so IDs stay
// stable regardless of where the file lives.
func (s FileSource) Base() *url.URL {
	return nil
}

// HTTPSource fetches the catalog markup with a plain GET against a known URL,
// the way the browser demo fetched products.html.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// FetchText performs the GET and returns the response body.
func (s HTTPSource) FetchText(ctx context.Context) (string, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch catalog source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("catalog source returned %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read catalog response: %w", err)
	}
	return string(raw), nil
}

// Base resolves image srcs against the catalog URL, mirroring how the
// browser resolved img.src against the page location.
func (s HTTPSource) Base() *url.URL {
	u, err := url.Parse(s.URL)
	if err != nil {
		return nil
	}
	return u
}
