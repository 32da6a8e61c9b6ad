package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/marvelmart/shop/internal/models"
)

// Loader fetches and parses the catalog once and serves the cached result
// until it is invalidated. Parsing the same source twice always yields the
// same products, so the cache is purely an I/O saving.
type Loader struct {
	source Source

	mu       sync.Mutex
	products []models.Product
	valid    bool
}

// NewLoader creates a loader over the given source.
func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// Load returns the product list, fetching and parsing the source on the
// first call after construction or invalidation. A fetch failure is returned
// as-is and nothing is cached; the caller renders a "could not load" state.
func (l *Loader) Load(ctx context.Context) ([]models.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.valid {
		return l.products, nil
	}

	text, err := l.source.FetchText(ctx)
	if err != nil {
		return nil, err
	}

	l.products = Parse(text, l.source.Base())
	l.valid = true
	slog.Info("Catalog loaded", "products", len(l.products))
	return l.products, nil
}

// Invalidate drops the cached products; the next Load re-fetches.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.valid = false
	l.products = nil
}

// Watch invalidates the cache whenever the file backing a FileSource changes
// on disk, so edits to the product markup show up without a restart. It
// returns immediately for non-file sources. The watcher runs until ctx is
// cancelled.
func (l *Loader) Watch(ctx context.Context) error {
	fs, ok := l.source.(FileSource)
	if !ok {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create catalog watcher: %w", err)
	}

	// Watch the directory, not the file: editors replace files on save and
	// a direct file watch is lost after the first rename.
	target, err := filepath.Abs(fs.Path)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("failed to resolve catalog path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch catalog directory: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				abs, err := filepath.Abs(event.Name)
				if err != nil || abs != target {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					slog.Info("Catalog source changed, reloading", "path", fs.Path, "op", event.Op.String())
					l.Invalidate()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Catalog watcher error", "error", err)
			}
		}
	}()

	return nil
}
