package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/marvelmart/shop/internal/models"
)

// Sentinel comments delimiting the product region inside the catalog markup.
// If either is missing, or they appear out of order, the whole document is
// scanned instead.
const (
	startMarker = "<!-- START PRODUCTS -->"
	endMarker   = "<!-- END PRODUCTS -->"
)

// Parse extracts the ordered product list from raw catalog markup.
//
// Every img element inside the sentinel-delimited region (or the whole
// document under the lenient fallback) becomes one product, in document
// order. For the element at 0-based position i:
//
//   - title: data-title attribute, else alt text, else "Product "+(i+1)
//   - price: data-price parsed as an integer, else 199 + i*100
//   - id:    src, resolved against base when base is non-nil
//
// Parsing is deterministic: the same text and base always yield the same
// sequence. Zero img elements yields an empty, non-nil slice — the caller
// distinguishes an empty catalog from a failed fetch by the Source error,
// not by this function.
func Parse(text string, base *url.URL) []models.Product {
	region := productRegion(text)

	// html.Parse is lenient and always produces a tree, wrapping fragments
	// in html/body as needed. Malformed markup degrades to however the
	// parser repairs it, never to an error.
	doc, err := html.Parse(strings.NewReader(region))
	if err != nil {
		return []models.Product{}
	}

	products := []models.Product{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			products = append(products, productFrom(n, len(products), base))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return products
}

// productRegion restricts the document to the sentinel-delimited block when
// both markers are present and ordered.
func productRegion(text string) string {
	start := strings.Index(text, startMarker)
	end := strings.Index(text, endMarker)
	if start >= 0 && end > start {
		return text[start:end]
	}
	return text
}

// productFrom derives one product from an img element at position i.
func productFrom(n *html.Node, i int, base *url.URL) models.Product {
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[strings.ToLower(a.Key)] = a.Val
	}

	title := attrs["data-title"]
	if title == "" {
		title = attrs["alt"]
	}
	if title == "" {
		title = "Product " + strconv.Itoa(i+1)
	}

	// An unparseable data-price falls back to the positional ladder, same
	// as an absent one.
	price := 199 + i*100
	if raw := strings.TrimSpace(attrs["data-price"]); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			price = p
		}
	}

	return models.Product{
		ID:    resolveSrc(attrs["src"], base),
		Title: title,
		Price: price,
	}
}

// resolveSrc resolves an image src against the source's base URL, mirroring
// the browser's resolution of img.src against the page location. With no
// base, or an unparseable src, the raw attribute is the ID.
func resolveSrc(src string, base *url.URL) string {
	if base == nil {
		return src
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return base.ResolveReference(ref).String()
}
