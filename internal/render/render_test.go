package render_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marvelmart/shop/internal/models"
	"github.com/marvelmart/shop/internal/render"
)

func TestCatalogRendersCards(t *testing.T) {
	products := []models.Product{
		{ID: "img/ironman.jpg", Title: "Iron Man Figure", Price: 499},
		{ID: "img/capshield.jpg", Title: "Cap's Shield", Price: 899},
	}
	reviews := map[string][]models.Review{
		"img/ironman.jpg": {{Name: "Peter", Text: "Great detail", At: 1700000000000}},
	}

	var buf bytes.Buffer
	require.NoError(t, render.Catalog(&buf, products, reviews))

	out := buf.String()
	assert.Contains(t, out, "Iron Man Figure")
	assert.Contains(t, out, "₹499")
	assert.Contains(t, out, "Peter: Great detail", "review thread renders under its product")
	assert.Contains(t, out, `value="img/capshield.jpg"`, "forms carry the product id")
}

func TestCatalogEmptyState(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.Catalog(&buf, []models.Product{}, nil))
	assert.Contains(t, buf.String(), "No products found")
	assert.NotContains(t, buf.String(), "grid", "empty catalog renders the placeholder, not an empty grid")
}

func TestCatalogErrorState(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.CatalogError(&buf))
	assert.Contains(t, buf.String(), "Could not load products")
}

func TestWishlistPlaceholderAndRows(t *testing.T) {
	var empty bytes.Buffer
	require.NoError(t, render.Wishlist(&empty, nil))
	assert.Contains(t, empty.String(), "No items in wishlist")

	var buf bytes.Buffer
	lines := []models.Line{
		{ID: "a", Title: "First", Price: 100},
		{ID: "b", Title: "Second", Price: 200},
	}
	require.NoError(t, render.Wishlist(&buf, lines))
	assert.Contains(t, buf.String(), `name="index" value="0"`)
	assert.Contains(t, buf.String(), `name="index" value="1"`, "remove controls are positional against the rendered order")
}

func TestOrdersPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.Orders(&buf, nil))
	assert.Contains(t, buf.String(), "No orders yet")
}

func TestReviewsFeedIsStable(t *testing.T) {
	reviews := map[string][]models.Review{
		"img/z.jpg": {{Name: "A", Text: "z first?", At: 1}},
		"img/a.jpg": {{Name: "B", Text: "a first?", At: 2}},
		"img/m.jpg": {},
	}

	var first, second bytes.Buffer
	require.NoError(t, render.Reviews(&first, reviews))
	require.NoError(t, render.Reviews(&second, reviews))
	assert.Equal(t, first.String(), second.String(), "rendering one snapshot twice writes identical bytes")

	aAt := bytes.Index(first.Bytes(), []byte("a first?"))
	zAt := bytes.Index(first.Bytes(), []byte("z first?"))
	assert.Less(t, aAt, zAt, "feed is ordered by product id")
}

func TestCartCount(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.CartCount(&buf, 3))
	assert.Contains(t, buf.String(), ">3<")
}

func TestRenderEscapesUserContent(t *testing.T) {
	reviews := map[string][]models.Review{
		"p": {{Name: "<script>alert(1)</script>", Text: "x", At: 1}},
	}
	var buf bytes.Buffer
	require.NoError(t, render.Reviews(&buf, reviews))
	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
}
