// Package render turns state snapshots into HTML fragments. Each renderer is
// a pure projection: given the same slice it writes the same bytes, and the
// caller owns the target (a buffer, a response body, a page section). No
// renderer reads or mutates state.
package render

import (
	"html/template"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/marvelmart/shop/internal/models"
)

var funcs = template.FuncMap{
	// money renders a whole-unit price with the demo's single currency.
	"money": func(p int) string {
		return "₹" + strconv.Itoa(p)
	},
	// when renders a Unix-millisecond timestamp for humans.
	"when": func(at int64) string {
		return time.UnixMilli(at).Format("Jan 2, 2006 3:04 PM")
	},
}

var tmpl = template.Must(template.New("fragments").Funcs(funcs).Parse(`
{{define "catalog"}}<div class="grid">
{{range .}}<div class="card product" data-id="{{.Product.ID}}">
  <img class="product-img" src="{{.Product.ID}}" alt="{{.Product.Title}}">
  <h3 class="product-title">{{.Product.Title}}</h3>
  <p class="product-price">{{money .Product.Price}}</p>
  <form method="post" action="/cart/add"><input type="hidden" name="id" value="{{.Product.ID}}"><button class="btn add-cart">Add to cart</button></form>
  <form method="post" action="/wishlist/add"><input type="hidden" name="id" value="{{.Product.ID}}"><button class="btn add-wishlist">Wishlist</button></form>
  <div class="comments">
  {{range .Reviews}}<p>{{.Name}}: {{.Text}}</p>
  {{end}}</div>
  <form class="comment-form" method="post" action="/reviews">
    <input type="hidden" name="product_id" value="{{.Product.ID}}">
    <input name="name" placeholder="Your name">
    <input name="text" placeholder="Your review">
    <button class="btn tiny">Post</button>
  </form>
</div>
{{end}}</div>{{end}}

{{define "catalog-empty"}}<div class="card">No products found. Open the catalog source and add img tags between the product markers.</div>{{end}}

{{define "catalog-error"}}<div class="card">Could not load products. Check that the catalog source is reachable and try again.</div>{{end}}

{{define "wishlist"}}<ul id="wishlist">
{{if not .}}<li class="muted">No items in wishlist</li>
{{end}}{{range $i, $it := .}}<li>{{$it.Title}} – {{money $it.Price}}
  <form method="post" action="/wishlist/remove"><input type="hidden" name="index" value="{{$i}}"><button class="btn tiny">Remove</button></form>
</li>
{{end}}</ul>{{end}}

{{define "orders"}}<ul id="orders">
{{if not .}}<li class="muted">No orders yet</li>
{{end}}{{range .}}<li>{{.Title}} – {{money .Price}} (on {{when .At}})</li>
{{end}}</ul>{{end}}

{{define "reviews"}}<div id="reviews-list">
{{if not .}}<div class="muted">No reviews yet</div>
{{end}}{{range .}}{{range .Reviews}}<div class="card">{{.Name}} ({{when .At}}): {{.Text}}</div>
{{end}}{{end}}</div>{{end}}

{{define "cart-count"}}<span id="cart-count">{{.}}</span>{{end}}
`))

// card pairs a product with its review thread for the catalog grid.
type card struct {
	Product models.Product
	Reviews []models.Review
}

// productReviews is one product's thread in the flattened, ordered feed.
type productReviews struct {
	ProductID string
	Reviews   []models.Review
}

// Catalog renders the product grid, each card carrying its review thread and
// the add-to-cart / wishlist / review forms. An empty product list renders
// the distinct "no products" state instead of an empty grid.
func Catalog(w io.Writer, products []models.Product, reviews map[string][]models.Review) error {
	if len(products) == 0 {
		return CatalogEmpty(w)
	}
	cards := make([]card, len(products))
	for i, p := range products {
		cards[i] = card{Product: p, Reviews: reviews[p.ID]}
	}
	return tmpl.ExecuteTemplate(w, "catalog", cards)
}

// CatalogEmpty renders the "no products" outcome.
func CatalogEmpty(w io.Writer) error {
	return tmpl.ExecuteTemplate(w, "catalog-empty", nil)
}

// CatalogError renders the "could not load" outcome for catalog fetch
// failures.
func CatalogError(w io.Writer) error {
	return tmpl.ExecuteTemplate(w, "catalog-error", nil)
}

// Wishlist renders the wishlist rows with positional remove controls. The
// rendered order is the removal order.
func Wishlist(w io.Writer, lines []models.Line) error {
	return tmpl.ExecuteTemplate(w, "wishlist", lines)
}

// Orders renders the append-only order history.
func Orders(w io.Writer, orders []models.Order) error {
	return tmpl.ExecuteTemplate(w, "orders", orders)
}

// Reviews renders every product's reviews. Product IDs are sorted so that
// rendering one snapshot twice writes identical bytes (the persisted map has
// no order of its own).
func Reviews(w io.Writer, reviews map[string][]models.Review) error {
	ids := make([]string, 0, len(reviews))
	for id := range reviews {
		if len(reviews[id]) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	feed := make([]productReviews, len(ids))
	for i, id := range ids {
		feed[i] = productReviews{ProductID: id, Reviews: reviews[id]}
	}
	return tmpl.ExecuteTemplate(w, "reviews", feed)
}

// CartCount renders the cart badge.
func CartCount(w io.Writer, n int) error {
	return tmpl.ExecuteTemplate(w, "cart-count", n)
}
