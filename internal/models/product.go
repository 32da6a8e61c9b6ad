package models

// Product represents one catalog entry parsed from the product markup.
// Products are rebuilt from the catalog source on every load and are
// immutable for the lifetime of that load.
type Product struct {
	// ID is the product's resolved image URL. Deliberately not a surrogate
	// key: re-parsing the same source yields the same IDs, which keeps
	// persisted cart/wishlist/review references valid across restarts.
	// If the source changes, entries keyed by removed URLs are orphaned.
	ID string `json:"id"`

	// Title is the display name, from the data-title attribute, the alt
	// text, or a positional default.
	Title string `json:"title"`

	// Price is in whole currency units (no minor units in the demo).
	Price int `json:"price"`
}

// Line captures a product by value at the moment it was added to the cart
// or the wishlist. Adding the same product twice yields two lines; there is
// no quantity field.
type Line struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price int    `json:"price"`
}

// LineOf copies the identifying fields of a product into a Line.
func LineOf(p Product) Line {
	return Line{ID: p.ID, Title: p.Title, Price: p.Price}
}

// Order is a cart line that went through checkout.
// Orders are append-only; nothing in the storefront deletes them.
type Order struct {
	Line

	// At is the checkout time in Unix milliseconds.
	At int64 `json:"at"`
}
