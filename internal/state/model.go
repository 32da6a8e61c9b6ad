// Package state owns the in-memory storefront state (cart, wishlist, orders,
// reviews, user) and its synchronization with the persistent store. Every
// mutation flushes the slice(s) it touched before returning, so the store is
// always one write behind at most.
package state

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/marvelmart/shop/internal/models"
	"github.com/marvelmart/shop/internal/storage"
)

var (
	// ErrEmptyCart signals a checkout attempt with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrEmptyReviewField signals a review whose name or text is blank
	// after trimming.
	ErrEmptyReviewField = errors.New("review name and text are both required")

	// ErrPasswordTooShort signals a registration password under 6 characters.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")

	// ErrPasswordMismatch signals that the confirmation did not match.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrNoSuchUser signals a login for an email no registered user has.
	ErrNoSuchUser = errors.New("no registered user with that email")
)

// minPasswordLen is checked at registration; the password itself is then
// discarded. The demo login never verifies credentials.
const minPasswordLen = 6

// Model is the explicitly owned state container. It seeds itself from the
// store at construction and flushes affected slices after each mutation.
// Flush failures are logged and swallowed: durability is best-effort, like
// the localStorage the original demo wrote to.
//
// The mutex serializes mutations because the HTTP server is concurrent;
// logically there is still exactly one writer (this process), and multi-
// process writers remain out of scope (last write wins).
type Model struct {
	store storage.Store
	now   func() time.Time

	mu       sync.Mutex
	cart     []models.Line
	wishlist []models.Line
	orders   []models.Order
	reviews  map[string][]models.Review
	user     *models.User
}

// Snapshot is a value copy of the whole state, taken under the lock.
// Renderers consume snapshots so they stay pure projections.
type Snapshot struct {
	Cart     []models.Line
	Wishlist []models.Line
	Orders   []models.Order
	Reviews  map[string][]models.Review
	User     *models.User
}

// New constructs a model seeded from the store. Missing or corrupt slices
// load as their empty values; seeding never fails.
func New(ctx context.Context, store storage.Store) *Model {
	m := &Model{
		store:    store,
		now:      time.Now,
		cart:     storage.Load(ctx, store, storage.KeyCart, []models.Line{}),
		wishlist: storage.Load(ctx, store, storage.KeyWishlist, []models.Line{}),
		orders:   storage.Load(ctx, store, storage.KeyOrders, []models.Order{}),
		reviews:  storage.Load(ctx, store, storage.KeyReviews, map[string][]models.Review{}),
		user:     storage.Load[*models.User](ctx, store, storage.KeyUser, nil),
	}
	// A persisted JSON null decodes to a nil map; reviews must stay
	// writable.
	if m.reviews == nil {
		m.reviews = map[string][]models.Review{}
	}
	return m
}

// AddToCart appends a value-copied line for the product. No dedup, no stock
// concept: adding twice yields two lines.
func (m *Model) AddToCart(ctx context.Context, p models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cart = append(m.cart, models.LineOf(p))
	m.flush(ctx, storage.KeyCart, m.cart)
	slog.Info("Added to cart", "product_id", p.ID, "cart_size", len(m.cart))
}

// AddToWishlist appends a value-copied line for the product. No dedup.
func (m *Model) AddToWishlist(ctx context.Context, p models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.wishlist = append(m.wishlist, models.LineOf(p))
	m.flush(ctx, storage.KeyWishlist, m.wishlist)
	slog.Info("Added to wishlist", "product_id", p.ID, "wishlist_size", len(m.wishlist))
}

// RemoveFromWishlist removes the entry at index i from the wishlist's
// current order (which matches the rendered order). An out-of-range index is
// a silent no-op: the entry is treated as already absent.
func (m *Model) RemoveFromWishlist(ctx context.Context, i int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i < 0 || i >= len(m.wishlist) {
		return
	}
	m.wishlist = append(m.wishlist[:i], m.wishlist[i+1:]...)
	m.flush(ctx, storage.KeyWishlist, m.wishlist)
	slog.Info("Removed from wishlist", "index", i, "wishlist_size", len(m.wishlist))
}

// SubmitReview appends a review to the product's sequence, creating the
// sequence if absent. Name and text are trimmed; if either is then empty the
// review map is left untouched and ErrEmptyReviewField is returned.
func (m *Model) SubmitReview(ctx context.Context, productID, name, text string) error {
	name = strings.TrimSpace(name)
	text = strings.TrimSpace(text)
	if name == "" || text == "" {
		return ErrEmptyReviewField
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.reviews[productID] = append(m.reviews[productID], models.Review{
		Name: name,
		Text: text,
		At:   m.now().UnixMilli(),
	})
	m.flush(ctx, storage.KeyReviews, m.reviews)
	slog.Info("Review submitted", "product_id", productID, "reviews", len(m.reviews[productID]))
	return nil
}

// Checkout turns every cart line into a timestamped order and clears the
// cart, atomically with respect to the in-memory state. It is the only
// operation that appends to orders and the only one that drains the cart.
// Returns the number of lines ordered, or ErrEmptyCart.
func (m *Model) Checkout(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.cart) == 0 {
		return 0, ErrEmptyCart
	}

	at := m.now().UnixMilli()
	placed := len(m.cart)
	for _, line := range m.cart {
		m.orders = append(m.orders, models.Order{Line: line, At: at})
	}
	m.cart = m.cart[:0]

	m.flush(ctx, storage.KeyOrders, m.orders)
	m.flush(ctx, storage.KeyCart, m.cart)
	slog.Info("Order placed", "lines", placed, "orders_total", len(m.orders))
	return placed, nil
}

// Register validates the password's shape, then discards it and replaces the
// current user unconditionally (single-user demo model). Returns
// ErrPasswordTooShort or ErrPasswordMismatch without mutating on failure.
func (m *Model) Register(ctx context.Context, name, email, password, confirm string) error {
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.user = &models.User{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	m.flush(ctx, storage.KeyUser, m.user)
	slog.Info("User registered", "email", m.user.Email)
	return nil
}

// Login succeeds iff a user exists and its email matches exactly. The
// password is accepted as input and never checked; this is the documented
// demo-login behavior, not an oversight.
func (m *Model) Login(email, _ string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil || m.user.Email != strings.TrimSpace(email) {
		return models.User{}, ErrNoSuchUser
	}
	return *m.user, nil
}

// CartCount returns len(cart) for the badge renderer.
func (m *Model) CartCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cart)
}

// Snapshot returns a value copy of the whole state.
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Cart:     append([]models.Line(nil), m.cart...),
		Wishlist: append([]models.Line(nil), m.wishlist...),
		Orders:   append([]models.Order(nil), m.orders...),
		Reviews:  make(map[string][]models.Review, len(m.reviews)),
	}
	for id, rs := range m.reviews {
		snap.Reviews[id] = append([]models.Review(nil), rs...)
	}
	if m.user != nil {
		u := *m.user
		snap.User = &u
	}
	return snap
}

// flush persists one slice, logging failures instead of propagating them.
// Callers hold the lock.
func (m *Model) flush(ctx context.Context, key string, value any) {
	if err := storage.Save(ctx, m.store, key, value); err != nil {
		slog.Error("State flush failed", "key", key, "error", err)
	}
}
