// Package server binds the storefront's HTTP surface to the state model:
// each form post runs one mutation, the model flushes the touched slices,
// and the response redirects back to the page so the affected views
// re-render from the new state. Validation failures come back as flash
// messages instead of blocking dialogs.
package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marvelmart/shop/internal/auth"
	"github.com/marvelmart/shop/internal/catalog"
	"github.com/marvelmart/shop/internal/models"
	"github.com/marvelmart/shop/internal/render"
	"github.com/marvelmart/shop/internal/state"
)

const sessionCookie = "mm_session"

// Server wires the state model, the catalog loader and the session manager
// into HTTP handlers.
type Server struct {
	model    *state.Model
	loader   *catalog.Loader
	sessions *auth.SessionManager
}

// New creates a server over the given collaborators.
func New(model *state.Model, loader *catalog.Loader, sessions *auth.SessionManager) *Server {
	return &Server{model: model, loader: loader, sessions: sessions}
}

// Handler returns the fully assembled HTTP handler, middleware included.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /cart/add", s.handleCartAdd)
	mux.HandleFunc("POST /wishlist/add", s.handleWishlistAdd)
	mux.HandleFunc("POST /wishlist/remove", s.handleWishlistRemove)
	mux.HandleFunc("POST /reviews", s.handleSubmitReview)
	mux.HandleFunc("POST /checkout", s.handleCheckout)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)

	mux.HandleFunc("GET /fragment/catalog", s.handleCatalogFragment)
	mux.HandleFunc("GET /fragment/wishlist", s.handleWishlistFragment)
	mux.HandleFunc("GET /fragment/orders", s.handleOrdersFragment)
	mux.HandleFunc("GET /fragment/reviews", s.handleReviewsFragment)
	mux.HandleFunc("GET /fragment/cart-count", s.handleCartCountFragment)

	mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(corsMiddleware(mux))
}

// handleIndex assembles the whole page from the renderers. The catalog's
// three outcomes (products, empty, could-not-load) are decided here from the
// loader result.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.model.Snapshot()
	products, loadErr := s.loader.Load(r.Context())

	catalogFrag := fragment(func(wr io.Writer) error {
		if loadErr != nil {
			return render.CatalogError(wr)
		}
		return render.Catalog(wr, products, snap.Reviews)
	})

	data := pageData{
		Greeting:  s.greeting(r),
		Msg:       r.URL.Query().Get("msg"),
		Err:       r.URL.Query().Get("err"),
		CartCount: fragment(func(wr io.Writer) error { return render.CartCount(wr, len(snap.Cart)) }),
		Catalog:   catalogFrag,
		Wishlist:  fragment(func(wr io.Writer) error { return render.Wishlist(wr, snap.Wishlist) }),
		Orders:    fragment(func(wr io.Writer) error { return render.Orders(wr, snap.Orders) }),
		Reviews:   fragment(func(wr io.Writer) error { return render.Reviews(wr, snap.Reviews) }),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		slog.Error("Page render failed", "error", err)
	}
}

// greeting returns the session user's name, if a valid session cookie rode
// in with the request. An absent or bad cookie is just an anonymous visit.
func (s *Server) greeting(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	claims, err := s.sessions.Validate(cookie.Value)
	if err != nil {
		return ""
	}
	return claims.Name
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	p, ok := s.findProduct(w, r)
	if !ok {
		return
	}
	s.model.AddToCart(r.Context(), p)
	countMutation("add_to_cart", nil)
	s.flashOK(w, r, p.Title+" added to cart")
}

func (s *Server) handleWishlistAdd(w http.ResponseWriter, r *http.Request) {
	p, ok := s.findProduct(w, r)
	if !ok {
		return
	}
	s.model.AddToWishlist(r.Context(), p)
	countMutation("add_to_wishlist", nil)
	s.flashOK(w, r, p.Title+" added to wishlist")
}

func (s *Server) handleWishlistRemove(w http.ResponseWriter, r *http.Request) {
	// A stale or garbled index means the entry is already gone; removal is
	// positional and idempotent, so this is not an error.
	i, err := strconv.Atoi(r.FormValue("index"))
	if err != nil {
		i = -1
	}
	s.model.RemoveFromWishlist(r.Context(), i)
	countMutation("remove_from_wishlist", nil)
	s.flashOK(w, r, "")
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	err := s.model.SubmitReview(r.Context(), r.FormValue("product_id"), r.FormValue("name"), r.FormValue("text"))
	countMutation("submit_review", err)
	if err != nil {
		s.flashErr(w, r, err)
		return
	}
	s.flashOK(w, r, "Review posted")
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	placed, err := s.model.Checkout(r.Context())
	countMutation("checkout", err)
	if err != nil {
		s.flashErr(w, r, err)
		return
	}
	s.flashOK(w, r, "Order placed: "+strconv.Itoa(placed)+" item(s). Check the Orders section.")
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	email := r.FormValue("email")
	err := s.model.Register(r.Context(), name, email, r.FormValue("password"), r.FormValue("confirm"))
	countMutation("register", err)
	if err != nil {
		s.flashErr(w, r, err)
		return
	}

	s.setSession(w, models.User{Name: name, Email: email})
	s.flashOK(w, r, "Registered and logged in as "+name)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	user, err := s.model.Login(r.FormValue("email"), r.FormValue("password"))
	countMutation("login", err)
	if err != nil {
		s.flashErr(w, r, err)
		return
	}

	s.setSession(w, user)
	s.flashOK(w, r, "Welcome back, "+user.Name)
}

func (s *Server) handleCatalogFragment(w http.ResponseWriter, r *http.Request) {
	snap := s.model.Snapshot()
	products, err := s.loader.Load(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err != nil {
		render.CatalogError(w)
		return
	}
	render.Catalog(w, products, snap.Reviews)
}

func (s *Server) handleWishlistFragment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	render.Wishlist(w, s.model.Snapshot().Wishlist)
}

func (s *Server) handleOrdersFragment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	render.Orders(w, s.model.Snapshot().Orders)
}

func (s *Server) handleReviewsFragment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	render.Reviews(w, s.model.Snapshot().Reviews)
}

func (s *Server) handleCartCountFragment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	render.CartCount(w, s.model.CartCount())
}

// findProduct resolves the posted product id against the current catalog.
// Products are never trusted from the form beyond their id; title and price
// always come from the parsed catalog.
func (s *Server) findProduct(w http.ResponseWriter, r *http.Request) (models.Product, bool) {
	id := r.FormValue("id")
	products, err := s.loader.Load(r.Context())
	if err != nil {
		s.flashErr(w, r, errors.New("could not load products"))
		return models.Product{}, false
	}
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	s.flashErr(w, r, errors.New("unknown product"))
	return models.Product{}, false
}

// setSession drops a signed session cookie recording who is logged in.
func (s *Server) setSession(w http.ResponseWriter, user models.User) {
	token, err := s.sessions.Issue(user)
	if err != nil {
		slog.Error("Failed to issue session", "email", user.Email, "error", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
}

// flashOK redirects back to the page with a success message.
func (s *Server) flashOK(w http.ResponseWriter, r *http.Request, msg string) {
	target := "/"
	if msg != "" {
		target = "/?msg=" + url.QueryEscape(msg)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// flashErr redirects back with the rejection reason.
func (s *Server) flashErr(w http.ResponseWriter, r *http.Request, err error) {
	http.Redirect(w, r, "/?err="+url.QueryEscape(err.Error()), http.StatusSeeOther)
}
