package state_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marvelmart/shop/internal/models"
	"github.com/marvelmart/shop/internal/state"
	"github.com/marvelmart/shop/internal/storage"
	"github.com/marvelmart/shop/internal/storage/memstore"
)

var (
	ironman = models.Product{ID: "img/ironman.jpg", Title: "Iron Man Figure", Price: 499}
	shield  = models.Product{ID: "img/capshield.jpg", Title: "Cap's Shield", Price: 899}
	mjolnir = models.Product{ID: "img/mjolnir.jpg", Title: "Mjolnir Replica", Price: 399}
)

func newModel(t *testing.T) (*state.Model, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	return state.New(context.Background(), store), store
}

func TestAddToCartNoDedup(t *testing.T) {
	ctx := context.Background()
	m, _ := newModel(t)

	m.AddToCart(ctx, ironman)
	m.AddToCart(ctx, ironman)

	snap := m.Snapshot()
	require.Len(t, snap.Cart, 2, "adding the same product twice yields two lines")
	assert.Equal(t, models.LineOf(ironman), snap.Cart[0])
	assert.Equal(t, 2, m.CartCount())
}

func TestCheckoutAtomicity(t *testing.T) {
	ctx := context.Background()
	m, _ := newModel(t)

	m.AddToCart(ctx, ironman)
	m.AddToCart(ctx, shield)
	m.AddToCart(ctx, mjolnir)

	placed, err := m.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, placed)

	snap := m.Snapshot()
	assert.Empty(t, snap.Cart, "checkout drains the cart")
	require.Len(t, snap.Orders, 3, "orders grow by exactly the cart length")
	for _, o := range snap.Orders {
		assert.NotZero(t, o.At, "every order carries a timestamp")
	}
	assert.Equal(t, ironman.ID, snap.Orders[0].ID)
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	ctx := context.Background()
	m, _ := newModel(t)

	_, err := m.Checkout(ctx)
	require.ErrorIs(t, err, state.ErrEmptyCart)
	assert.Empty(t, m.Snapshot().Orders, "rejected checkout mutates nothing")
}

func TestSubmitReviewValidation(t *testing.T) {
	ctx := context.Background()
	m, _ := newModel(t)

	require.ErrorIs(t, m.SubmitReview(ctx, ironman.ID, "", "great"), state.ErrEmptyReviewField)
	require.ErrorIs(t, m.SubmitReview(ctx, ironman.ID, "Peter", ""), state.ErrEmptyReviewField)
	require.ErrorIs(t, m.SubmitReview(ctx, ironman.ID, "   ", "\t\n"), state.ErrEmptyReviewField)
	assert.Empty(t, m.Snapshot().Reviews, "rejected reviews leave the mapping unchanged")

	require.NoError(t, m.SubmitReview(ctx, ironman.ID, " Peter ", " Amazing detail "))
	reviews := m.Snapshot().Reviews[ironman.ID]
	require.Len(t, reviews, 1, "sequence is created on first review")
	assert.Equal(t, "Peter", reviews[0].Name, "fields are stored trimmed")
	assert.Equal(t, "Amazing detail", reviews[0].Text)
	assert.NotZero(t, reviews[0].At)

	require.NoError(t, m.SubmitReview(ctx, ironman.ID, "MJ", "Bought two"))
	assert.Len(t, m.Snapshot().Reviews[ironman.ID], 2, "reviews are append-only")
}

func TestRemoveFromWishlist(t *testing.T) {
	ctx := context.Background()
	m, _ := newModel(t)

	m.AddToWishlist(ctx, ironman)
	m.AddToWishlist(ctx, shield)
	m.AddToWishlist(ctx, mjolnir)

	m.RemoveFromWishlist(ctx, 1)
	snap := m.Snapshot()
	require.Len(t, snap.Wishlist, 2)
	assert.Equal(t, ironman.ID, snap.Wishlist[0].ID)
	assert.Equal(t, mjolnir.ID, snap.Wishlist[1].ID, "neighbors keep their identity")

	m.RemoveFromWishlist(ctx, 5)
	m.RemoveFromWishlist(ctx, -1)
	assert.Len(t, m.Snapshot().Wishlist, 2, "out-of-range removal is a silent no-op")
}

func TestRegisterGating(t *testing.T) {
	ctx := context.Background()
	m, _ := newModel(t)

	require.ErrorIs(t, m.Register(ctx, "Peter", "p@dailybugle.com", "abc", "abc"), state.ErrPasswordTooShort)
	require.ErrorIs(t, m.Register(ctx, "Peter", "p@dailybugle.com", "abcdef", "xyz123"), state.ErrPasswordMismatch)
	assert.Nil(t, m.Snapshot().User, "rejected registration leaves user unchanged")

	require.NoError(t, m.Register(ctx, "Peter", "p@dailybugle.com", "abcdef", "abcdef"))
	user := m.Snapshot().User
	require.NotNil(t, user)
	assert.Equal(t, "p@dailybugle.com", user.Email)

	// Registering again replaces the previous user unconditionally.
	require.NoError(t, m.Register(ctx, "MJ", "mj@dailybugle.com", "secret1", "secret1"))
	assert.Equal(t, "mj@dailybugle.com", m.Snapshot().User.Email)
}

func TestLoginDemoSemantics(t *testing.T) {
	ctx := context.Background()
	m, _ := newModel(t)

	_, err := m.Login("p@dailybugle.com", "whatever")
	require.ErrorIs(t, err, state.ErrNoSuchUser, "login with no registered user fails")

	require.NoError(t, m.Register(ctx, "Peter", "p@dailybugle.com", "abcdef", "abcdef"))

	user, err := m.Login("p@dailybugle.com", "completely-wrong-password")
	require.NoError(t, err, "password is never checked (demo login)")
	assert.Equal(t, "Peter", user.Name)

	_, err = m.Login("stranger@example.com", "abcdef")
	assert.ErrorIs(t, err, state.ErrNoSuchUser)
}

func TestStateSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	m := state.New(ctx, store)
	m.AddToCart(ctx, ironman)
	m.AddToWishlist(ctx, shield)
	require.NoError(t, m.SubmitReview(ctx, ironman.ID, "Peter", "Great"))
	require.NoError(t, m.Register(ctx, "Peter", "p@dailybugle.com", "abcdef", "abcdef"))

	// A fresh model over the same store sees the same state.
	reborn := state.New(ctx, store)
	snap := reborn.Snapshot()
	assert.Equal(t, m.Snapshot(), snap)
	require.NotNil(t, snap.User)
	assert.Equal(t, "Peter", snap.User.Name)
}

func TestCorruptSliceLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	require.NoError(t, store.Set(ctx, storage.KeyCart, "{{{"))
	require.NoError(t, store.Set(ctx, storage.KeyOrders, `[{"id":"img/a.jpg","title":"A","price":1,"at":5}]`))

	m := state.New(ctx, store)
	snap := m.Snapshot()
	assert.Empty(t, snap.Cart, "corrupt cart degrades to empty")
	require.Len(t, snap.Orders, 1, "intact slices load normally")
	assert.Equal(t, int64(5), snap.Orders[0].At)
}
