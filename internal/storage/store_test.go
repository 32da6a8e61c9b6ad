package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marvelmart/shop/internal/models"
	"github.com/marvelmart/shop/internal/storage"
	"github.com/marvelmart/shop/internal/storage/memstore"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	cart := []models.Line{
		{ID: "img/a.jpg", Title: "A", Price: 199},
		{ID: "img/b.jpg", Title: "B", Price: 299},
	}
	require.NoError(t, storage.Save(ctx, store, storage.KeyCart, cart))

	got := storage.Load(ctx, store, storage.KeyCart, []models.Line{})
	assert.Equal(t, cart, got)
}

func TestLoadUnsetKeyReturnsFallback(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	assert.Empty(t, storage.Load(ctx, store, storage.KeyOrders, []models.Order{}))
	assert.Nil(t, storage.Load[*models.User](ctx, store, storage.KeyUser, nil))

	reviews := storage.Load(ctx, store, storage.KeyReviews, map[string][]models.Review{})
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}

func TestLoadMalformedJSONDegradesToFallback(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	require.NoError(t, store.Set(ctx, storage.KeyWishlist, "{not json"))

	got := storage.Load(ctx, store, storage.KeyWishlist, []models.Line{})
	assert.Empty(t, got, "corrupt slice must degrade to the default, not fail")
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	require.NoError(t, storage.Save(ctx, store, storage.KeyCart, []models.Line{{ID: "x"}}))
	require.NoError(t, storage.Save(ctx, store, storage.KeyCart, []models.Line{}))

	assert.Empty(t, storage.Load(ctx, store, storage.KeyCart, []models.Line{{ID: "stale"}}))
}

func TestUserNullRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	// The browser demo persisted the string "null" for a signed-out user;
	// loading it must come back as absent, not as a zero-valued account.
	require.NoError(t, store.Set(ctx, storage.KeyUser, "null"))
	assert.Nil(t, storage.Load[*models.User](ctx, store, storage.KeyUser, nil))

	require.NoError(t, storage.Save(ctx, store, storage.KeyUser, &models.User{Name: "Peter", Email: "p@dailybugle.com"}))
	got := storage.Load[*models.User](ctx, store, storage.KeyUser, nil)
	require.NotNil(t, got)
	assert.Equal(t, "p@dailybugle.com", got.Email)
}
