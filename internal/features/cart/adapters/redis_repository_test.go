package adapters

import (
	"context"
	"testing"

	"silistain-store/internal/core/cache"
	"silistain-store/internal/features/cart/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*RedisCartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	adapter, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })

	return NewRedisCartRepository(adapter), mr
}

func TestRedisCartRepository_SaveGet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	cart := domain.NewCart("guest:abc")
	cart.AddItem(domain.LineItem{
		ProductID: "w1",
		Name:      "Diver 200",
		UnitPrice: decimal.RequireFromString("250.00"),
		Brand:     "Orient",
	}, 2)

	require.NoError(t, repo.Save(ctx, cart))

	loaded, err := repo.Get(ctx, "guest:abc")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "w1", loaded.Items[0].ProductID)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.True(t, loaded.Items[0].UnitPrice.Equal(decimal.RequireFromString("250.00")))
}

func TestRedisCartRepository_GetMissing(t *testing.T) {
	repo, _ := newTestRepo(t)

	cart, err := repo.Get(context.Background(), "guest:nobody")
	require.NoError(t, err)
	assert.Nil(t, cart)
}

// TestRedisCartRepository_GetCorrupt verifies that an unreadable payload is
// swallowed and treated as a missing cart rather than surfaced as an error.
func TestRedisCartRepository_GetCorrupt(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("cart:guest:abc", "{not json"))

	cart, err := repo.Get(ctx, "guest:abc")
	require.NoError(t, err)
	assert.Nil(t, cart)

	// The corrupt entry is dropped so the next write starts clean.
	assert.False(t, mr.Exists("cart:guest:abc"))
}

func TestRedisCartRepository_Delete(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	cart := domain.NewCart("user:42")
	cart.AddItem(domain.LineItem{ProductID: "w1", UnitPrice: decimal.New(10, 0)}, 1)
	require.NoError(t, repo.Save(ctx, cart))

	require.NoError(t, repo.Delete(ctx, "user:42"))

	loaded, err := repo.Get(ctx, "user:42")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
