package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewStore(rdb), mr
}

func TestStoreGetMiss(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestStoreSetGet(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "dish:7", "[]", 30*time.Minute))

	val, err := store.Get(ctx, "dish:7")
	require.NoError(t, err)
	assert.Equal(t, "[]", val)
	assert.Equal(t, 30*time.Minute, mr.TTL("dish:7"))
}

func TestStoreSetNoExpiry(t *testing.T) {
	store, mr := newTestStore(t)

	require.NoError(t, store.Set(context.Background(), "SHOP_STATUS", "1", 0))
	assert.Equal(t, time.Duration(0), mr.TTL("SHOP_STATUS"))
}

func TestStoreDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "1", 0))
	require.NoError(t, store.Delete(ctx, "a", "never-existed"))

	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// No keys at all is a no-op, not an error.
	assert.NoError(t, store.Delete(ctx))
}

func TestStoreDeleteByPrefix(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "dish:1", "a", 0))
	require.NoError(t, store.Set(ctx, "dish:2", "b", 0))
	require.NoError(t, store.Set(ctx, "setmealCache", "c", 0))

	require.NoError(t, store.DeleteByPrefix(ctx, DishKeyPrefix))

	assert.False(t, mr.Exists("dish:1"))
	assert.False(t, mr.Exists("dish:2"))
	assert.True(t, mr.Exists("setmealCache"))
}

func TestDishCategoryKey(t *testing.T) {
	assert.Equal(t, "dish:42", DishCategoryKey(42))
}

func TestInvalidatorDishCategory(t *testing.T) {
	store, mr := newTestStore(t)
	inv := NewInvalidator(store)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "dish:5", "a", 0))
	require.NoError(t, store.Set(ctx, "dish:6", "b", 0))

	inv.DishCategory(ctx, 5)

	assert.False(t, mr.Exists("dish:5"))
	assert.True(t, mr.Exists("dish:6"))
}

func TestInvalidatorAllDishes(t *testing.T) {
	store, mr := newTestStore(t)
	inv := NewInvalidator(store)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "dish:5", "a", 0))
	require.NoError(t, store.Set(ctx, "dish:6", "b", 0))
	require.NoError(t, store.Set(ctx, "setmealCache", "c", 0))

	inv.AllDishes(ctx)

	assert.False(t, mr.Exists("dish:5"))
	assert.False(t, mr.Exists("dish:6"))
	assert.True(t, mr.Exists("setmealCache"))
}

func TestInvalidatorSetmeals(t *testing.T) {
	store, mr := newTestStore(t)
	inv := NewInvalidator(store)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "setmealCache", "c", 0))
	require.NoError(t, store.Set(ctx, "dish:5", "a", 0))

	inv.Setmeals(ctx)

	assert.False(t, mr.Exists("setmealCache"))
	assert.True(t, mr.Exists("dish:5"))
}
