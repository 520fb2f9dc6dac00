package cache

import (
	"context"
	"log/slog"
	"strconv"
)

// Cache key layout. Catalog listings are cached per category, never per item,
// so every dish mutation invalidates at category (or prefix) granularity.
const (
	DishKeyPrefix       = "dish:"
	SetmealCacheKey     = "setmealCache"
	StatisticsKeyPrefix = "statistics:"
	ShopStatusKey       = "SHOP_STATUS"
)

// DishCategoryKey returns the cache key for one category's dish listing.
func DishCategoryKey(categoryID int64) string {
	return DishKeyPrefix + strconv.FormatInt(categoryID, 10)
}

// Invalidator is the process-wide policy object invoked after any mutation
// that changes catalog visibility. Invalidation always deletes keys, never
// updates them, so the next read repopulates from authoritative storage.
// Failures are logged and swallowed: a stale entry self-heals on TTL expiry.
type Invalidator struct {
	store *Store
}

func NewInvalidator(store *Store) *Invalidator {
	return &Invalidator{
		store: store,
	}
}

// DishCategory drops the listing cache for one category.
func (i *Invalidator) DishCategory(ctx context.Context, categoryID int64) {
	if err := i.store.Delete(ctx, DishCategoryKey(categoryID)); err != nil {
		slog.Error("Failed to invalidate dish category cache", "category_id", categoryID, "error", err)
	}
}

// AllDishes drops every per-category dish listing. Used by mutations whose
// category scope is not known up front (update, delete, enable/disable).
func (i *Invalidator) AllDishes(ctx context.Context) {
	if err := i.store.DeleteByPrefix(ctx, DishKeyPrefix); err != nil {
		slog.Error("Failed to invalidate dish caches", "error", err)
	}
}

// Setmeals drops the setmeal listing cache.
func (i *Invalidator) Setmeals(ctx context.Context) {
	if err := i.store.Delete(ctx, SetmealCacheKey); err != nil {
		slog.Error("Failed to invalidate setmeal cache", "error", err)
	}
}
