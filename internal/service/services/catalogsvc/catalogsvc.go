package catalogsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/grubline/order-svc/internal/cache"
	"github.com/grubline/order-svc/internal/dal/interfaces/icatalogrepo"
	"github.com/grubline/order-svc/internal/service/models/product"
	"github.com/spf13/viper"
)

// CatalogService serves catalog reads through an explicit cache-aside path
// and applies the invalidation policy after every mutation that changes
// catalog visibility.
type CatalogService struct {
	repo        icatalogrepo.ICatalogRepository
	store       *cache.Store
	invalidator *cache.Invalidator
	dishTTL     time.Duration
}

// option is a function that configures the CatalogService.
type option func(*CatalogService)

// MustNewCatalogService creates a new CatalogService.
func MustNewCatalogService(opts ...option) *CatalogService {
	ttlMinutes := viper.GetInt("cache.dish_ttl_minutes")
	if ttlMinutes == 0 {
		ttlMinutes = 30
	}

	s := &CatalogService{
		dishTTL: time.Duration(ttlMinutes) * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithRepository sets the catalog repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepository(repo icatalogrepo.ICatalogRepository) option {
	return func(s *CatalogService) {
		s.repo = repo
	}
}

// WithCache sets the cache store and invalidator.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCache(store *cache.Store, invalidator *cache.Invalidator) option {
	return func(s *CatalogService) {
		s.store = store
		s.invalidator = invalidator
	}
}

// ListDishesByCategory returns the enabled dishes of one category. The cache
// key is derived from the category id; on a miss the listing is computed from
// storage and populated. Cache failures fall through to storage and are only
// logged.
func (s *CatalogService) ListDishesByCategory(ctx context.Context, categoryID int64) ([]product.Product, error) {
	key := cache.DishCategoryKey(categoryID)

	cached, err := s.store.Get(ctx, key)
	if err == nil {
		var list []product.Product
		if err := json.Unmarshal([]byte(cached), &list); err == nil {
			return list, nil
		}
		slog.Warn("Failed to decode cached dish listing, falling through", "key", key)
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		slog.Error("Dish cache read failed, falling through", "key", key, "error", err)
	}

	list, err := s.repo.ListDishesByCategory(ctx, categoryID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}

	if payload, err := json.Marshal(list); err == nil {
		if err := s.store.Set(ctx, key, string(payload), s.dishTTL); err != nil {
			slog.Error("Dish cache write failed", "key", key, "error", err)
		}
	}

	return list, nil
}

// SaveDish creates a dish and invalidates its category listing.
func (s *CatalogService) SaveDish(ctx context.Context, p *product.Product) error {
	if err := s.repo.InsertDish(ctx, p); err != nil {
		return err
	}
	s.invalidator.DishCategory(ctx, p.CategoryID)

	return nil
}

// UpdateDish updates a dish. The dish may have moved category, so every
// category listing is dropped.
func (s *CatalogService) UpdateDish(ctx context.Context, p *product.Product) error {
	if err := s.repo.UpdateDish(ctx, p); err != nil {
		return err
	}
	s.invalidator.AllDishes(ctx)

	return nil
}

// DeleteDishes removes dishes and drops every category listing.
func (s *CatalogService) DeleteDishes(ctx context.Context, ids []int64) error {
	if err := s.repo.DeleteDishes(ctx, ids); err != nil {
		return err
	}
	s.invalidator.AllDishes(ctx)

	return nil
}

// SetDishStatus enables or disables a dish and drops every category listing.
func (s *CatalogService) SetDishStatus(ctx context.Context, id int64, status int32) error {
	if err := s.repo.SetDishStatus(ctx, id, status); err != nil {
		return err
	}
	s.invalidator.AllDishes(ctx)

	return nil
}

// SaveSetmeal creates a setmeal and invalidates the setmeal listing.
func (s *CatalogService) SaveSetmeal(ctx context.Context, p *product.Product) error {
	if err := s.repo.InsertSetmeal(ctx, p); err != nil {
		return err
	}
	s.invalidator.Setmeals(ctx)

	return nil
}

// UpdateSetmeal updates a setmeal and invalidates the setmeal listing.
func (s *CatalogService) UpdateSetmeal(ctx context.Context, p *product.Product) error {
	if err := s.repo.UpdateSetmeal(ctx, p); err != nil {
		return err
	}
	s.invalidator.Setmeals(ctx)

	return nil
}

// DeleteSetmeals removes setmeals and invalidates the setmeal listing.
func (s *CatalogService) DeleteSetmeals(ctx context.Context, ids []int64) error {
	if err := s.repo.DeleteSetmeals(ctx, ids); err != nil {
		return err
	}
	s.invalidator.Setmeals(ctx)

	return nil
}

// SetSetmealStatus enables or disables a setmeal and invalidates the setmeal
// listing.
func (s *CatalogService) SetSetmealStatus(ctx context.Context, id int64, status int32) error {
	if err := s.repo.SetSetmealStatus(ctx, id, status); err != nil {
		return err
	}
	s.invalidator.Setmeals(ctx)

	return nil
}
