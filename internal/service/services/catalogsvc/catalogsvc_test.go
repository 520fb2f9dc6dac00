package catalogsvc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/grubline/order-svc/internal/cache"
	"github.com/grubline/order-svc/internal/service/models/product"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogRepo struct {
	dishes    map[int64][]product.Product
	listCalls int
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{dishes: make(map[int64][]product.Product)}
}

func (r *fakeCatalogRepo) GetDish(_ context.Context, _ int64) (*product.Product, error) {
	return nil, product.ErrProductNotFound
}

func (r *fakeCatalogRepo) GetSetmeal(_ context.Context, _ int64) (*product.Product, error) {
	return nil, product.ErrProductNotFound
}

func (r *fakeCatalogRepo) ListDishesByCategory(_ context.Context, categoryID int64, _ bool) ([]product.Product, error) {
	r.listCalls++

	return r.dishes[categoryID], nil
}

func (r *fakeCatalogRepo) InsertDish(_ context.Context, p *product.Product) error {
	p.ID = 1

	return nil
}

func (r *fakeCatalogRepo) UpdateDish(_ context.Context, _ *product.Product) error { return nil }

func (r *fakeCatalogRepo) DeleteDishes(_ context.Context, _ []int64) error { return nil }

func (r *fakeCatalogRepo) SetDishStatus(_ context.Context, _ int64, _ int32) error { return nil }

func (r *fakeCatalogRepo) InsertSetmeal(_ context.Context, p *product.Product) error {
	p.ID = 1

	return nil
}

func (r *fakeCatalogRepo) UpdateSetmeal(_ context.Context, _ *product.Product) error { return nil }

func (r *fakeCatalogRepo) DeleteSetmeals(_ context.Context, _ []int64) error { return nil }

func (r *fakeCatalogRepo) SetSetmealStatus(_ context.Context, _ int64, _ int32) error { return nil }

func newTestService(t *testing.T) (*CatalogService, *fakeCatalogRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := cache.NewStore(rdb)
	repo := newFakeCatalogRepo()

	svc := MustNewCatalogService(
		WithRepository(repo),
		WithCache(store, cache.NewInvalidator(store)),
	)

	return svc, repo, mr
}

func TestListDishesCacheMissPopulates(t *testing.T) {
	svc, repo, mr := newTestService(t)
	repo.dishes[5] = []product.Product{
		{ID: 1, CategoryID: 5, Name: "Mapo Tofu", Price: decimal.RequireFromString("12.50"), Status: product.StatusEnabled},
	}

	list, err := svc.ListDishesByCategory(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, repo.listCalls)

	// The listing is now cached under the category key with a TTL.
	require.True(t, mr.Exists("dish:5"))
	assert.Greater(t, mr.TTL("dish:5").Minutes(), 0.0)

	// A second read is served from the cache.
	list, err = svc.ListDishesByCategory(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Mapo Tofu", list[0].Name)
	assert.Equal(t, 1, repo.listCalls)
}

func TestListDishesCacheHit(t *testing.T) {
	svc, repo, mr := newTestService(t)

	cached := []product.Product{{ID: 9, CategoryID: 5, Name: "Cached Dish"}}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)
	require.NoError(t, mr.Set("dish:5", string(payload)))

	list, err := svc.ListDishesByCategory(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Cached Dish", list[0].Name)
	assert.Equal(t, 0, repo.listCalls)
}

func TestListDishesCorruptCacheFallsThrough(t *testing.T) {
	svc, repo, mr := newTestService(t)
	repo.dishes[5] = []product.Product{{ID: 1, CategoryID: 5, Name: "Mapo Tofu"}}
	require.NoError(t, mr.Set("dish:5", "{not json"))

	list, err := svc.ListDishesByCategory(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, repo.listCalls)
}

func TestSaveDishInvalidatesCategory(t *testing.T) {
	svc, _, mr := newTestService(t)
	require.NoError(t, mr.Set("dish:5", "stale"))
	require.NoError(t, mr.Set("dish:6", "other"))

	p := &product.Product{CategoryID: 5, Name: "New Dish", Price: decimal.RequireFromString("9.00")}
	require.NoError(t, svc.SaveDish(context.Background(), p))

	assert.False(t, mr.Exists("dish:5"))
	assert.True(t, mr.Exists("dish:6"))
}

func TestUpdateDishInvalidatesAllCategories(t *testing.T) {
	svc, _, mr := newTestService(t)
	require.NoError(t, mr.Set("dish:5", "stale"))
	require.NoError(t, mr.Set("dish:6", "stale"))
	require.NoError(t, mr.Set("setmealCache", "keep"))

	p := &product.Product{ID: 1, CategoryID: 6, Name: "Moved Dish"}
	require.NoError(t, svc.UpdateDish(context.Background(), p))

	assert.False(t, mr.Exists("dish:5"))
	assert.False(t, mr.Exists("dish:6"))
	assert.True(t, mr.Exists("setmealCache"))
}

func TestSetDishStatusInvalidatesAllCategories(t *testing.T) {
	svc, _, mr := newTestService(t)
	require.NoError(t, mr.Set("dish:5", "stale"))

	require.NoError(t, svc.SetDishStatus(context.Background(), 1, product.StatusDisabled))
	assert.False(t, mr.Exists("dish:5"))
}

func TestSetmealMutationsInvalidateSetmealCache(t *testing.T) {
	svc, _, mr := newTestService(t)

	require.NoError(t, mr.Set("setmealCache", "stale"))
	require.NoError(t, svc.SaveSetmeal(context.Background(), &product.Product{Name: "Set A"}))
	assert.False(t, mr.Exists("setmealCache"))

	require.NoError(t, mr.Set("setmealCache", "stale"))
	require.NoError(t, svc.DeleteSetmeals(context.Background(), []int64{1}))
	assert.False(t, mr.Exists("setmealCache"))

	require.NoError(t, mr.Set("setmealCache", "stale"))
	require.NoError(t, svc.SetSetmealStatus(context.Background(), 1, product.StatusEnabled))
	assert.False(t, mr.Exists("setmealCache"))
}
