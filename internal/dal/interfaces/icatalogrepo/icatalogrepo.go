package icatalogrepo

import (
	"context"

	"github.com/grubline/order-svc/internal/service/models/product"
)

// ICatalogRepository is an interface for catalog (dish and setmeal) reads and
// the slim mutation surface the cache invalidation policy hangs off.
type ICatalogRepository interface {
	GetDish(ctx context.Context, id int64) (*product.Product, error)
	GetSetmeal(ctx context.Context, id int64) (*product.Product, error)
	ListDishesByCategory(ctx context.Context, categoryID int64, onlyEnabled bool) ([]product.Product, error)

	InsertDish(ctx context.Context, p *product.Product) error
	UpdateDish(ctx context.Context, p *product.Product) error
	DeleteDishes(ctx context.Context, ids []int64) error
	SetDishStatus(ctx context.Context, id int64, status int32) error

	InsertSetmeal(ctx context.Context, p *product.Product) error
	UpdateSetmeal(ctx context.Context, p *product.Product) error
	DeleteSetmeals(ctx context.Context, ids []int64) error
	SetSetmealStatus(ctx context.Context, id int64, status int32) error
}
