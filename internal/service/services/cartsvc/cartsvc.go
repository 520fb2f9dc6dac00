package cartsvc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/grubline/order-svc/internal/dal/interfaces/icartrepo"
	"github.com/grubline/order-svc/internal/dal/interfaces/icatalogrepo"
	"github.com/grubline/order-svc/internal/dal/postgres"
	"github.com/grubline/order-svc/internal/dal/uow"
	"github.com/grubline/order-svc/internal/service/models/cart"
	"github.com/grubline/order-svc/internal/service/models/product"
)

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	Carts() icartrepo.ICartRepository
	Catalog() icatalogrepo.ICatalogRepository
}

// CartService aggregates a user's pre-checkout selection. Every mutation runs
// in a transaction holding the per-user advisory lock, so concurrent add/sub
// calls for the same user (a double-tap) cannot interleave between the
// existence check and the write.
type CartService struct {
	pgClient   *postgres.Client
	uowFactory func() unitOfWork
}

func (s *CartService) newUOW() unitOfWork {
	if s.uowFactory != nil {
		return s.uowFactory()
	}
	return uow.NewUnitOfWork(s.pgClient)
}

// option is a function that configures the CartService.
type option func(*CartService)

// MustNewCartService creates a new CartService.
func MustNewCartService(opts ...option) *CartService {
	s := &CartService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient sets the Postgres client for the CartService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CartService) {
		s.pgClient = pgClient
	}
}

// WithUnitOfWorkFactory overrides transaction construction, used by tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *CartService) {
		s.uowFactory = factory
	}
}

// Add merges the selected product into the user's cart: an existing matching
// line is incremented, otherwise a new line is created from the current
// catalog snapshot. A catalog miss is deliberately silent: the user simply
// sees no change.
func (s *CartService) Add(ctx context.Context, userID int64, sel cart.Selector) error {
	if err := sel.Validate(); err != nil {
		return err
	}

	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = work.Rollback(ctx) }()

	if err := work.Carts().LockUser(ctx, userID); err != nil {
		return err
	}

	line, err := work.Carts().Find(ctx, userID, sel)
	if err != nil {
		return err
	}

	if line != nil {
		if err := work.Carts().UpdateNumber(ctx, line.ID, line.Number+1); err != nil {
			return err
		}

		return work.Commit(ctx)
	}

	p, err := s.lookupProduct(ctx, work, sel)
	if errors.Is(err, product.ErrProductNotFound) {
		slog.Warn("Cart add ignored, product not found", "user_id", userID)

		return nil
	}
	if err != nil {
		return err
	}

	newLine := &cart.Line{
		UserID:     userID,
		DishID:     sel.DishID,
		SetmealID:  sel.SetmealID,
		DishFlavor: sel.DishFlavor,
		Name:       p.Name,
		Image:      p.Image,
		Amount:     p.Price,
		Number:     1,
		CreateTime: time.Now(),
	}
	if err := work.Carts().Insert(ctx, newLine); err != nil {
		return err
	}

	return work.Commit(ctx)
}

// Sub decrements the matching line, deleting it when the quantity reaches
// zero. A missing line is a no-op.
func (s *CartService) Sub(ctx context.Context, userID int64, sel cart.Selector) error {
	if err := sel.Validate(); err != nil {
		return err
	}

	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = work.Rollback(ctx) }()

	if err := work.Carts().LockUser(ctx, userID); err != nil {
		return err
	}

	line, err := work.Carts().Find(ctx, userID, sel)
	if err != nil {
		return err
	}
	if line == nil {
		return nil
	}

	if line.Number > 1 {
		if err := work.Carts().UpdateNumber(ctx, line.ID, line.Number-1); err != nil {
			return err
		}
	} else {
		if err := work.Carts().Delete(ctx, line.ID); err != nil {
			return err
		}
	}

	return work.Commit(ctx)
}

// List returns the user's cart lines.
func (s *CartService) List(ctx context.Context, userID int64) ([]cart.Line, error) {
	return s.newUOW().Carts().ListByUser(ctx, userID)
}

// Clean deletes all of the user's cart lines.
func (s *CartService) Clean(ctx context.Context, userID int64) error {
	return s.newUOW().Carts().DeleteByUser(ctx, userID)
}

func (s *CartService) lookupProduct(ctx context.Context, work unitOfWork, sel cart.Selector) (*product.Product, error) {
	if sel.DishID != nil {
		return work.Catalog().GetDish(ctx, *sel.DishID)
	}
	return work.Catalog().GetSetmeal(ctx, *sel.SetmealID)
}
