package icartrepo

import (
	"context"

	"github.com/grubline/order-svc/internal/service/models/cart"
)

// ICartRepository is an interface for the shopping cart postgres repository.
//
// LockUser takes a transaction-scoped advisory lock serializing all cart
// mutations for one user; it must be called inside a transaction before any
// find-then-write sequence.
type ICartRepository interface {
	LockUser(ctx context.Context, userID int64) error
	Find(ctx context.Context, userID int64, sel cart.Selector) (*cart.Line, error)
	ListByUser(ctx context.Context, userID int64) ([]cart.Line, error)
	Insert(ctx context.Context, line *cart.Line) error
	UpdateNumber(ctx context.Context, id int64, number int32) error
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}
