package iorderrepo

import (
	"context"
	"time"

	"github.com/grubline/order-svc/internal/service/models/order"
)

// IOrderRepository is an interface for the order postgres repository.
//
// Every single-order transition write is conditional on the expected prior
// status; implementations return the number of rows affected so callers can
// distinguish a lost race from success. The bulk methods are used by the
// timeout reaper and skip per-order precondition checks.
type IOrderRepository interface {
	Insert(ctx context.Context, o *order.Order) error
	GetByID(ctx context.Context, id int64) (*order.Order, error)
	GetByNumber(ctx context.Context, number string) (*order.Order, error)

	UpdateStatus(ctx context.Context, id int64, from, to order.Status) (bool, error)
	MarkPaidByNumber(ctx context.Context, number string, checkoutTime time.Time) (bool, error)
	Cancel(ctx context.Context, id int64, reason string, cancelTime time.Time) (bool, error)

	ListByStatusOlderThan(ctx context.Context, status order.Status, before time.Time) ([]order.Order, error)
	BulkCancel(ctx context.Context, ids []int64, reason string, cancelTime time.Time) error
	BulkComplete(ctx context.Context, ids []int64) error
}
