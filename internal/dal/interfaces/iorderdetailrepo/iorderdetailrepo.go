package iorderdetailrepo

import (
	"context"

	"github.com/grubline/order-svc/internal/service/models/orderdetail"
)

// IOrderDetailRepository is an interface for the order detail postgres repository.
type IOrderDetailRepository interface {
	BulkInsert(ctx context.Context, details []orderdetail.OrderDetail) error
	ListByOrderID(ctx context.Context, orderID int64) ([]orderdetail.OrderDetail, error)
}
