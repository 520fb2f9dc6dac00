package order

import (
	"time"

	"github.com/grubline/order-svc/internal/service/models/orderdetail"
	"github.com/shopspring/decimal"
)

// Order represents one checkout transaction. ID is assigned by storage;
// Number is the externally visible identifier minted by the sequence
// generator and is immutable after submission. Amount is fixed at creation
// and never recomputed.
type Order struct {
	ID           int64                     `json:"id"`
	Number       string                    `json:"number"`
	UserID       int64                     `json:"userId"`
	AddressID    int64                     `json:"addressId"`
	Status       Status                    `json:"status"`
	PayStatus    PayStatus                 `json:"payStatus"`
	Amount       decimal.Decimal           `json:"amount"`
	Consignee    string                    `json:"consignee"`
	Phone        string                    `json:"phone"`
	CancelReason string                    `json:"cancelReason,omitempty"`
	OrderTime    time.Time                 `json:"orderTime"`
	CheckoutTime *time.Time                `json:"checkoutTime,omitempty"`
	CancelTime   *time.Time                `json:"cancelTime,omitempty"`
	Details      []orderdetail.OrderDetail `json:"details,omitempty"`
}

// SubmitResult is returned to the caller after a successful submission.
type SubmitResult struct {
	ID        int64           `json:"id"`
	Number    string          `json:"orderNumber"`
	OrderTime time.Time       `json:"orderTime"`
	Amount    decimal.Decimal `json:"orderAmount"`
}
