package orderdetail

import "github.com/shopspring/decimal"

// OrderDetail is a line item snapshot owned by exactly one order. Name,
// image and unit price are copied from the cart line at submission time and
// are immune to later catalog changes.
type OrderDetail struct {
	ID         int64           `json:"id"`
	OrderID    int64           `json:"orderId"`
	DishID     *int64          `json:"dishId,omitempty"`
	SetmealID  *int64          `json:"setmealId,omitempty"`
	DishFlavor string          `json:"dishFlavor,omitempty"`
	Name       string          `json:"name"`
	Image      string          `json:"image"`
	Amount     decimal.Decimal `json:"amount"`
	Number     int32           `json:"number"`
}
