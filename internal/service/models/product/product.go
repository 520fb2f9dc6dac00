package product

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrProductNotFound is returned when a catalog lookup finds no matching
// dish or setmeal.
var ErrProductNotFound = errors.New("product not found")

const (
	StatusDisabled int32 = 0
	StatusEnabled  int32 = 1
)

// Product is a catalog snapshot of a dish or a setmeal: the fields the order
// engine copies into cart lines and order details.
type Product struct {
	ID         int64           `json:"id"`
	CategoryID int64           `json:"categoryId"`
	Name       string          `json:"name"`
	Image      string          `json:"image"`
	Price      decimal.Decimal `json:"price"`
	Status     int32           `json:"status"`
}
