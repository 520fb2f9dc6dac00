package cart

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidSelector is returned when a product selector does not identify
// exactly one of dish or setmeal.
var ErrInvalidSelector = errors.New("selector must reference exactly one of dish or setmeal")

// Selector identifies one product a user is adding to or removing from the
// cart. Exactly one of DishID and SetmealID is set. DishFlavor participates
// in cart-line identity: two flavor variants of the same dish are distinct
// lines.
type Selector struct {
	DishID     *int64 `json:"dishId,omitempty"`
	SetmealID  *int64 `json:"setmealId,omitempty"`
	DishFlavor string `json:"dishFlavor,omitempty"`
}

func (s Selector) Validate() error {
	if (s.DishID == nil) == (s.SetmealID == nil) {
		return ErrInvalidSelector
	}
	return nil
}

// Line is one aggregated (product, quantity) entry in a user's pre-checkout
// selection. Name, image and amount are denormalized catalog snapshots taken
// when the line is created.
type Line struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"userId"`
	DishID     *int64          `json:"dishId,omitempty"`
	SetmealID  *int64          `json:"setmealId,omitempty"`
	DishFlavor string          `json:"dishFlavor,omitempty"`
	Name       string          `json:"name"`
	Image      string          `json:"image"`
	Amount     decimal.Decimal `json:"amount"`
	Number     int32           `json:"number"`
	CreateTime time.Time       `json:"createTime"`
}
