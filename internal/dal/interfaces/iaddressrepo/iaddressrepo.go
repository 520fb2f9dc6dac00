package iaddressrepo

import (
	"context"

	"github.com/grubline/order-svc/internal/service/models/address"
)

// IAddressRepository is an interface for the address book postgres repository.
type IAddressRepository interface {
	GetByID(ctx context.Context, id int64) (*address.Address, error)
}
