package shopsvc

import (
	"context"
	"errors"
	"strconv"

	"github.com/grubline/order-svc/internal/cache"
)

const (
	StatusClosed int32 = 0
	StatusOpen   int32 = 1
)

// ShopService tracks the shop open/closed flag. The flag lives in the cache
// store only; flipping it does not touch any catalog cache key.
type ShopService struct {
	store *cache.Store
}

func NewShopService(store *cache.Store) *ShopService {
	return &ShopService{
		store: store,
	}
}

// Status returns the current flag. A missing key reads as closed.
func (s *ShopService) Status(ctx context.Context) (int32, error) {
	val, err := s.store.Get(ctx, cache.ShopStatusKey)
	if errors.Is(err, cache.ErrCacheMiss) {
		return StatusClosed, nil
	}
	if err != nil {
		return 0, err
	}

	status, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return 0, err
	}

	return int32(status), nil
}

// SetStatus stores the flag without expiry.
func (s *ShopService) SetStatus(ctx context.Context, status int32) error {
	return s.store.Set(ctx, cache.ShopStatusKey, strconv.FormatInt(int64(status), 10), 0)
}
