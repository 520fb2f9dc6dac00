package reaper

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/grubline/order-svc/internal/cache"
	"github.com/grubline/order-svc/internal/service/models/order"
	"github.com/grubline/order-svc/internal/service/services/ordersvc"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	orders map[int64]*order.Order

	cancelledIDs []int64
	cancelReason string
	completedIDs []int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int64]*order.Order)}
}

func (r *fakeOrderRepo) Insert(_ context.Context, _ *order.Order) error { return nil }

func (r *fakeOrderRepo) GetByID(_ context.Context, id int64) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}

	return o, nil
}

func (r *fakeOrderRepo) GetByNumber(_ context.Context, _ string) (*order.Order, error) {
	return nil, order.ErrOrderNotFound
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, _ int64, _, _ order.Status) (bool, error) {
	return false, nil
}

func (r *fakeOrderRepo) MarkPaidByNumber(_ context.Context, _ string, _ time.Time) (bool, error) {
	return false, nil
}

func (r *fakeOrderRepo) Cancel(_ context.Context, _ int64, _ string, _ time.Time) (bool, error) {
	return false, nil
}

func (r *fakeOrderRepo) ListByStatusOlderThan(_ context.Context, status order.Status, before time.Time) ([]order.Order, error) {
	var result []order.Order
	for _, o := range r.orders {
		if o.Status == status && o.OrderTime.Before(before) {
			result = append(result, *o)
		}
	}

	return result, nil
}

func (r *fakeOrderRepo) BulkCancel(_ context.Context, ids []int64, reason string, cancelTime time.Time) error {
	r.cancelledIDs = append(r.cancelledIDs, ids...)
	r.cancelReason = reason
	for _, id := range ids {
		o := r.orders[id]
		o.Status = order.StatusCancelled
		o.CancelReason = reason
		o.CancelTime = &cancelTime
	}

	return nil
}

func (r *fakeOrderRepo) BulkComplete(_ context.Context, ids []int64) error {
	r.completedIDs = append(r.completedIDs, ids...)
	for _, id := range ids {
		r.orders[id].Status = order.StatusCompleted
	}

	return nil
}

func newTestWorker(t *testing.T) (*Worker, *fakeOrderRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := newFakeOrderRepo()
	w := &Worker{
		orderRepo:      repo,
		cacheStore:     cache.NewStore(rdb),
		paymentTimeout: 15 * time.Minute,
		staleAge:       time.Hour,
	}

	return w, repo, mr
}

func TestCancelTimedOutOrders(t *testing.T) {
	w, repo, _ := newTestWorker(t)

	repo.orders[1] = &order.Order{ID: 1, Status: order.StatusPendingPayment, OrderTime: time.Now().Add(-20 * time.Minute)}
	repo.orders[2] = &order.Order{ID: 2, Status: order.StatusPendingPayment, OrderTime: time.Now().Add(-16 * time.Minute)}
	// Recent enough to keep waiting for payment.
	repo.orders[3] = &order.Order{ID: 3, Status: order.StatusPendingPayment, OrderTime: time.Now().Add(-5 * time.Minute)}
	// Already past payment, not the reaper's business.
	repo.orders[4] = &order.Order{ID: 4, Status: order.StatusConfirmed, OrderTime: time.Now().Add(-2 * time.Hour)}

	w.cancelTimedOutOrders(context.Background())

	assert.ElementsMatch(t, []int64{1, 2}, repo.cancelledIDs)
	assert.Equal(t, ordersvc.TimeoutCancelReason, repo.cancelReason)

	assert.Equal(t, order.StatusCancelled, repo.orders[1].Status)
	assert.NotNil(t, repo.orders[1].CancelTime)
	assert.Equal(t, order.StatusPendingPayment, repo.orders[3].Status)
	assert.Equal(t, order.StatusConfirmed, repo.orders[4].Status)
}

func TestCancelTimedOutOrdersEmptySweep(t *testing.T) {
	w, repo, _ := newTestWorker(t)

	w.cancelTimedOutOrders(context.Background())
	assert.Empty(t, repo.cancelledIDs)
}

func TestCompleteStaleOrders(t *testing.T) {
	w, repo, _ := newTestWorker(t)

	repo.orders[1] = &order.Order{ID: 1, Status: order.StatusPendingPayment, OrderTime: time.Now().Add(-2 * time.Hour)}
	repo.orders[2] = &order.Order{ID: 2, Status: order.StatusPendingPayment, OrderTime: time.Now().Add(-30 * time.Minute)}

	w.completeStaleOrders(context.Background())

	assert.Equal(t, []int64{1}, repo.completedIDs)
	assert.Equal(t, order.StatusCompleted, repo.orders[1].Status)
	assert.Equal(t, order.StatusPendingPayment, repo.orders[2].Status)
}

func TestDropStatisticsCache(t *testing.T) {
	w, _, mr := newTestWorker(t)

	require.NoError(t, mr.Set("statistics:turnover", "123"))
	require.NoError(t, mr.Set("statistics:users", "456"))
	require.NoError(t, mr.Set("dish:5", "keep"))

	w.dropStatisticsCache(context.Background())

	assert.False(t, mr.Exists("statistics:turnover"))
	assert.False(t, mr.Exists("statistics:users"))
	assert.True(t, mr.Exists("dish:5"))
}
