package reaper

import (
	"context"
	"log/slog"
	"time"

	"github.com/grubline/order-svc/internal/cache"
	"github.com/grubline/order-svc/internal/dal/interfaces/iorderrepo"
	"github.com/grubline/order-svc/internal/service/models/order"
	"github.com/grubline/order-svc/internal/service/services/ordersvc"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Worker periodically force-transitions orders stuck in intermediate states.
// Sweeps operate directly on storage as bulk conditional updates: the batch
// has already been selected by status and deadline, so per-order transition
// checks do not apply. Each sweep is an independent scheduled unit; a failed
// run logs and is naturally retried at the next tick.
type Worker struct {
	orderRepo      iorderrepo.IOrderRepository
	cacheStore     *cache.Store
	sweepInterval  time.Duration
	paymentTimeout time.Duration
	staleAge       time.Duration
	cron           *cron.Cron
	stopCh         chan struct{}
}

// NewWorker creates a new reaper worker.
func NewWorker(orderRepo iorderrepo.IOrderRepository, cacheStore *cache.Store) *Worker {
	sweepIntervalSeconds := viper.GetInt("reaper.sweep_interval_seconds")
	if sweepIntervalSeconds == 0 {
		sweepIntervalSeconds = 60
	}

	paymentTimeoutMinutes := viper.GetInt("reaper.payment_timeout_minutes")
	if paymentTimeoutMinutes == 0 {
		paymentTimeoutMinutes = 15
	}

	staleAgeMinutes := viper.GetInt("reaper.stale_age_minutes")
	if staleAgeMinutes == 0 {
		staleAgeMinutes = 60
	}

	return &Worker{
		orderRepo:      orderRepo,
		cacheStore:     cacheStore,
		sweepInterval:  time.Duration(sweepIntervalSeconds) * time.Second,
		paymentTimeout: time.Duration(paymentTimeoutMinutes) * time.Minute,
		staleAge:       time.Duration(staleAgeMinutes) * time.Minute,
		cron:           cron.New(),
		stopCh:         make(chan struct{}),
	}
}

// Start runs the minute-granularity timeout sweep on a ticker and schedules
// the daily and half-hourly sweeps on cron. Cron fires each job in its own
// goroutine, so no sweep ever blocks another.
func (w *Worker) Start(ctx context.Context) {
	// Daily 01:00 sweep over still-pending orders (see completeStaleOrders).
	if _, err := w.cron.AddFunc("0 1 * * *", func() { w.completeStaleOrders(ctx) }); err != nil {
		slog.Error("Failed to schedule stale order sweep", "error", err)
	}
	if _, err := w.cron.AddFunc("*/30 * * * *", func() { w.dropStatisticsCache(ctx) }); err != nil {
		slog.Error("Failed to schedule statistics cache sweep", "error", err)
	}
	w.cron.Start()
	defer w.cron.Stop()

	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	slog.Info("Reaper started",
		"sweep_interval", w.sweepInterval,
		"payment_timeout", w.paymentTimeout,
	)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Reaper shutting down")

			return
		case <-w.stopCh:
			slog.Info("Reaper stopped")

			return
		case <-ticker.C:
			w.cancelTimedOutOrders(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

// cancelTimedOutOrders cancels orders that stayed in PENDING_PAYMENT past the
// payment deadline, in one bulk round trip.
func (w *Worker) cancelTimedOutOrders(ctx context.Context) {
	deadline := time.Now().Add(-w.paymentTimeout)

	orders, err := w.orderRepo.ListByStatusOlderThan(ctx, order.StatusPendingPayment, deadline)
	if err != nil {
		slog.Error("Timeout sweep query failed", "error", err)

		return
	}
	if len(orders) == 0 {
		return
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	if err := w.orderRepo.BulkCancel(ctx, ids, ordersvc.TimeoutCancelReason, time.Now()); err != nil {
		slog.Error("Timeout sweep cancel failed", "count", len(ids), "error", err)

		return
	}

	slog.Info("Cancelled timed out orders", "count", len(ids))
}

// completeStaleOrders bulk-completes orders still pending payment after the
// stale age. This mirrors the long-standing nightly behavior; completing a
// never-paid order is questionable and is flagged for product clarification
// rather than changed here.
func (w *Worker) completeStaleOrders(ctx context.Context) {
	deadline := time.Now().Add(-w.staleAge)

	orders, err := w.orderRepo.ListByStatusOlderThan(ctx, order.StatusPendingPayment, deadline)
	if err != nil {
		slog.Error("Stale sweep query failed", "error", err)

		return
	}
	if len(orders) == 0 {
		return
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	if err := w.orderRepo.BulkComplete(ctx, ids); err != nil {
		slog.Error("Stale sweep complete failed", "count", len(ids), "error", err)

		return
	}

	slog.Info("Completed stale orders", "count", len(ids))
}

// dropStatisticsCache clears the report statistics keys so dashboards never
// serve figures older than the sweep interval.
func (w *Worker) dropStatisticsCache(ctx context.Context) {
	if err := w.cacheStore.DeleteByPrefix(ctx, cache.StatisticsKeyPrefix); err != nil {
		slog.Error("Statistics cache sweep failed", "error", err)
	}
}
