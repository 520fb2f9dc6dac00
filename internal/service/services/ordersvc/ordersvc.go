package ordersvc

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/grubline/order-svc/internal/dal/interfaces/iaddressrepo"
	"github.com/grubline/order-svc/internal/dal/interfaces/icartrepo"
	"github.com/grubline/order-svc/internal/dal/interfaces/iorderdetailrepo"
	"github.com/grubline/order-svc/internal/dal/interfaces/iorderrepo"
	"github.com/grubline/order-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/grubline/order-svc/internal/dal/postgres"
	"github.com/grubline/order-svc/internal/dal/uow"
	"github.com/grubline/order-svc/internal/service/models/order"
	"github.com/grubline/order-svc/internal/service/models/orderdetail"
	"github.com/grubline/order-svc/internal/service/models/outbox"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

const sequenceNamespace = "order"

// TimeoutCancelReason is the reason recorded when the reaper cancels an order
// stuck past its payment deadline.
const TimeoutCancelReason = "order timeout"

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	Orders() iorderrepo.IOrderRepository
	OrderDetails() iorderdetailrepo.IOrderDetailRepository
	Carts() icartrepo.ICartRepository
	Addresses() iaddressrepo.IAddressRepository
	Outbox() ioutboxrepo.IOutboxRepository
}

type sequencer interface {
	NextID(ctx context.Context, namespace string) (int64, error)
}

// OrderService owns the order lifecycle: it validates submissions, mints
// order numbers, persists orders with their detail snapshots, and executes
// every subsequent state transition.
type OrderService struct {
	pgClient   *postgres.Client
	uowFactory func() unitOfWork
	seq        sequencer
	freight    decimal.Decimal
}

func (s *OrderService) newUOW() unitOfWork {
	if s.uowFactory != nil {
		return s.uowFactory()
	}
	return uow.NewUnitOfWork(s.pgClient)
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		freight: decimal.NewFromInt(int64(viper.GetInt("order.freight"))),
	}
	if s.freight.IsZero() {
		s.freight = decimal.NewFromInt(6)
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithSequencer sets the order number generator.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSequencer(seq sequencer) option {
	return func(s *OrderService) {
		s.seq = seq
	}
}

// WithUnitOfWorkFactory overrides transaction construction, used by tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.uowFactory = factory
	}
}

// WithFreight overrides the fixed delivery surcharge.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithFreight(freight decimal.Decimal) option {
	return func(s *OrderService) {
		s.freight = freight
	}
}

// Submit turns the user's cart into a pending order. The whole step is one
// transaction: the authoritative total is recomputed and checked against the
// client amount, the order and its detail snapshots are persisted, and the
// cart is cleared. Any failure rolls the whole unit back; an already-minted
// sequence number is simply wasted, which is acceptable (gaps are fine,
// duplicates are not).
func (s *OrderService) Submit(ctx context.Context, userID, addressID int64, clientAmount decimal.Decimal) (*order.SubmitResult, error) {
	ctx, span := otel.Tracer("ordersvc").Start(ctx, "Submit")
	defer span.End()

	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	addr, err := work.Addresses().GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}

	// Cart mutations take the same per-user advisory lock, so the cart
	// cannot change between the price check and the clear below.
	if err := work.Carts().LockUser(ctx, userID); err != nil {
		return nil, err
	}

	lines, err := work.Carts().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, order.ErrEmptyCart
	}

	total := s.freight
	for _, line := range lines {
		total = total.Add(line.Amount.Mul(decimal.NewFromInt32(line.Number)))
	}

	if !total.Equal(clientAmount) {
		slog.Error("Order amount mismatch", "user_id", userID, "expected", total, "got", clientAmount)

		return nil, order.ErrPriceMismatch
	}

	id, err := s.seq.NextID(ctx, sequenceNamespace)
	if err != nil {
		return nil, err
	}

	o := &order.Order{
		Number:    strconv.FormatInt(id, 10),
		UserID:    userID,
		AddressID: addressID,
		Status:    order.StatusPendingPayment,
		PayStatus: order.PayStatusUnpaid,
		Amount:    total,
		Consignee: addr.Consignee,
		Phone:     addr.Phone,
		OrderTime: time.Now(),
	}

	if err := work.Orders().Insert(ctx, o); err != nil {
		return nil, err
	}

	details := make([]orderdetail.OrderDetail, 0, len(lines))
	for _, line := range lines {
		details = append(details, orderdetail.OrderDetail{
			OrderID:    o.ID,
			DishID:     line.DishID,
			SetmealID:  line.SetmealID,
			DishFlavor: line.DishFlavor,
			Name:       line.Name,
			Image:      line.Image,
			Amount:     line.Amount,
			Number:     line.Number,
		})
	}
	if err := work.OrderDetails().BulkInsert(ctx, details); err != nil {
		return nil, err
	}

	if err := work.Carts().DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	slog.Info("Order submitted", "order_id", o.ID, "number", o.Number, "user_id", userID, "amount", total)

	return &order.SubmitResult{
		ID:        o.ID,
		Number:    o.Number,
		OrderTime: o.OrderTime,
		Amount:    o.Amount,
	}, nil
}

// ConfirmPayment transitions PENDING_PAYMENT to TO_BE_CONFIRMED, stamping
// pay status and checkout time. Payment callbacks can be retried or
// duplicated by the upstream gateway, so a second call for an already-paid
// order is a no-op.
func (s *OrderService) ConfirmPayment(ctx context.Context, orderNumber string) error {
	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = work.Rollback(ctx) }()

	transitioned, err := work.Orders().MarkPaidByNumber(ctx, orderNumber, time.Now())
	if err != nil {
		return err
	}

	if !transitioned {
		// Zero rows: either the order is unknown, already paid (duplicate
		// callback), or in a state that cannot accept payment.
		o, err := work.Orders().GetByNumber(ctx, orderNumber)
		if err != nil {
			return err
		}
		if o.PayStatus == order.PayStatusPaid {
			slog.Info("Duplicate payment confirmation ignored", "number", orderNumber)

			return nil
		}

		return order.ErrInvalidTransition
	}

	o, err := work.Orders().GetByNumber(ctx, orderNumber)
	if err != nil {
		return err
	}

	if err := s.enqueueEvent(ctx, work, outbox.RoutingKeyOrderPaid, o); err != nil {
		return err
	}

	if err := work.Commit(ctx); err != nil {
		return err
	}

	slog.Info("Order payment confirmed", "number", orderNumber)

	return nil
}

// Confirm is the merchant accepting a paid order.
func (s *OrderService) Confirm(ctx context.Context, orderID int64) error {
	return s.transition(ctx, orderID, order.StatusToBeConfirmed, order.StatusConfirmed)
}

// StartDelivery moves a confirmed order out for delivery.
func (s *OrderService) StartDelivery(ctx context.Context, orderID int64) error {
	return s.transition(ctx, orderID, order.StatusConfirmed, order.StatusDeliveryInProgress)
}

// Complete finishes a delivered order.
func (s *OrderService) Complete(ctx context.Context, orderID int64) error {
	return s.transition(ctx, orderID, order.StatusDeliveryInProgress, order.StatusCompleted)
}

func (s *OrderService) transition(ctx context.Context, orderID int64, from, to order.Status) error {
	work := s.newUOW()

	moved, err := work.Orders().UpdateStatus(ctx, orderID, from, to)
	if err != nil {
		return err
	}
	if !moved {
		// Zero rows affected means the expected prior state did not hold:
		// the order is missing or another transition won the race.
		if _, err := work.Orders().GetByID(ctx, orderID); err != nil {
			return err
		}

		return order.ErrInvalidTransition
	}

	slog.Info("Order status updated", "order_id", orderID, "from", from.String(), "to", to.String())

	return nil
}

// Cancel is permitted only before the merchant confirms the order. The
// status condition on the write rejects concurrent or stale cancellations,
// so a delivered order can never be silently cancelled.
func (s *OrderService) Cancel(ctx context.Context, orderID int64, reason string) error {
	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = work.Rollback(ctx) }()

	cancelled, err := work.Orders().Cancel(ctx, orderID, reason, time.Now())
	if err != nil {
		return err
	}
	if !cancelled {
		if _, err := work.Orders().GetByID(ctx, orderID); err != nil {
			return err
		}

		return order.ErrInvalidTransition
	}

	o, err := work.Orders().GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.enqueueEvent(ctx, work, outbox.RoutingKeyOrderCancelled, o); err != nil {
		return err
	}

	if err := work.Commit(ctx); err != nil {
		return err
	}

	slog.Info("Order cancelled", "order_id", orderID, "reason", reason)

	return nil
}

// GetByID returns one order with its detail snapshots.
func (s *OrderService) GetByID(ctx context.Context, orderID int64) (*order.Order, error) {
	work := s.newUOW()

	o, err := work.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	details, err := work.OrderDetails().ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Details = details

	return o, nil
}

func (s *OrderService) enqueueEvent(ctx context.Context, work unitOfWork, routingKey string, o *order.Order) error {
	msg, err := outbox.NewOrderEvent(routingKey, outbox.OrderEvent{
		OrderID:    o.ID,
		Number:     o.Number,
		Status:     o.Status.String(),
		OccurredAt: time.Now(),
	})
	if err != nil {
		return err
	}

	return work.Outbox().Insert(ctx, msg)
}
