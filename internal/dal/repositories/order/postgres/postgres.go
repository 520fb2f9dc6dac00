package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/grubline/order-svc/internal/dal/postgres"
	"github.com/grubline/order-svc/internal/service/models/order"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var orderColumns = []string{
	"id",
	"number",
	"user_id",
	"address_id",
	"status",
	"pay_status",
	"amount",
	"consignee",
	"phone",
	"cancel_reason",
	"order_time",
	"checkout_time",
	"cancel_time",
}

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id           int64
	Number       string
	UserId       int64
	AddressId    int64
	Status       int32
	PayStatus    int32
	Amount       decimal.Decimal
	Consignee    string
	Phone        string
	CancelReason *string
	OrderTime    time.Time
	CheckoutTime *time.Time
	CancelTime   *time.Time
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() *order.Order {
	model := &order.Order{
		ID:           o.Id,
		Number:       o.Number,
		UserID:       o.UserId,
		AddressID:    o.AddressId,
		Status:       order.Status(o.Status),
		PayStatus:    order.PayStatus(o.PayStatus),
		Amount:       o.Amount,
		Consignee:    o.Consignee,
		Phone:        o.Phone,
		OrderTime:    o.OrderTime,
		CheckoutTime: o.CheckoutTime,
		CancelTime:   o.CancelTime,
	}
	if o.CancelReason != nil {
		model.CancelReason = *o.CancelReason
	}

	return model
}

type PostgresOrderRepository struct {
	conn postgres.Querier
}

func NewPostgresOrderRepository(conn postgres.Querier) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

// Insert persists a new order and assigns its storage id.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o *order.Order) error {
	query, args, err := sq.Insert("orders").
		Columns(
			"number",
			"user_id",
			"address_id",
			"status",
			"pay_status",
			"amount",
			"consignee",
			"phone",
			"order_time",
		).
		Values(
			o.Number,
			o.UserID,
			o.AddressID,
			int32(o.Status),
			int32(o.PayStatus),
			o.Amount,
			o.Consignee,
			o.Phone,
			o.OrderTime,
		).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&o.ID); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its internal storage id.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

// GetByNumber retrieves an order by its external number. Payment callbacks
// only know the number, not the internal id.
func (r *PostgresOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	return r.getOne(ctx, sq.Eq{"number": number})
}

func (r *PostgresOrderRepository) getOne(ctx context.Context, pred sq.Eq) (*order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(pred).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal OrderDal
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&dal.Id,
		&dal.Number,
		&dal.UserId,
		&dal.AddressId,
		&dal.Status,
		&dal.PayStatus,
		&dal.Amount,
		&dal.Consignee,
		&dal.Phone,
		&dal.CancelReason,
		&dal.OrderTime,
		&dal.CheckoutTime,
		&dal.CancelTime,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return dal.ToModel(), nil
}

// UpdateStatus performs a conditional transition write. It returns false when
// zero rows were affected, signalling the order was not in the expected prior
// status (a lost optimistic-concurrency race or a stale client view).
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id int64, from, to order.Status) (bool, error) {
	query, args, err := sq.Update("orders").
		Set("status", int32(to)).
		Where(sq.Eq{"id": id, "status": int32(from)}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkPaidByNumber transitions PENDING_PAYMENT to TO_BE_CONFIRMED, stamping
// pay status and checkout time. The status condition makes repeated payment
// callbacks affect zero rows instead of double-transitioning.
func (r *PostgresOrderRepository) MarkPaidByNumber(ctx context.Context, number string, checkoutTime time.Time) (bool, error) {
	query, args, err := sq.Update("orders").
		Set("status", int32(order.StatusToBeConfirmed)).
		Set("pay_status", int32(order.PayStatusPaid)).
		Set("checkout_time", checkoutTime).
		Where(sq.Eq{"number": number, "status": int32(order.StatusPendingPayment)}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Cancel transitions an order to CANCELLED, recording the reason. The write
// is conditional on the order still being in a cancellable status.
func (r *PostgresOrderRepository) Cancel(ctx context.Context, id int64, reason string, cancelTime time.Time) (bool, error) {
	query, args, err := sq.Update("orders").
		Set("status", int32(order.StatusCancelled)).
		Set("cancel_reason", reason).
		Set("cancel_time", cancelTime).
		Where(sq.Eq{
			"id":     id,
			"status": []int32{int32(order.StatusPendingPayment), int32(order.StatusToBeConfirmed)},
		}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to cancel order: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListByStatusOlderThan returns orders stuck in the given status with an
// order time before the deadline. Used by the reaper sweeps.
func (r *PostgresOrderRepository) ListByStatusOlderThan(ctx context.Context, status order.Status, before time.Time) ([]order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"status": int32(status)}).
		Where(sq.Lt{"order_time": before}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stuck orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var dal OrderDal
		err := rows.Scan(
			&dal.Id,
			&dal.Number,
			&dal.UserId,
			&dal.AddressId,
			&dal.Status,
			&dal.PayStatus,
			&dal.Amount,
			&dal.Consignee,
			&dal.Phone,
			&dal.CancelReason,
			&dal.OrderTime,
			&dal.CheckoutTime,
			&dal.CancelTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// BulkCancel force-transitions a batch of orders to CANCELLED in one round
// trip. It intentionally skips per-order precondition checks: the caller has
// already selected the qualifying batch.
func (r *PostgresOrderRepository) BulkCancel(ctx context.Context, ids []int64, reason string, cancelTime time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sq.Update("orders").
		Set("status", int32(order.StatusCancelled)).
		Set("cancel_reason", reason).
		Set("cancel_time", cancelTime).
		Where(sq.Eq{"id": ids}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to bulk cancel orders: %w", err)
	}

	return nil
}

// BulkComplete force-transitions a batch of orders to COMPLETED in one round
// trip, with no reason or timestamp payload.
func (r *PostgresOrderRepository) BulkComplete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sq.Update("orders").
		Set("status", int32(order.StatusCompleted)).
		Where(sq.Eq{"id": ids}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to bulk complete orders: %w", err)
	}

	return nil
}
