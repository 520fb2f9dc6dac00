package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/grubline/order-svc/internal/dal/postgres"
	"github.com/grubline/order-svc/internal/service/models/orderdetail"
)

type PostgresOrderDetailRepository struct {
	conn postgres.Querier
}

func NewPostgresOrderDetailRepository(conn postgres.Querier) *PostgresOrderDetailRepository {
	return &PostgresOrderDetailRepository{
		conn: conn,
	}
}

// BulkInsert inserts the detail snapshot rows for an order in one statement.
func (r *PostgresOrderDetailRepository) BulkInsert(ctx context.Context, details []orderdetail.OrderDetail) error {
	if len(details) == 0 {
		return nil
	}

	builder := sq.Insert("order_details").
		Columns(
			"order_id",
			"dish_id",
			"setmeal_id",
			"dish_flavor",
			"name",
			"image",
			"amount",
			"number",
		).
		PlaceholderFormat(sq.Dollar)

	for _, d := range details {
		builder = builder.Values(
			d.OrderID,
			d.DishID,
			d.SetmealID,
			d.DishFlavor,
			d.Name,
			d.Image,
			d.Amount,
			d.Number,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to bulk insert order details: %w", err)
	}

	return nil
}

// ListByOrderID returns the line item snapshots owned by one order.
func (r *PostgresOrderDetailRepository) ListByOrderID(ctx context.Context, orderID int64) ([]orderdetail.OrderDetail, error) {
	query, args, err := sq.Select(
		"id",
		"order_id",
		"dish_id",
		"setmeal_id",
		"dish_flavor",
		"name",
		"image",
		"amount",
		"number",
	).
		From("order_details").
		Where(sq.Eq{"order_id": orderID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order details: %w", err)
	}
	defer rows.Close()

	var result []orderdetail.OrderDetail
	for rows.Next() {
		var d orderdetail.OrderDetail
		err := rows.Scan(
			&d.ID,
			&d.OrderID,
			&d.DishID,
			&d.SetmealID,
			&d.DishFlavor,
			&d.Name,
			&d.Image,
			&d.Amount,
			&d.Number,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order detail: %w", err)
		}
		result = append(result, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
