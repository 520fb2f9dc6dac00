package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/grubline/order-svc/internal/dal/postgres"
	"github.com/grubline/order-svc/internal/service/models/cart"
	"github.com/jackc/pgx/v5"
)

var cartColumns = []string{
	"id",
	"user_id",
	"dish_id",
	"setmeal_id",
	"dish_flavor",
	"name",
	"image",
	"amount",
	"number",
	"create_time",
}

type PostgresCartRepository struct {
	conn postgres.Querier
}

func NewPostgresCartRepository(conn postgres.Querier) *PostgresCartRepository {
	return &PostgresCartRepository{
		conn: conn,
	}
}

// LockUser acquires a transaction-scoped advisory lock keyed by user id,
// serializing concurrent cart mutations for the same user. The lock is
// released automatically when the transaction ends.
func (r *PostgresCartRepository) LockUser(ctx context.Context, userID int64) error {
	if _, err := r.conn.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", userID); err != nil {
		return fmt.Errorf("failed to acquire cart lock: %w", err)
	}

	return nil
}

// Find returns the cart line matching (user, product, flavor), or nil when no
// such line exists. Flavor is part of line identity for dishes.
func (r *PostgresCartRepository) Find(ctx context.Context, userID int64, sel cart.Selector) (*cart.Line, error) {
	builder := sq.Select(cartColumns...).
		From("shopping_carts").
		Where(sq.Eq{"user_id": userID}).
		PlaceholderFormat(sq.Dollar)

	if sel.DishID != nil {
		builder = builder.Where(sq.Eq{"dish_id": *sel.DishID, "dish_flavor": sel.DishFlavor})
	} else {
		builder = builder.Where(sq.Eq{"setmeal_id": *sel.SetmealID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var line cart.Line
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&line.ID,
		&line.UserID,
		&line.DishID,
		&line.SetmealID,
		&line.DishFlavor,
		&line.Name,
		&line.Image,
		&line.Amount,
		&line.Number,
		&line.CreateTime,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cart line: %w", err)
	}

	return &line, nil
}

// ListByUser returns all cart lines for one user.
func (r *PostgresCartRepository) ListByUser(ctx context.Context, userID int64) ([]cart.Line, error) {
	query, args, err := sq.Select(cartColumns...).
		From("shopping_carts").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("create_time ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var result []cart.Line
	for rows.Next() {
		var line cart.Line
		err := rows.Scan(
			&line.ID,
			&line.UserID,
			&line.DishID,
			&line.SetmealID,
			&line.DishFlavor,
			&line.Name,
			&line.Image,
			&line.Amount,
			&line.Number,
			&line.CreateTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		result = append(result, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Insert adds a new cart line and assigns its storage id.
func (r *PostgresCartRepository) Insert(ctx context.Context, line *cart.Line) error {
	query, args, err := sq.Insert("shopping_carts").
		Columns(
			"user_id",
			"dish_id",
			"setmeal_id",
			"dish_flavor",
			"name",
			"image",
			"amount",
			"number",
			"create_time",
		).
		Values(
			line.UserID,
			line.DishID,
			line.SetmealID,
			line.DishFlavor,
			line.Name,
			line.Image,
			line.Amount,
			line.Number,
			line.CreateTime,
		).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&line.ID); err != nil {
		return fmt.Errorf("failed to insert cart line: %w", err)
	}

	return nil
}

// UpdateNumber sets the quantity of a cart line.
func (r *PostgresCartRepository) UpdateNumber(ctx context.Context, id int64, number int32) error {
	query, args, err := sq.Update("shopping_carts").
		Set("number", number).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update cart line: %w", err)
	}

	return nil
}

// Delete removes a single cart line.
func (r *PostgresCartRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := sq.Delete("shopping_carts").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}

	return nil
}

// DeleteByUser removes all of a user's cart lines. Called when an order is
// submitted or the cart is cleaned.
func (r *PostgresCartRepository) DeleteByUser(ctx context.Context, userID int64) error {
	query, args, err := sq.Delete("shopping_carts").
		Where(sq.Eq{"user_id": userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete cart lines: %w", err)
	}

	return nil
}
