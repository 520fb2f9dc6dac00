package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/grubline/order-svc/internal/dal/postgres"
	"github.com/grubline/order-svc/internal/service/models/address"
	"github.com/grubline/order-svc/internal/service/models/order"
	"github.com/jackc/pgx/v5"
)

type PostgresAddressRepository struct {
	conn postgres.Querier
}

func NewPostgresAddressRepository(conn postgres.Querier) *PostgresAddressRepository {
	return &PostgresAddressRepository{
		conn: conn,
	}
}

// GetByID returns the address book entry, or order.ErrAddressNotFound when it
// does not exist.
func (r *PostgresAddressRepository) GetByID(ctx context.Context, id int64) (*address.Address, error) {
	query, args, err := sq.Select("id", "user_id", "consignee", "phone").
		From("address_book").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var a address.Address
	err = r.conn.QueryRow(ctx, query, args...).Scan(&a.ID, &a.UserID, &a.Consignee, &a.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, order.ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query address: %w", err)
	}

	return &a, nil
}
