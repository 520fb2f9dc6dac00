package uow

import (
	"context"
	"errors"

	"github.com/grubline/order-svc/internal/dal/interfaces/iaddressrepo"
	"github.com/grubline/order-svc/internal/dal/interfaces/icartrepo"
	"github.com/grubline/order-svc/internal/dal/interfaces/icatalogrepo"
	"github.com/grubline/order-svc/internal/dal/interfaces/iorderdetailrepo"
	"github.com/grubline/order-svc/internal/dal/interfaces/iorderrepo"
	"github.com/grubline/order-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/grubline/order-svc/internal/dal/postgres"
	addressrepo "github.com/grubline/order-svc/internal/dal/repositories/address/postgres"
	cartrepo "github.com/grubline/order-svc/internal/dal/repositories/cart/postgres"
	catalogrepo "github.com/grubline/order-svc/internal/dal/repositories/catalog/postgres"
	orderrepo "github.com/grubline/order-svc/internal/dal/repositories/order/postgres"
	orderdetailrepo "github.com/grubline/order-svc/internal/dal/repositories/orderdetail/postgres"
	outboxrepo "github.com/grubline/order-svc/internal/dal/repositories/outbox/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UnitOfWork binds the repositories to one shared connection. Before Begin
// they run against the pool; after Begin they all share a single transaction,
// so a submission's order, details, cart clear and outbox event commit or
// roll back as one.
type UnitOfWork struct {
	pool *pgxpool.Pool
	tx   pgx.Tx

	orderRepo   iorderrepo.IOrderRepository
	detailRepo  iorderdetailrepo.IOrderDetailRepository
	cartRepo    icartrepo.ICartRepository
	catalogRepo icatalogrepo.ICatalogRepository
	addressRepo iaddressrepo.IAddressRepository
	outboxRepo  ioutboxrepo.IOutboxRepository
}

func NewUnitOfWork(client *postgres.Client) *UnitOfWork {
	u := &UnitOfWork{pool: client.Pool()}
	u.bind(client.Pool())

	return u
}

func (u *UnitOfWork) bind(conn postgres.Querier) {
	u.orderRepo = orderrepo.NewPostgresOrderRepository(conn)
	u.detailRepo = orderdetailrepo.NewPostgresOrderDetailRepository(conn)
	u.cartRepo = cartrepo.NewPostgresCartRepository(conn)
	u.catalogRepo = catalogrepo.NewPostgresCatalogRepository(conn)
	u.addressRepo = addressrepo.NewPostgresAddressRepository(conn)
	u.outboxRepo = outboxrepo.NewPostgresOutboxRepository(conn)
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.bind(tx)

	return nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

// Rollback is a no-op after a successful Commit, so it is safe to defer.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

func (u *UnitOfWork) Orders() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *UnitOfWork) OrderDetails() iorderdetailrepo.IOrderDetailRepository {
	return u.detailRepo
}

func (u *UnitOfWork) Carts() icartrepo.ICartRepository {
	return u.cartRepo
}

func (u *UnitOfWork) Catalog() icatalogrepo.ICatalogRepository {
	return u.catalogRepo
}

func (u *UnitOfWork) Addresses() iaddressrepo.IAddressRepository {
	return u.addressRepo
}

func (u *UnitOfWork) Outbox() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}
