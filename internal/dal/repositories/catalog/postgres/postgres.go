package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/grubline/order-svc/internal/dal/postgres"
	"github.com/grubline/order-svc/internal/service/models/product"
	"github.com/jackc/pgx/v5"
)

const (
	dishTable    = "dishes"
	setmealTable = "setmeals"
)

var productColumns = []string{"id", "category_id", "name", "image", "price", "status"}

// PostgresCatalogRepository serves catalog snapshot reads and the slim
// mutation surface. Dishes and setmeals share one row shape, so both tables
// go through the same helpers.
type PostgresCatalogRepository struct {
	conn postgres.Querier
}

func NewPostgresCatalogRepository(conn postgres.Querier) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{
		conn: conn,
	}
}

func (r *PostgresCatalogRepository) GetDish(ctx context.Context, id int64) (*product.Product, error) {
	return r.getOne(ctx, dishTable, id)
}

func (r *PostgresCatalogRepository) GetSetmeal(ctx context.Context, id int64) (*product.Product, error) {
	return r.getOne(ctx, setmealTable, id)
}

func (r *PostgresCatalogRepository) getOne(ctx context.Context, table string, id int64) (*product.Product, error) {
	query, args, err := sq.Select(productColumns...).
		From(table).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var p product.Product
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&p.ID,
		&p.CategoryID,
		&p.Name,
		&p.Image,
		&p.Price,
		&p.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, product.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}

	return &p, nil
}

// ListDishesByCategory returns the dishes in one category, optionally limited
// to enabled ones.
func (r *PostgresCatalogRepository) ListDishesByCategory(ctx context.Context, categoryID int64, onlyEnabled bool) ([]product.Product, error) {
	builder := sq.Select(productColumns...).
		From(dishTable).
		Where(sq.Eq{"category_id": categoryID}).
		OrderBy("id ASC").
		PlaceholderFormat(sq.Dollar)

	if onlyEnabled {
		builder = builder.Where(sq.Eq{"status": product.StatusEnabled})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dishes: %w", err)
	}
	defer rows.Close()

	var result []product.Product
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Image, &p.Price, &p.Status); err != nil {
			return nil, fmt.Errorf("failed to scan dish: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func (r *PostgresCatalogRepository) InsertDish(ctx context.Context, p *product.Product) error {
	return r.insert(ctx, dishTable, p)
}

func (r *PostgresCatalogRepository) InsertSetmeal(ctx context.Context, p *product.Product) error {
	return r.insert(ctx, setmealTable, p)
}

func (r *PostgresCatalogRepository) insert(ctx context.Context, table string, p *product.Product) error {
	query, args, err := sq.Insert(table).
		Columns("category_id", "name", "image", "price", "status").
		Values(p.CategoryID, p.Name, p.Image, p.Price, p.Status).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&p.ID); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	return nil
}

func (r *PostgresCatalogRepository) UpdateDish(ctx context.Context, p *product.Product) error {
	return r.update(ctx, dishTable, p)
}

func (r *PostgresCatalogRepository) UpdateSetmeal(ctx context.Context, p *product.Product) error {
	return r.update(ctx, setmealTable, p)
}

func (r *PostgresCatalogRepository) update(ctx context.Context, table string, p *product.Product) error {
	query, args, err := sq.Update(table).
		Set("category_id", p.CategoryID).
		Set("name", p.Name).
		Set("image", p.Image).
		Set("price", p.Price).
		Set("status", p.Status).
		Where(sq.Eq{"id": p.ID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}

	return nil
}

func (r *PostgresCatalogRepository) DeleteDishes(ctx context.Context, ids []int64) error {
	return r.delete(ctx, dishTable, ids)
}

func (r *PostgresCatalogRepository) DeleteSetmeals(ctx context.Context, ids []int64) error {
	return r.delete(ctx, setmealTable, ids)
}

func (r *PostgresCatalogRepository) delete(ctx context.Context, table string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sq.Delete(table).
		Where(sq.Eq{"id": ids}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}

	return nil
}

func (r *PostgresCatalogRepository) SetDishStatus(ctx context.Context, id int64, status int32) error {
	return r.setStatus(ctx, dishTable, id, status)
}

func (r *PostgresCatalogRepository) SetSetmealStatus(ctx context.Context, id int64, status int32) error {
	return r.setStatus(ctx, setmealTable, id, status)
}

func (r *PostgresCatalogRepository) setStatus(ctx context.Context, table string, id int64, status int32) error {
	query, args, err := sq.Update(table).
		Set("status", status).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update %s status: %w", table, err)
	}

	return nil
}
