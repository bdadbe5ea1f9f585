package postgres

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/comanda/internal/domain/order"
)

const orderColumns = `id, total_price, payment_id, server_id, table_number, status, version, created_at, updated_at`

const (
	getOrderSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	listOrdersByStatusSQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE status = ANY($1) ORDER BY created_at`

	listOrdersByServerSQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE server_id = $1 ORDER BY created_at`

	listOrdersByRangeSQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE created_at BETWEEN $1 AND $2 ORDER BY created_at`

	insertOrderSQL = `INSERT INTO orders (total_price, payment_id, server_id, table_number, status)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`

	insertLineItemSQL = `INSERT INTO ordered_food (order_id, food_id, quantity, price)
		VALUES ($1, $2, $3, $4)`

	updateOrderSQL = `UPDATE orders
		SET total_price = $1, payment_id = $2, server_id = $3, table_number = $4,
		    status = $5, version = version + 1, updated_at = now()
		WHERE id = $6 AND version = $7`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.TotalPrice, &o.PaymentID, &o.ServerID, &o.TableNumber,
		&o.Status, &o.Version, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]order.Order, error) {
	defer rows.Close()

	var list []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *o)
	}
	return list, mapError(rows.Err())
}

// GetByID fetches one order row.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, getOrderSQL, id))
}

// ListByStatus returns orders whose status is in the given set, oldest first.
func (r *OrderRepository) ListByStatus(ctx context.Context, statuses []order.Status) ([]order.Order, error) {
	set := make([]string, len(statuses))
	for i, s := range statuses {
		set[i] = string(s)
	}

	rows, err := r.pool.Query(ctx, listOrdersByStatusSQL, set)
	if err != nil {
		return nil, mapError(err)
	}
	return collectOrders(rows)
}

// ListByServer returns orders assigned to one server, oldest first.
func (r *OrderRepository) ListByServer(ctx context.Context, serverID int64) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByServerSQL, serverID)
	if err != nil {
		return nil, mapError(err)
	}
	return collectOrders(rows)
}

// ListByDateRange returns orders created within [start, end] inclusive.
func (r *OrderRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByRangeSQL, start, end)
	if err != nil {
		return nil, mapError(err)
	}
	return collectOrders(rows)
}

// Create inserts the order and any inline line items in one transaction and
// returns the generated id.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order, items []order.LineItem) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	err = tx.QueryRow(ctx, insertOrderSQL,
		o.TotalPrice, o.PaymentID, o.ServerID, o.TableNumber, o.Status,
	).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, insertLineItemSQL, id, it.FoodID, it.Quantity, it.Price); err != nil {
			return 0, mapError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, errors.Wrap(err, "commit transaction")
	}
	return id, nil
}

// Update performs a version-conditional write. A zero row count means the
// row was updated (or deleted) concurrently since the service fetched it.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	tag, err := r.pool.Exec(ctx, updateOrderSQL,
		o.TotalPrice, o.PaymentID, o.ServerID, o.TableNumber, o.Status,
		o.ID, o.Version,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrConflict
	}
	return nil
}

// Delete removes one order row. Line items and the payment are deleted by the
// lifecycle service before and after this call; the schema has no cascade.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}
