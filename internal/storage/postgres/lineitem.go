package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/comanda/internal/domain/order"
)

const (
	getLineItemSQL = `SELECT id, order_id, food_id, quantity, price
		FROM ordered_food WHERE id = $1`

	listLineItemsSQL = `SELECT id, order_id, food_id, quantity, price
		FROM ordered_food WHERE order_id = $1 ORDER BY id`

	createLineItemSQL = `INSERT INTO ordered_food (order_id, food_id, quantity, price)
		VALUES ($1, $2, $3, $4) RETURNING id`

	updateLineItemSQL = `UPDATE ordered_food SET quantity = $1, price = $2 WHERE id = $3`

	deleteLineItemSQL         = `DELETE FROM ordered_food WHERE id = $1`
	deleteLineItemsByOrderSQL = `DELETE FROM ordered_food WHERE order_id = $1`
)

var _ order.LineItemRepository = (*LineItemRepository)(nil)

// LineItemRepository implements order.LineItemRepository backed by PostgreSQL.
type LineItemRepository struct {
	pool *pgxpool.Pool
}

// NewLineItemRepository returns a LineItemRepository that uses the given pool.
func NewLineItemRepository(pool *pgxpool.Pool) *LineItemRepository {
	return &LineItemRepository{pool: pool}
}

func scanLineItem(row pgx.Row) (*order.LineItem, error) {
	var it order.LineItem
	if err := row.Scan(&it.ID, &it.OrderID, &it.FoodID, &it.Quantity, &it.Price); err != nil {
		return nil, mapError(err)
	}
	return &it, nil
}

// GetByID fetches one ordered food row.
func (r *LineItemRepository) GetByID(ctx context.Context, id int64) (*order.LineItem, error) {
	return scanLineItem(r.pool.QueryRow(ctx, getLineItemSQL, id))
}

// ListByOrder returns all food rows of one order, ordered by id.
func (r *LineItemRepository) ListByOrder(ctx context.Context, orderID int64) ([]order.LineItem, error) {
	rows, err := r.pool.Query(ctx, listLineItemsSQL, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var list []order.LineItem
	for rows.Next() {
		it, err := scanLineItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *it)
	}
	return list, mapError(rows.Err())
}

// Create inserts one ordered food row and returns the generated id.
func (r *LineItemRepository) Create(ctx context.Context, item *order.LineItem) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, createLineItemSQL,
		item.OrderID, item.FoodID, item.Quantity, item.Price,
	).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// Update overwrites the mutable columns of one ordered food row.
func (r *LineItemRepository) Update(ctx context.Context, item *order.LineItem) error {
	tag, err := r.pool.Exec(ctx, updateLineItemSQL, item.Quantity, item.Price, item.ID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Delete removes one ordered food row.
func (r *LineItemRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteLineItemSQL, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// DeleteByOrder removes every food row belonging to one order. Deleting zero
// rows is fine: the order may never have had items attached.
func (r *LineItemRepository) DeleteByOrder(ctx context.Context, orderID int64) error {
	_, err := r.pool.Exec(ctx, deleteLineItemsByOrderSQL, orderID)
	return mapError(err)
}
