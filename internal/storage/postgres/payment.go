package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/comanda/internal/domain/order"
)

const (
	getPaymentSQL = `SELECT id, payment_method_id, amount_paid, amount_to_return, paid_at
		FROM payments WHERE id = $1`

	listPaymentsByRangeSQL = `SELECT id, payment_method_id, amount_paid, amount_to_return, paid_at
		FROM payments WHERE paid_at BETWEEN $1 AND $2 ORDER BY paid_at`

	createPaymentSQL = `INSERT INTO payments (payment_method_id, amount_paid, amount_to_return, paid_at)
		VALUES ($1, $2, $3, $4) RETURNING id`

	updatePaymentSQL = `UPDATE payments
		SET payment_method_id = $1, amount_paid = $2, amount_to_return = $3, paid_at = $4
		WHERE id = $5`

	deletePaymentSQL     = `DELETE FROM payments WHERE id = $1`
	paymentReferencedSQL = `SELECT EXISTS (SELECT 1 FROM orders WHERE payment_id = $1)`
)

var _ order.PaymentRepository = (*PaymentRepository)(nil)

// PaymentRepository implements order.PaymentRepository backed by PostgreSQL.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository returns a PaymentRepository that uses the given pool.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func scanPayment(row pgx.Row) (*order.Payment, error) {
	var p order.Payment
	if err := row.Scan(&p.ID, &p.MethodID, &p.AmountPaid, &p.AmountToReturn, &p.PaidAt); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// GetByID fetches one payment row.
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*order.Payment, error) {
	return scanPayment(r.pool.QueryRow(ctx, getPaymentSQL, id))
}

// ListByDateRange returns payments recorded within [start, end] inclusive.
func (r *PaymentRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]order.Payment, error) {
	rows, err := r.pool.Query(ctx, listPaymentsByRangeSQL, start, end)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var list []order.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, mapError(rows.Err())
}

// Create inserts one payment row and returns the generated id.
func (r *PaymentRepository) Create(ctx context.Context, p *order.Payment) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, createPaymentSQL,
		p.MethodID, p.AmountPaid, p.AmountToReturn, p.PaidAt,
	).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// Update overwrites one payment row. Immutability of referenced payments is
// enforced by the lifecycle service before this call.
func (r *PaymentRepository) Update(ctx context.Context, p *order.Payment) error {
	tag, err := r.pool.Exec(ctx, updatePaymentSQL,
		p.MethodID, p.AmountPaid, p.AmountToReturn, p.PaidAt, p.ID,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Delete removes one payment row.
func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deletePaymentSQL, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Referenced reports whether any order currently points at the payment.
func (r *PaymentRepository) Referenced(ctx context.Context, id int64) (bool, error) {
	var referenced bool
	if err := r.pool.QueryRow(ctx, paymentReferencedSQL, id).Scan(&referenced); err != nil {
		return false, mapError(err)
	}
	return referenced, nil
}
