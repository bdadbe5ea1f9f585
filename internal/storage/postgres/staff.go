package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/comanda/internal/domain/staff"
)

const (
	getUserSQL = `SELECT id, full_name, role FROM users WHERE id = $1`

	listUsersByRoleSQL = `SELECT id, full_name, role FROM users
		WHERE role = $1 ORDER BY id`

	insertUserSQL = `INSERT INTO users (full_name, role) VALUES ($1, $2) RETURNING id`

	upsertPaymentMethodSQL = `INSERT INTO payment_methods (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING`
)

var _ staff.Repository = (*StaffRepository)(nil)

// StaffRepository implements staff.Repository backed by PostgreSQL.
type StaffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository returns a StaffRepository that uses the given pool.
func NewStaffRepository(pool *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{pool: pool}
}

// GetByID fetches one user.
func (r *StaffRepository) GetByID(ctx context.Context, id int64) (*staff.User, error) {
	var u staff.User
	err := r.pool.QueryRow(ctx, getUserSQL, id).Scan(&u.ID, &u.FullName, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, staff.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListByRole returns all users carrying one role, ordered by id so
// leaderboard tie-breaks are stable across calls.
func (r *StaffRepository) ListByRole(ctx context.Context, role staff.Role) ([]staff.User, error) {
	rows, err := r.pool.Query(ctx, listUsersByRoleSQL, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []staff.User
	for rows.Next() {
		var u staff.User
		if err := rows.Scan(&u.ID, &u.FullName, &u.Role); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// CreateUser inserts a staff member. Used by seeding only.
func (r *StaffRepository) CreateUser(ctx context.Context, u staff.User) (int64, error) {
	var id int64
	if err := r.pool.QueryRow(ctx, insertUserSQL, u.FullName, u.Role).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// UpsertPaymentMethod registers a payment method by name. Used by seeding.
func (r *StaffRepository) UpsertPaymentMethod(ctx context.Context, name string) error {
	_, err := r.pool.Exec(ctx, upsertPaymentMethodSQL, name)
	return err
}
