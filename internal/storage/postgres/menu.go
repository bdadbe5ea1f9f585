package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/comanda/internal/domain/menu"
)

const (
	getFoodSQL = `SELECT id, name, price, category_id FROM food_items WHERE id = $1`

	getFoodsSQL = `SELECT id, name, price, category_id FROM food_items
		WHERE id = ANY($1) ORDER BY id`

	listFoodsSQL = `SELECT id, name, price, category_id FROM food_items ORDER BY id`

	upsertFoodSQL = `INSERT INTO food_items (name, price, category_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET price = EXCLUDED.price, category_id = EXCLUDED.category_id`

	upsertCategorySQL = `INSERT INTO categories (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`
)

var _ menu.Repository = (*MenuRepository)(nil)

// MenuRepository implements menu.Repository backed by PostgreSQL. Seeding and
// ingest tooling additionally uses the upsert methods, which are not part of
// the read-only domain interface.
type MenuRepository struct {
	pool *pgxpool.Pool
}

// NewMenuRepository returns a MenuRepository that uses the given pool.
func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

func scanFood(row pgx.Row) (*menu.Food, error) {
	var f menu.Food
	if err := row.Scan(&f.ID, &f.Name, &f.Price, &f.CategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, menu.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// GetByID fetches one food item.
func (r *MenuRepository) GetByID(ctx context.Context, id int64) (*menu.Food, error) {
	return scanFood(r.pool.QueryRow(ctx, getFoodSQL, id))
}

// GetByIDs batch-fetches food items; missing ids are silently absent from
// the result.
func (r *MenuRepository) GetByIDs(ctx context.Context, ids []int64) ([]menu.Food, error) {
	rows, err := r.pool.Query(ctx, getFoodsSQL, ids)
	if err != nil {
		return nil, err
	}
	return collectFoods(rows)
}

// List returns the whole catalog.
func (r *MenuRepository) List(ctx context.Context) ([]menu.Food, error) {
	rows, err := r.pool.Query(ctx, listFoodsSQL)
	if err != nil {
		return nil, err
	}
	return collectFoods(rows)
}

func collectFoods(rows pgx.Rows) ([]menu.Food, error) {
	defer rows.Close()

	var list []menu.Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *f)
	}
	return list, rows.Err()
}

// UpsertFood inserts or refreshes a food item keyed by name.
func (r *MenuRepository) UpsertFood(ctx context.Context, f menu.Food) error {
	_, err := r.pool.Exec(ctx, upsertFoodSQL, f.Name, f.Price, f.CategoryID)
	return err
}

// UpsertCategory inserts or refreshes a category keyed by name and returns
// its id.
func (r *MenuRepository) UpsertCategory(ctx context.Context, name string) (int64, error) {
	var id int64
	if err := r.pool.QueryRow(ctx, upsertCategorySQL, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
