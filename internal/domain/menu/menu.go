// Package menu holds the read-side view of the food catalog. The lifecycle
// core references food rows by id for price validation and report labelling
// but never mutates them.
package menu

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested food item does not exist.
var ErrNotFound = errors.New("food item not found")

// Food is a dish on the menu. Price is the unit price.
type Food struct {
	ID         int64
	Name       string
	Price      decimal.Decimal
	CategoryID int64
}

// Category groups related food items.
type Category struct {
	ID   int64
	Name string
}

// Repository defines read operations over the food catalog.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Food, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Food, error)
	List(ctx context.Context) ([]Food, error)
}
