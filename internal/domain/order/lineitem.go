package order

import (
	"fmt"

	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// PriceMismatchError reports a line item whose price field does not equal
// quantity times the menu unit price. The stored price is always the
// pre-multiplied line total; callers supplying anything else are rejected at
// the boundary.
type PriceMismatchError struct {
	Want decimal.Decimal
	Got  decimal.Decimal
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("line price %s does not match quantity x unit price %s", e.Got, e.Want)
}

// LineItemPatch carries the mutable fields of an ordered food row.
type LineItemPatch struct {
	Quantity *int
	Price    *decimal.Decimal
}

func (p LineItemPatch) empty() bool {
	return p.Quantity == nil && p.Price == nil
}

// AddLineItem attaches a food item to an existing order. The owning order and
// the referenced food must exist, the quantity must be positive, and the
// price must be the line total for the quantity.
func (s *Service) AddLineItem(ctx context.Context, item LineItem) (int64, error) {
	if item.OrderID <= 0 || item.FoodID <= 0 {
		return 0, ErrInvalidID
	}
	if item.Quantity <= 0 {
		return 0, ErrInvalidQuantity
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	if _, err := s.orders.GetByID(ctx, item.OrderID); err != nil {
		return 0, errors.Wrap(err, "resolve owning order")
	}

	food, err := s.menu.GetByID(ctx, item.FoodID)
	if err != nil {
		return 0, errors.Wrap(err, "resolve food item")
	}

	want := food.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
	if !want.Equal(item.Price.Round(2)) {
		return 0, &PriceMismatchError{Want: want, Got: item.Price}
	}

	id, err := s.items.Create(ctx, &item)
	if err != nil {
		return 0, errors.Wrap(err, "create line item")
	}
	return id, nil
}

// LineItems returns all food items of one order, ordered by id so repeated
// reads without mutation observe the same sequence.
func (s *Service) LineItems(ctx context.Context, orderID int64) ([]LineItem, error) {
	if orderID <= 0 {
		return nil, ErrInvalidID
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	items, err := s.items.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "list line items")
	}
	if len(items) == 0 {
		return nil, errors.Wrap(ErrNotFound, "the order has no food items")
	}
	return items, nil
}

// UpdateLineItem mutates an ordered food row after an existence check. The
// price, when changed, is re-validated against the menu unit price.
func (s *Service) UpdateLineItem(ctx context.Context, id int64, patch LineItemPatch) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if patch.empty() {
		return ErrEmptyPayload
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	cur, err := s.items.GetByID(ctx, id)
	if err != nil {
		return errors.Wrap(err, "fetch line item")
	}

	next := *cur
	if patch.Quantity != nil {
		if *patch.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		next.Quantity = *patch.Quantity
	}
	if patch.Price != nil {
		next.Price = patch.Price.Round(2)
	}

	if patch.Quantity != nil || patch.Price != nil {
		food, err := s.menu.GetByID(ctx, next.FoodID)
		if err != nil {
			return errors.Wrap(err, "resolve food item")
		}
		want := food.Price.Mul(decimal.NewFromInt(int64(next.Quantity))).Round(2)
		if !want.Equal(next.Price) {
			return &PriceMismatchError{Want: want, Got: next.Price}
		}
	}

	if err := s.items.Update(ctx, &next); err != nil {
		return errors.Wrap(err, "update line item")
	}
	return nil
}

// RemoveLineItem deletes one ordered food row after an existence check.
func (s *Service) RemoveLineItem(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	if _, err := s.items.GetByID(ctx, id); err != nil {
		return errors.Wrap(err, "fetch line item")
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete line item")
	}
	return nil
}
