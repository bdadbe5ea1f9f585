package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// PaymentPatch carries the mutable fields of a payment record.
type PaymentPatch struct {
	MethodID       *int64
	AmountPaid     *decimal.Decimal
	AmountToReturn *decimal.Decimal
	PaidAt         *time.Time
}

func (p PaymentPatch) empty() bool {
	return p.MethodID == nil && p.AmountPaid == nil && p.AmountToReturn == nil && p.PaidAt == nil
}

func (p PaymentPatch) touchesMoney() bool {
	return p.AmountPaid != nil || p.AmountToReturn != nil
}

// RecordPayment persists a payment and returns its id. The caller then
// attaches the id to the order via Update, which is where the completed
// transition and total reconciliation are enforced.
func (s *Service) RecordPayment(ctx context.Context, p Payment) (int64, error) {
	if p.MethodID <= 0 {
		return 0, ErrInvalidID
	}
	if p.AmountPaid.IsNegative() || p.AmountToReturn.IsNegative() {
		return 0, errors.Wrap(ErrEmptyPayload, "payment amounts must not be negative")
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now()
	}
	p.AmountPaid = p.AmountPaid.Round(2)
	p.AmountToReturn = p.AmountToReturn.Round(2)

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	id, err := s.payments.Create(ctx, &p)
	if err != nil {
		return 0, errors.Wrap(err, "create payment")
	}
	return id, nil
}

// Payment returns a single payment record.
func (s *Service) Payment(ctx context.Context, id int64) (*Payment, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get payment")
	}
	return p, nil
}

// PaymentsByDateRange returns payments recorded within [start, end].
func (s *Service) PaymentsByDateRange(ctx context.Context, start, end time.Time) ([]Payment, error) {
	if start.IsZero() || end.IsZero() {
		return nil, ErrInvalidRange
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	list, err := s.payments.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, errors.Wrap(err, "list payments")
	}
	if len(list) == 0 {
		return nil, errors.Wrap(ErrNotFound, "no payments in the given period")
	}
	return list, nil
}

// UpdatePayment mutates a payment record. Monetary fields freeze as soon as
// any order references the payment; only the method or timestamp may change
// after that point.
func (s *Service) UpdatePayment(ctx context.Context, id int64, patch PaymentPatch) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if patch.empty() {
		return ErrEmptyPayload
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	cur, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return errors.Wrap(err, "fetch payment")
	}

	if patch.touchesMoney() {
		referenced, err := s.payments.Referenced(ctx, id)
		if err != nil {
			return errors.Wrap(err, "check payment references")
		}
		if referenced {
			return ErrPaymentFrozen
		}
	}

	next := *cur
	if patch.MethodID != nil {
		if *patch.MethodID <= 0 {
			return ErrInvalidID
		}
		next.MethodID = *patch.MethodID
	}
	if patch.AmountPaid != nil {
		next.AmountPaid = patch.AmountPaid.Round(2)
	}
	if patch.AmountToReturn != nil {
		next.AmountToReturn = patch.AmountToReturn.Round(2)
	}
	if patch.PaidAt != nil {
		next.PaidAt = *patch.PaidAt
	}

	if err := s.payments.Update(ctx, &next); err != nil {
		return errors.Wrap(err, "update payment")
	}
	return nil
}

// RemovePayment deletes a payment that no order references. Payments attached
// to an order are removed through Service.Remove on the order itself.
func (s *Service) RemovePayment(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	if _, err := s.payments.GetByID(ctx, id); err != nil {
		return errors.Wrap(err, "fetch payment")
	}

	referenced, err := s.payments.Referenced(ctx, id)
	if err != nil {
		return errors.Wrap(err, "check payment references")
	}
	if referenced {
		return ErrPaymentInUse
	}

	if err := s.payments.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete payment")
	}
	return nil
}
