package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/comanda/internal/domain/menu"
)

// storeTimeout bounds every repository call issued by the service. Expiry
// surfaces as a store error, not a validation rejection, so callers can treat
// it as retryable.
const storeTimeout = 5 * time.Second

// Draft is the input for placing a new order. Items are optional: when
// present they are inserted atomically with the order row, closing the gap of
// the two-phase create protocol. A draft with no fields set is rejected.
type Draft struct {
	TotalPrice  decimal.Decimal
	ServerID    *int64
	TableNumber *int
	Items       []LineItem
}

func (d Draft) empty() bool {
	return d.TotalPrice.IsZero() && d.ServerID == nil && d.TableNumber == nil && len(d.Items) == 0
}

// Patch carries the fields of an order update. Nil fields are left untouched.
type Patch struct {
	TotalPrice  *decimal.Decimal
	PaymentID   *int64
	ServerID    *int64
	TableNumber *int
	Status      *Status
}

func (p Patch) empty() bool {
	return p.TotalPrice == nil && p.PaymentID == nil && p.ServerID == nil &&
		p.TableNumber == nil && p.Status == nil
}

// Service owns the order status state machine and all multi-entity
// coordination between orders, line items and payments.
type Service struct {
	orders   Repository
	items    LineItemRepository
	payments PaymentRepository
	menu     menu.Repository
}

// NewService creates the lifecycle service with its persistence dependencies.
func NewService(
	orders Repository,
	items LineItemRepository,
	payments PaymentRepository,
	foods menu.Repository,
) *Service {
	return &Service{
		orders:   orders,
		items:    items,
		payments: payments,
		menu:     foods,
	}
}

func storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storeTimeout)
}

// Get returns a single order. Non-positive ids are rejected before any store
// call is made.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	return o, nil
}

// Incomplete returns all orders in a non-terminal status. An empty result is
// reported as ErrNotFound, matching the REST contract.
func (s *Service) Incomplete(ctx context.Context) ([]Order, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	list, err := s.orders.ListByStatus(ctx, []Status{StatusProcessing, StatusUnpaid})
	if err != nil {
		return nil, errors.Wrap(err, "list incomplete orders")
	}
	if len(list) == 0 {
		return nil, errors.Wrap(ErrNotFound, "no incomplete orders")
	}
	return list, nil
}

// ByServer returns all orders assigned to the given server.
func (s *Service) ByServer(ctx context.Context, serverID int64) ([]Order, error) {
	if serverID <= 0 {
		return nil, ErrInvalidID
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	list, err := s.orders.ListByServer(ctx, serverID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders by server")
	}
	if len(list) == 0 {
		return nil, errors.Wrap(ErrNotFound, "the server has not served any orders")
	}
	return list, nil
}

// ByDateRange returns orders created within [start, end] inclusive.
func (s *Service) ByDateRange(ctx context.Context, start, end time.Time) ([]Order, error) {
	if start.IsZero() || end.IsZero() {
		return nil, ErrInvalidRange
	}
	if end.Before(start) {
		return nil, errors.Wrap(ErrInvalidRange, "end precedes start")
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	list, err := s.orders.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, errors.Wrap(err, "list orders by date range")
	}
	if len(list) == 0 {
		return nil, errors.Wrap(ErrNotFound, "no orders in the given period")
	}
	return list, nil
}

// ByMonth returns orders created in the given month (0-11, the convention the
// browser front end sends) of the current year.
func (s *Service) ByMonth(ctx context.Context, month int) ([]Order, error) {
	if month < 0 || month > 11 {
		return nil, errors.Wrap(ErrInvalidRange, "month must be between 0 and 11")
	}

	year := time.Now().Year()
	start := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return s.ByDateRange(ctx, start, end)
}

// ByYear returns orders created in the given year.
func (s *Service) ByYear(ctx context.Context, year int) ([]Order, error) {
	if year < 1000 || year > time.Now().Year() {
		return nil, errors.Wrap(ErrInvalidRange, "invalid year")
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.Local)
	return s.ByDateRange(ctx, start, end)
}

// Place validates the draft and persists a new order in the initial
// processing state with no payment and no completion shortcut. Inline items
// are validated like AddLineItem and written in the same transaction. The new
// order's id is returned for subsequent line-item attachment.
func (s *Service) Place(ctx context.Context, draft Draft) (int64, error) {
	if draft.empty() {
		return 0, ErrEmptyPayload
	}

	for i := range draft.Items {
		if draft.Items[i].Quantity <= 0 {
			return 0, ErrInvalidQuantity
		}
	}

	total := draft.TotalPrice
	if len(draft.Items) > 0 {
		total = SumLineItems(draft.Items)
	}

	o := &Order{
		TotalPrice:  total.Round(2),
		ServerID:    draft.ServerID,
		TableNumber: draft.TableNumber,
		Status:      StatusProcessing,
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	id, err := s.orders.Create(ctx, o, draft.Items)
	if err != nil {
		return 0, errors.Wrap(err, "create order")
	}
	return id, nil
}

// Update applies a patch to an order using a fetch-validate-write sequence.
// Status changes are checked against the transition table; moving to
// completed additionally requires a payment reference and triggers total
// reconciliation against the stored line items. The final write is
// version-conditional, so a concurrent update surfaces as ErrConflict
// instead of silently winning. Orders in a terminal status reject any field
// overwrite.
func (s *Service) Update(ctx context.Context, id int64, patch Patch) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if patch.empty() {
		return ErrEmptyPayload
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	cur, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return errors.Wrap(err, "fetch order")
	}

	// Terminal orders are frozen: the reconciled total, the payment
	// reference and the table stay as settled.
	if cur.Status.Terminal() &&
		(patch.TotalPrice != nil || patch.PaymentID != nil || patch.TableNumber != nil) {
		return errors.Wrapf(ErrOrderSettled, "order is %s", cur.Status)
	}

	next := *cur
	if patch.TotalPrice != nil {
		next.TotalPrice = patch.TotalPrice.Round(2)
	}
	if patch.PaymentID != nil {
		next.PaymentID = patch.PaymentID
	}
	if patch.TableNumber != nil {
		next.TableNumber = patch.TableNumber
	}

	if patch.ServerID != nil && !sameRef(cur.ServerID, patch.ServerID) {
		if cur.Status != StatusProcessing {
			return ErrServerAssign
		}
		next.ServerID = patch.ServerID
	}

	if patch.Status != nil && *patch.Status != cur.Status {
		requested := *patch.Status
		if !requested.Valid() {
			return &UnknownStatusError{Status: requested}
		}
		if !CanTransition(cur.Status, requested) {
			return &TransitionError{From: cur.Status, To: requested}
		}
		if requested == StatusCompleted {
			if next.PaymentID == nil {
				return ErrPaymentRequired
			}
			if _, err := s.payments.GetByID(ctx, *next.PaymentID); err != nil {
				return errors.Wrap(err, "resolve payment reference")
			}
			total, err := s.reconcileTotal(ctx, id)
			if err != nil {
				return err
			}
			next.TotalPrice = total
		}
		next.Status = requested
	}

	if err := s.orders.Update(ctx, &next); err != nil {
		return errors.Wrap(err, "update order")
	}
	return nil
}

// reconcileTotal recomputes an order's total from its stored line items. The
// service, not the caller, owns this sum at the moment payment is recorded.
func (s *Service) reconcileTotal(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	items, err := s.items.ListByOrder(ctx, orderID)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "load line items for reconciliation")
	}
	if len(items) == 0 {
		return decimal.Zero, errors.Wrap(ErrNotFound, "order has no line items to settle")
	}
	return SumLineItems(items), nil
}

// Remove hard-deletes an order together with its line items and payment.
// The store offers no cascading guarantee, so the service sequences the
// cleanup: line items first, then the order row, then the payment it
// referenced.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	cur, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return errors.Wrap(err, "fetch order")
	}

	if err := s.items.DeleteByOrder(ctx, id); err != nil {
		return errors.Wrap(err, "delete line items")
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete order")
	}
	if cur.PaymentID != nil {
		if err := s.payments.Delete(ctx, *cur.PaymentID); err != nil {
			return errors.Wrap(err, "delete payment")
		}
	}
	return nil
}

func sameRef(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
