package order

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/comanda/internal/domain/menu"
)

// --- Mock implementations ---

type mockOrderRepo struct {
	byID    map[int64]*Order
	nextID  int64
	getErr  error
	updErr  error
	calls   []string
	created []LineItem
}

func newOrderRepo(orders ...Order) *mockOrderRepo {
	byID := make(map[int64]*Order, len(orders))
	var maxID int64
	for i := range orders {
		byID[orders[i].ID] = &orders[i]
		if orders[i].ID > maxID {
			maxID = orders[i].ID
		}
	}
	return &mockOrderRepo{byID: byID, nextID: maxID + 1}
}

func (m *mockOrderRepo) GetByID(_ context.Context, id int64) (*Order, error) {
	m.calls = append(m.calls, "get")
	if m.getErr != nil {
		return nil, m.getErr
	}
	o, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) ListByStatus(_ context.Context, statuses []Status) ([]Order, error) {
	var list []Order
	for _, o := range m.byID {
		for _, st := range statuses {
			if o.Status == st {
				list = append(list, *o)
				break
			}
		}
	}
	return list, nil
}

func (m *mockOrderRepo) ListByServer(_ context.Context, serverID int64) ([]Order, error) {
	var list []Order
	for _, o := range m.byID {
		if o.ServerID != nil && *o.ServerID == serverID {
			list = append(list, *o)
		}
	}
	return list, nil
}

func (m *mockOrderRepo) ListByDateRange(_ context.Context, start, end time.Time) ([]Order, error) {
	var list []Order
	for _, o := range m.byID {
		if !o.CreatedAt.Before(start) && !o.CreatedAt.After(end) {
			list = append(list, *o)
		}
	}
	return list, nil
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order, items []LineItem) (int64, error) {
	m.calls = append(m.calls, "create")
	o.ID = m.nextID
	m.nextID++
	o.Version = 1
	o.CreatedAt = time.Now()
	m.byID[o.ID] = o
	m.created = items
	return o.ID, nil
}

func (m *mockOrderRepo) Update(_ context.Context, o *Order) error {
	m.calls = append(m.calls, "update")
	if m.updErr != nil {
		return m.updErr
	}
	cur, ok := m.byID[o.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.Version != o.Version {
		return ErrConflict
	}
	cp := *o
	cp.Version++
	m.byID[o.ID] = &cp
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id int64) error {
	m.calls = append(m.calls, "delete")
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockItemRepo struct {
	byID   map[int64]*LineItem
	nextID int64
	calls  []string
}

func newItemRepo(items ...LineItem) *mockItemRepo {
	byID := make(map[int64]*LineItem, len(items))
	var maxID int64
	for i := range items {
		byID[items[i].ID] = &items[i]
		if items[i].ID > maxID {
			maxID = items[i].ID
		}
	}
	return &mockItemRepo{byID: byID, nextID: maxID + 1}
}

func (m *mockItemRepo) GetByID(_ context.Context, id int64) (*LineItem, error) {
	it, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *mockItemRepo) ListByOrder(_ context.Context, orderID int64) ([]LineItem, error) {
	var list []LineItem
	for _, it := range m.byID {
		if it.OrderID == orderID {
			list = append(list, *it)
		}
	}
	return list, nil
}

func (m *mockItemRepo) Create(_ context.Context, item *LineItem) (int64, error) {
	item.ID = m.nextID
	m.nextID++
	m.byID[item.ID] = item
	return item.ID, nil
}

func (m *mockItemRepo) Update(_ context.Context, item *LineItem) error {
	if _, ok := m.byID[item.ID]; !ok {
		return ErrNotFound
	}
	cp := *item
	m.byID[item.ID] = &cp
	return nil
}

func (m *mockItemRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockItemRepo) DeleteByOrder(_ context.Context, orderID int64) error {
	m.calls = append(m.calls, "deleteByOrder")
	for id, it := range m.byID {
		if it.OrderID == orderID {
			delete(m.byID, id)
		}
	}
	return nil
}

type mockPaymentRepo struct {
	byID       map[int64]*Payment
	nextID     int64
	referenced bool
	calls      []string
}

func newPaymentRepo(payments ...Payment) *mockPaymentRepo {
	byID := make(map[int64]*Payment, len(payments))
	var maxID int64
	for i := range payments {
		byID[payments[i].ID] = &payments[i]
		if payments[i].ID > maxID {
			maxID = payments[i].ID
		}
	}
	return &mockPaymentRepo{byID: byID, nextID: maxID + 1}
}

func (m *mockPaymentRepo) GetByID(_ context.Context, id int64) (*Payment, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPaymentRepo) ListByDateRange(_ context.Context, start, end time.Time) ([]Payment, error) {
	var list []Payment
	for _, p := range m.byID {
		if !p.PaidAt.Before(start) && !p.PaidAt.After(end) {
			list = append(list, *p)
		}
	}
	return list, nil
}

func (m *mockPaymentRepo) Create(_ context.Context, p *Payment) (int64, error) {
	p.ID = m.nextID
	m.nextID++
	m.byID[p.ID] = p
	return p.ID, nil
}

func (m *mockPaymentRepo) Update(_ context.Context, p *Payment) error {
	if _, ok := m.byID[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *mockPaymentRepo) Delete(_ context.Context, id int64) error {
	m.calls = append(m.calls, "delete")
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockPaymentRepo) Referenced(_ context.Context, _ int64) (bool, error) {
	return m.referenced, nil
}

type mockMenuRepo struct {
	byID map[int64]*menu.Food
}

func newMenuRepo(foods ...menu.Food) *mockMenuRepo {
	byID := make(map[int64]*menu.Food, len(foods))
	for i := range foods {
		byID[foods[i].ID] = &foods[i]
	}
	return &mockMenuRepo{byID: byID}
}

func (m *mockMenuRepo) GetByID(_ context.Context, id int64) (*menu.Food, error) {
	f, ok := m.byID[id]
	if !ok {
		return nil, menu.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *mockMenuRepo) GetByIDs(_ context.Context, ids []int64) ([]menu.Food, error) {
	var list []menu.Food
	for _, id := range ids {
		if f, ok := m.byID[id]; ok {
			list = append(list, *f)
		}
	}
	return list, nil
}

func (m *mockMenuRepo) List(_ context.Context) ([]menu.Food, error) {
	var list []menu.Food
	for _, f := range m.byID {
		list = append(list, *f)
	}
	return list, nil
}

// --- Helpers ---

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func newTestService(orders *mockOrderRepo, items *mockItemRepo, payments *mockPaymentRepo, foods *mockMenuRepo) *Service {
	if orders == nil {
		orders = newOrderRepo()
	}
	if items == nil {
		items = newItemRepo()
	}
	if payments == nil {
		payments = newPaymentRepo()
	}
	if foods == nil {
		foods = newMenuRepo()
	}
	return NewService(orders, items, payments, foods)
}

// --- Tests ---

func TestPlace_EmptyDraft(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	_, err := svc.Place(context.Background(), Draft{})
	require.ErrorIs(t, err, ErrEmptyPayload)
}

func TestPlace_StartsProcessing(t *testing.T) {
	repo := newOrderRepo()
	svc := newTestService(repo, nil, nil, nil)

	id, err := svc.Place(context.Background(), Draft{
		TotalPrice:  money("42.50"),
		TableNumber: ptr(7),
	})

	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Equal(t, StatusProcessing, repo.byID[id].Status)
	assert.Nil(t, repo.byID[id].PaymentID, "a new order carries no payment")
}

func TestPlace_InvalidItemQuantity(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	_, err := svc.Place(context.Background(), Draft{
		Items: []LineItem{{FoodID: 1, Quantity: 0, Price: money("5.00")}},
	})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestPlace_InlineItemsDeriveTotal(t *testing.T) {
	repo := newOrderRepo()
	svc := newTestService(repo, nil, nil, nil)

	id, err := svc.Place(context.Background(), Draft{
		TotalPrice: money("999.99"),
		Items: []LineItem{
			{FoodID: 1, Quantity: 2, Price: money("20.00")},
			{FoodID: 2, Quantity: 1, Price: money("12.50")},
		},
	})

	require.NoError(t, err)
	assert.True(t, money("32.50").Equal(repo.byID[id].TotalPrice),
		"inline items override the client-sent total")
	assert.Len(t, repo.created, 2, "items pass through to the transactional create")
}

func TestGet_InvalidID(t *testing.T) {
	repo := newOrderRepo()
	svc := newTestService(repo, nil, nil, nil)

	_, err := svc.Get(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidID)
	assert.Empty(t, repo.calls, "invalid ids are rejected before the store")
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	_, err := svc.Get(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIncomplete_FiltersTerminal(t *testing.T) {
	repo := newOrderRepo(
		Order{ID: 1, Status: StatusProcessing, Version: 1},
		Order{ID: 2, Status: StatusUnpaid, Version: 1},
		Order{ID: 3, Status: StatusCompleted, Version: 1},
		Order{ID: 4, Status: StatusCancelled, Version: 1},
	)
	svc := newTestService(repo, nil, nil, nil)

	list, err := svc.Incomplete(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, o := range list {
		assert.False(t, o.Status.Terminal())
	}
}

func TestIncomplete_EmptyIsNotFound(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	_, err := svc.Incomplete(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestByDateRange_Validation(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)
	now := time.Now()

	_, err := svc.ByDateRange(context.Background(), time.Time{}, now)
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.ByDateRange(context.Background(), now, now.Add(-time.Hour))
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestByMonth_RejectsOutOfRange(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	_, err := svc.ByMonth(context.Background(), 12)
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.ByMonth(context.Background(), -1)
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestByYear_RejectsFuture(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	_, err := svc.ByYear(context.Background(), time.Now().Year()+1)
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestUpdate_EmptyPatch(t *testing.T) {
	svc := newTestService(newOrderRepo(Order{ID: 1, Status: StatusProcessing, Version: 1}), nil, nil, nil)

	err := svc.Update(context.Background(), 1, Patch{})
	require.ErrorIs(t, err, ErrEmptyPayload)
}

func TestUpdate_UnknownStatus(t *testing.T) {
	svc := newTestService(newOrderRepo(Order{ID: 1, Status: StatusProcessing, Version: 1}), nil, nil, nil)

	err := svc.Update(context.Background(), 1, Patch{Status: ptr(Status("archived"))})

	var usErr *UnknownStatusError
	require.ErrorAs(t, err, &usErr)
	assert.Equal(t, Status("archived"), usErr.Status)
}

func TestUpdate_TerminalTransitionRejected(t *testing.T) {
	svc := newTestService(newOrderRepo(Order{ID: 1, Status: StatusCompleted, Version: 2}), nil, nil, nil)

	err := svc.Update(context.Background(), 1, Patch{Status: ptr(StatusCancelled)})

	var trErr *TransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, StatusCompleted, trErr.From)
	assert.Equal(t, StatusCancelled, trErr.To)
}

func TestUpdate_SettledOrderRejectsFieldOverwrite(t *testing.T) {
	repo := newOrderRepo(Order{
		ID: 1, TotalPrice: money("130.00"), PaymentID: ptr(int64(5)),
		Status: StatusCompleted, Version: 3,
	})
	svc := newTestService(repo, nil, nil, nil)

	err := svc.Update(context.Background(), 1, Patch{
		TotalPrice: ptr(money("1.00")),
		PaymentID:  ptr(int64(99)),
	})

	require.ErrorIs(t, err, ErrOrderSettled)
	got := repo.byID[1]
	assert.True(t, money("130.00").Equal(got.TotalPrice), "the settled total stays intact")
	assert.Equal(t, int64(5), *got.PaymentID)
	assert.Equal(t, []string{"get"}, repo.calls, "no write reaches the store")
}

func TestUpdate_CancelledOrderRejectsFieldOverwrite(t *testing.T) {
	repo := newOrderRepo(Order{ID: 1, Status: StatusCancelled, Version: 2})
	svc := newTestService(repo, nil, nil, nil)

	err := svc.Update(context.Background(), 1, Patch{TableNumber: ptr(7)})
	require.ErrorIs(t, err, ErrOrderSettled)
}

func TestUpdate_CompletedRequiresPayment(t *testing.T) {
	svc := newTestService(newOrderRepo(Order{ID: 1, Status: StatusUnpaid, Version: 1}), nil, nil, nil)

	err := svc.Update(context.Background(), 1, Patch{Status: ptr(StatusCompleted)})
	require.ErrorIs(t, err, ErrPaymentRequired)
}

func TestUpdate_CompletedReconcilesTotal(t *testing.T) {
	repo := newOrderRepo(Order{ID: 1, TotalPrice: money("1.00"), Status: StatusUnpaid, Version: 1})
	items := newItemRepo(
		LineItem{ID: 1, OrderID: 1, FoodID: 1, Quantity: 2, Price: money("100.00")},
		LineItem{ID: 2, OrderID: 1, FoodID: 2, Quantity: 1, Price: money("30.00")},
	)
	payments := newPaymentRepo(Payment{ID: 5, MethodID: 1, AmountPaid: money("130.00")})
	svc := newTestService(repo, items, payments, nil)

	err := svc.Update(context.Background(), 1, Patch{
		PaymentID: ptr(int64(5)),
		Status:    ptr(StatusCompleted),
	})

	require.NoError(t, err)
	got := repo.byID[1]
	assert.Equal(t, StatusCompleted, got.Status)
	assert.True(t, money("130.00").Equal(got.TotalPrice),
		"the stored line items own the settled total")
}

func TestUpdate_CompletedWithMissingPayment(t *testing.T) {
	repo := newOrderRepo(Order{ID: 1, Status: StatusUnpaid, Version: 1})
	svc := newTestService(repo, nil, nil, nil)

	err := svc.Update(context.Background(), 1, Patch{
		PaymentID: ptr(int64(99)),
		Status:    ptr(StatusCompleted),
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_CompletedWithoutItems(t *testing.T) {
	repo := newOrderRepo(Order{ID: 1, Status: StatusUnpaid, Version: 1})
	payments := newPaymentRepo(Payment{ID: 5, MethodID: 1})
	svc := newTestService(repo, nil, payments, nil)

	err := svc.Update(context.Background(), 1, Patch{
		PaymentID: ptr(int64(5)),
		Status:    ptr(StatusCompleted),
	})
	require.ErrorIs(t, err, ErrNotFound, "an order with no line items cannot settle")
}

func TestUpdate_ServerAssignOnlyWhileProcessing(t *testing.T) {
	svc := newTestService(newOrderRepo(Order{ID: 1, Status: StatusUnpaid, Version: 1}), nil, nil, nil)

	err := svc.Update(context.Background(), 1, Patch{ServerID: ptr(int64(3))})
	require.ErrorIs(t, err, ErrServerAssign)
}

func TestUpdate_ServerAssignWhileProcessing(t *testing.T) {
	repo := newOrderRepo(Order{ID: 1, Status: StatusProcessing, Version: 1})
	svc := newTestService(repo, nil, nil, nil)

	err := svc.Update(context.Background(), 1, Patch{ServerID: ptr(int64(3))})
	require.NoError(t, err)
	require.NotNil(t, repo.byID[1].ServerID)
	assert.Equal(t, int64(3), *repo.byID[1].ServerID)
}

func TestUpdate_ConcurrentModification(t *testing.T) {
	repo := newOrderRepo(Order{ID: 1, Status: StatusProcessing, Version: 1})
	repo.updErr = ErrConflict
	svc := newTestService(repo, nil, nil, nil)

	err := svc.Update(context.Background(), 1, Patch{TableNumber: ptr(4)})
	require.ErrorIs(t, err, ErrConflict)
}

func TestRemove_DeletesItemsOrderThenPayment(t *testing.T) {
	repo := newOrderRepo(Order{ID: 1, PaymentID: ptr(int64(9)), Status: StatusCompleted, Version: 3})
	items := newItemRepo(LineItem{ID: 1, OrderID: 1, FoodID: 1, Quantity: 1, Price: money("5.00")})
	payments := newPaymentRepo(Payment{ID: 9, MethodID: 1})
	svc := newTestService(repo, items, payments, nil)

	err := svc.Remove(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, items.byID)
	assert.Empty(t, repo.byID)
	assert.Empty(t, payments.byID)
	assert.Equal(t, []string{"deleteByOrder"}, items.calls)
	assert.Equal(t, []string{"get", "delete"}, repo.calls,
		"the order row goes before the payment it references")
	assert.Equal(t, []string{"delete"}, payments.calls)
}

func TestRemove_NotFound(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	err := svc.Remove(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddLineItem_PriceMismatch(t *testing.T) {
	repo := newOrderRepo(Order{ID: 1, Status: StatusProcessing, Version: 1})
	foods := newMenuRepo(menu.Food{ID: 2, Name: "Pizza", Price: money("11.00")})
	svc := newTestService(repo, nil, nil, foods)

	_, err := svc.AddLineItem(context.Background(), LineItem{
		OrderID: 1, FoodID: 2, Quantity: 2, Price: money("11.00"),
	})

	var pmErr *PriceMismatchError
	require.ErrorAs(t, err, &pmErr)
	assert.True(t, money("22.00").Equal(pmErr.Want))
}

func TestAddLineItem_Valid(t *testing.T) {
	repo := newOrderRepo(Order{ID: 1, Status: StatusProcessing, Version: 1})
	items := newItemRepo()
	foods := newMenuRepo(menu.Food{ID: 2, Name: "Pizza", Price: money("11.00")})
	svc := newTestService(repo, items, nil, foods)

	id, err := svc.AddLineItem(context.Background(), LineItem{
		OrderID: 1, FoodID: 2, Quantity: 2, Price: money("22.00"),
	})

	require.NoError(t, err)
	assert.Positive(t, id)
}

func TestAddLineItem_OrderMissing(t *testing.T) {
	foods := newMenuRepo(menu.Food{ID: 2, Name: "Pizza", Price: money("11.00")})
	svc := newTestService(nil, nil, nil, foods)

	_, err := svc.AddLineItem(context.Background(), LineItem{
		OrderID: 1, FoodID: 2, Quantity: 1, Price: money("11.00"),
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateLineItem_RevalidatesPrice(t *testing.T) {
	items := newItemRepo(LineItem{ID: 1, OrderID: 1, FoodID: 2, Quantity: 1, Price: money("11.00")})
	foods := newMenuRepo(menu.Food{ID: 2, Name: "Pizza", Price: money("11.00")})
	svc := newTestService(nil, items, nil, foods)

	err := svc.UpdateLineItem(context.Background(), 1, LineItemPatch{Quantity: ptr(3)})

	var pmErr *PriceMismatchError
	require.ErrorAs(t, err, &pmErr, "quantity change without a matching price is rejected")

	err = svc.UpdateLineItem(context.Background(), 1, LineItemPatch{
		Quantity: ptr(3),
		Price:    ptr(money("33.00")),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, items.byID[1].Quantity)
}

func TestRecordPayment_NegativeAmount(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	_, err := svc.RecordPayment(context.Background(), Payment{
		MethodID:   1,
		AmountPaid: money("-5.00"),
	})
	require.Error(t, err)
}

func TestRecordPayment_DefaultsPaidAt(t *testing.T) {
	payments := newPaymentRepo()
	svc := newTestService(nil, nil, payments, nil)

	id, err := svc.RecordPayment(context.Background(), Payment{
		MethodID:   1,
		AmountPaid: money("20.00"),
	})

	require.NoError(t, err)
	assert.False(t, payments.byID[id].PaidAt.IsZero())
}

func TestUpdatePayment_FrozenWhenReferenced(t *testing.T) {
	payments := newPaymentRepo(Payment{ID: 1, MethodID: 1, AmountPaid: money("20.00")})
	payments.referenced = true
	svc := newTestService(nil, nil, payments, nil)

	err := svc.UpdatePayment(context.Background(), 1, PaymentPatch{
		AmountPaid: ptr(money("25.00")),
	})
	require.ErrorIs(t, err, ErrPaymentFrozen)

	err = svc.UpdatePayment(context.Background(), 1, PaymentPatch{MethodID: ptr(int64(2))})
	require.NoError(t, err, "non-monetary fields stay mutable")
}

func TestRemovePayment_InUse(t *testing.T) {
	payments := newPaymentRepo(Payment{ID: 1, MethodID: 1})
	payments.referenced = true
	svc := newTestService(nil, nil, payments, nil)

	err := svc.RemovePayment(context.Background(), 1)
	require.ErrorIs(t, err, ErrPaymentInUse)
}

func TestRemovePayment_Unreferenced(t *testing.T) {
	payments := newPaymentRepo(Payment{ID: 1, MethodID: 1})
	svc := newTestService(nil, nil, payments, nil)

	err := svc.RemovePayment(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, payments.byID)
}

func TestLineItems_EmptyIsNotFound(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	_, err := svc.LineItems(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_StoreError(t *testing.T) {
	repo := newOrderRepo(Order{ID: 1, Status: StatusProcessing, Version: 1})
	repo.updErr = errors.New("db write failed")
	svc := newTestService(repo, nil, nil, nil)

	err := svc.Update(context.Background(), 1, Patch{TableNumber: ptr(2)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update order")
}
