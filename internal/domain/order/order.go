package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors shared by the lifecycle service and its repositories.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidID       = errors.New("invalid id")
	ErrEmptyPayload    = errors.New("empty payload")
	ErrDuplicate       = errors.New("duplicate record")
	ErrConflict        = errors.New("concurrent modification")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrInvalidRange    = errors.New("both start and end dates are required")
	ErrPaymentRequired = errors.New("a payment reference is required to complete an order")
	ErrOrderSettled    = errors.New("a completed or cancelled order can no longer be modified")
	ErrServerAssign    = errors.New("a server can only be assigned while the order is processing")
	ErrPaymentFrozen   = errors.New("payment monetary fields are immutable once referenced by an order")
	ErrPaymentInUse    = errors.New("payment is still referenced by an order")
)

// Order is a customer's placed request, tracked through the status lifecycle
// until it is paid or cancelled. Mutations go through Service.Update only;
// Version backs the conditional write in the repository.
type Order struct {
	ID          int64
	TotalPrice  decimal.Decimal
	PaymentID   *int64
	ServerID    *int64
	TableNumber *int
	Status      Status
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LineItem is one food entry within an order. Price holds the line total for
// the quantity, not the unit price.
type LineItem struct {
	ID       int64
	OrderID  int64
	FoodID   int64
	Quantity int
	Price    decimal.Decimal
}

// Payment is a locally recorded settlement for an order. One payment belongs
// to at most one order; its monetary fields freeze once referenced.
type Payment struct {
	ID             int64
	MethodID       int64
	AmountPaid     decimal.Decimal
	AmountToReturn decimal.Decimal
	PaidAt         time.Time
}

// Repository defines persistence operations for orders.
//
// Create inserts the order together with any inline line items in a single
// transaction and returns the new id. Update is a version-conditional write:
// it must return ErrConflict when the stored version no longer matches.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByStatus(ctx context.Context, statuses []Status) ([]Order, error)
	ListByServer(ctx context.Context, serverID int64) ([]Order, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]Order, error)
	Create(ctx context.Context, o *Order, items []LineItem) (int64, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id int64) error
}

// LineItemRepository defines persistence operations for ordered food rows.
type LineItemRepository interface {
	GetByID(ctx context.Context, id int64) (*LineItem, error)
	ListByOrder(ctx context.Context, orderID int64) ([]LineItem, error)
	Create(ctx context.Context, item *LineItem) (int64, error)
	Update(ctx context.Context, item *LineItem) error
	Delete(ctx context.Context, id int64) error
	DeleteByOrder(ctx context.Context, orderID int64) error
}

// PaymentRepository defines persistence operations for payments.
// Referenced reports whether any order points at the given payment.
type PaymentRepository interface {
	GetByID(ctx context.Context, id int64) (*Payment, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]Payment, error)
	Create(ctx context.Context, p *Payment) (int64, error)
	Update(ctx context.Context, p *Payment) error
	Delete(ctx context.Context, id int64) error
	Referenced(ctx context.Context, id int64) (bool, error)
}

// SumLineItems returns the total of the given line items' price fields.
func SumLineItems(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Price)
	}
	return sum.Round(2)
}
