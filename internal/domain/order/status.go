package order

import "fmt"

// Status is the lifecycle state of an order.
type Status string

// Lifecycle states. An order enters processing when placed, moves to unpaid
// once a server takes it to a table, and ends in completed (payment recorded)
// or cancelled (no payment). Terminal states accept no further transitions.
const (
	StatusProcessing Status = "processing"
	StatusUnpaid     Status = "unpaid"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// transitions is the explicit state machine table: for each current status,
// the set of statuses a caller may request. Same-status writes are treated as
// no-ops by the service and never consult this table.
var transitions = map[Status]map[Status]bool{
	StatusProcessing: {
		StatusUnpaid:    true,
		StatusCompleted: true,
		StatusCancelled: true,
	},
	StatusUnpaid: {
		StatusCompleted: true,
		StatusCancelled: true,
	},
	StatusCompleted: {},
	StatusCancelled: {},
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether s permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to Status) bool {
	return transitions[from][to]
}

// TransitionError reports a denied status change.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// UnknownStatusError reports a status value outside the lifecycle set.
type UnknownStatusError struct {
	Status Status
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown order status %q", e.Status)
}
