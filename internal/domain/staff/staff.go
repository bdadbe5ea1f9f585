// Package staff holds the read-side view of restaurant users. The core only
// validates server references and aggregates per-server statistics; account
// management and authentication live elsewhere.
package staff

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("user not found")

// Role is the fixed staff role set.
type Role string

const (
	RoleServer  Role = "server"
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
	RoleChef    Role = "chef"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleServer, RoleAdmin, RoleCashier, RoleChef:
		return true
	}
	return false
}

// User is a staff member.
type User struct {
	ID       int64
	FullName string
	Role     Role
}

// Repository defines read operations over staff users.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
}
