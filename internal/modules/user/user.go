package user

import (
	"time"

	"github.com/google/uuid"
)

// Role tags a marketplace participant. Vendors buy supplies; suppliers sell them.
type Role string

const (
	RoleVendor   Role = "vendor"
	RoleSupplier Role = "supplier"
)

// Valid reports whether r is one of the two marketplace roles.
func (r Role) Valid() bool {
	return r == RoleVendor || r == RoleSupplier
}

// User represents a vendor or supplier account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Role         Role      `json:"role"`
	BusinessName string    `json:"business_name,omitempty"` // vendors
	GSTNumber    string    `json:"gst_number,omitempty"`    // suppliers
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
