package user

import "context"

// Service defines the interface for user-related business logic.
type Service interface {
	RegisterUser(ctx context.Context, req RegisterRequest) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	ListSuppliers(ctx context.Context) ([]*User, error)
}

// RegisterRequest is the payload for creating a vendor or supplier account.
type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Role         string `json:"role"` // "vendor" or "supplier"
	BusinessName string `json:"business_name,omitempty"`
	GSTNumber    string `json:"gst_number,omitempty"`
}
