package order

import "fmt"

// ErrorCode classifies order failures so the UI can render a specific,
// actionable message instead of a generic one.
type ErrorCode string

const (
	CodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	CodeProductNotFound    ErrorCode = "PRODUCT_NOT_FOUND"
	CodeBelowMinimumOrder  ErrorCode = "BELOW_MINIMUM_ORDER"
	CodeInsufficientStock  ErrorCode = "INSUFFICIENT_STOCK"
	CodeInvalidTransition  ErrorCode = "INVALID_TRANSITION"
	CodeOrderNotFound      ErrorCode = "ORDER_NOT_FOUND"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
)

// Error is a client-correctable order failure. The optional detail fields
// identify which item caused it and by how much.
type Error struct {
	Code         ErrorCode `json:"code"`
	Message      string    `json:"error"`
	ProductID    string    `json:"product_id,omitempty"`
	Requested    int       `json:"requested,omitempty"`
	Available    int       `json:"available,omitempty"`
	MinimumOrder int       `json:"minimum_order,omitempty"`
}

func (e *Error) Error() string { return e.Message }

func errInvalidRequest(format string, args ...interface{}) *Error {
	return &Error{Code: CodeInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

func errProductNotFound(productID string) *Error {
	return &Error{
		Code:      CodeProductNotFound,
		Message:   fmt.Sprintf("product %s not found in this supplier's catalog", productID),
		ProductID: productID,
	}
}

func errBelowMinimumOrder(productID string, minimum, requested int) *Error {
	return &Error{
		Code:         CodeBelowMinimumOrder,
		Message:      fmt.Sprintf("product %s requires a minimum order of %d (requested %d)", productID, minimum, requested),
		ProductID:    productID,
		MinimumOrder: minimum,
		Requested:    requested,
	}
}

func errInsufficientStock(productID string, requested, available int) *Error {
	return &Error{
		Code:      CodeInsufficientStock,
		Message:   fmt.Sprintf("product %s has only %d in stock (requested %d)", productID, available, requested),
		ProductID: productID,
		Requested: requested,
		Available: available,
	}
}

func errInvalidTransition(from, to Status) *Error {
	return &Error{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition order from %s to %s", from, to),
	}
}

func errOrderNotFound(id string) *Error {
	return &Error{Code: CodeOrderNotFound, Message: fmt.Sprintf("order %s not found", id)}
}

func errForbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

func errStorageUnavailable(err error) *Error {
	return &Error{Code: CodeStorageUnavailable, Message: "order storage unavailable: " + err.Error()}
}
