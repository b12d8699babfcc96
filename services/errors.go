package services

import (
	"errors"
	"fmt"
)

var (
	ErrMenuNotFound        = errors.New("menu item not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrLineNotFound        = errors.New("order line not found")
	ErrStockNotFound       = errors.New("stock item not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")
)

// InsufficientStockError aborts the whole enclosing transaction; no partial
// decrement is ever visible.
type InsufficientStockError struct {
	IngredientID string
	Needed       int64
	Have         int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: need %d, have %d", e.IngredientID, e.Needed, e.Have)
}

// MissingInventoryRecordError is raised when an order tries to consume an
// ingredient that has no stock record at all.
type MissingInventoryRecordError struct {
	IngredientID string
}

func (e *MissingInventoryRecordError) Error() string {
	return fmt.Sprintf("no inventory record for %s", e.IngredientID)
}

type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

func invalidInput(format string, args ...interface{}) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}
