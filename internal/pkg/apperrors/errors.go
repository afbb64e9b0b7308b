// internal/pkg/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError indicates malformed or missing input. It is raised before
// any read or write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidation creates a ValidationError for a specific field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InsufficientStockError indicates a requested decrement exceeds the quantity
// available at commit-time re-check. It is raised before any write.
type InsufficientStockError struct {
	ItemID     uint
	LocationID uint
	Requested  int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d at location %d: requested %d, available %d",
		e.ItemID, e.LocationID, e.Requested, e.Available)
}

// ConflictError indicates a concurrent modification was detected during
// commit. The caller should retry the operation.
type ConflictError struct {
	ItemID     uint
	LocationID uint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("concurrent modification detected for item %d at location %d, retry the operation",
		e.ItemID, e.LocationID)
}

// NotFoundError indicates an unknown item, location, bundle or order reference.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NewNotFound creates a NotFoundError for a numeric id.
func NewNotFound(resource string, id uint) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: fmt.Sprintf("%d", id)}
}

// ForbiddenError indicates the acting user lacks the role a gated
// operation requires.
type ForbiddenError struct {
	Action string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("not authorized to %s", e.Action)
}

// NewForbidden creates a ForbiddenError for a named action.
func NewForbidden(action string) *ForbiddenError {
	return &ForbiddenError{Action: action}
}

// PersistenceError indicates the underlying storage was unavailable or a
// write failed. It is surfaced to the caller, never silently retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NewPersistence wraps a storage error with the operation that failed.
func NewPersistence(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// Classification helpers used by the HTTP layer to pick status codes.

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsInsufficientStock(err error) bool {
	var ie *InsufficientStockError
	return errors.As(err, &ie)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}

func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
