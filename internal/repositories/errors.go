package repositories

import (
	"errors"
	"fmt"
)

// Common repository errors
var (
	// ErrNotFound is returned when no record matches the requested id
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidPayload is returned when a payload does not match the resource's key set
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrInvalidID is returned when an id is empty or not a UUID
	ErrInvalidID = errors.New("invalid ID")

	// ErrDuplicateAssociation is returned when an identity already owns a record of the resource
	ErrDuplicateAssociation = errors.New("duplicate association")

	// ErrForbidden is returned when the caller does not own the record
	ErrForbidden = errors.New("forbidden")

	// ErrUnsupported is returned when an unsupported operation is attempted
	ErrUnsupported = errors.New("unsupported operation")
)

// RepositoryError represents a repository-specific error with additional context
type RepositoryError struct {
	Op      string // Operation that failed
	Entity  string // Resource name
	ID      string // Record ID (if applicable)
	Err     error  // Underlying error
	Message string // Human-readable message
}

// Error implements the error interface
func (e *RepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.ID != "" {
		return fmt.Sprintf("%s %s operation failed for ID %s: %v", e.Entity, e.Op, e.ID, e.Err)
	}

	return fmt.Sprintf("%s %s operation failed: %v", e.Entity, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new repository error
func NewRepositoryError(op, entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:     op,
		Entity: entity,
		ID:     id,
		Err:    err,
	}
}

// NotFoundError creates a "not found" repository error
func NotFoundError(entity, id string) *RepositoryError {
	return &RepositoryError{
		Op:      "get",
		Entity:  entity,
		ID:      id,
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s with ID %s not found", entity, id),
	}
}

// InvalidIDError creates an "invalid id" repository error
func InvalidIDError(op, entity, id string) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Entity:  entity,
		ID:      id,
		Err:     ErrInvalidID,
		Message: fmt.Sprintf("%q is not a valid %s id", id, entity),
	}
}

// PayloadError creates an "invalid payload" repository error
func PayloadError(op, entity, message string) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Entity:  entity,
		Err:     ErrInvalidPayload,
		Message: message,
	}
}

// DuplicateAssociationError creates a "duplicate association" repository error
func DuplicateAssociationError(entity, owner string) *RepositoryError {
	return &RepositoryError{
		Op:      "create",
		Entity:  entity,
		Err:     ErrDuplicateAssociation,
		Message: fmt.Sprintf("user %s already has an associated %s", owner, entity),
	}
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidPayload checks if an error is an "invalid payload" error
func IsInvalidPayload(err error) bool {
	return errors.Is(err, ErrInvalidPayload)
}

// IsInvalidID checks if an error is an "invalid id" error
func IsInvalidID(err error) bool {
	return errors.Is(err, ErrInvalidID)
}

// IsDuplicateAssociation checks if an error is a "duplicate association" error
func IsDuplicateAssociation(err error) bool {
	return errors.Is(err, ErrDuplicateAssociation)
}

// IsForbidden checks if an error is a "forbidden" error
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsClientError reports whether err was caused by the request rather than the backend
func IsClientError(err error) bool {
	return IsInvalidPayload(err) || IsInvalidID(err) || IsDuplicateAssociation(err)
}
