package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrInvalidRecord is returned when a record fails validation before indexing
	ErrInvalidRecord = errors.New("invalid record")

	// ErrBulkIndexFailed is returned when a bulk indexing transaction is rolled back
	ErrBulkIndexFailed = errors.New("bulk index failed")

	// ErrStoreClosed is returned when an operation runs against a closed engine
	ErrStoreClosed = errors.New("store closed")

	// ErrRecordNotFound is returned when a record lookup misses
	ErrRecordNotFound = errors.New("record not found")
)

// InvalidRecordError represents a record validation failure with context
type InvalidRecordError struct {
	ID      string
	Message string
}

func (e *InvalidRecordError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("invalid record '%s': %s", e.ID, e.Message)
	}
	return fmt.Sprintf("invalid record: %s", e.Message)
}

func (e *InvalidRecordError) Is(target error) bool {
	return target == ErrInvalidRecord
}

// NewInvalidRecordError creates a new InvalidRecordError
func NewInvalidRecordError(id, message string) *InvalidRecordError {
	return &InvalidRecordError{ID: id, Message: message}
}

// BulkIndexError reports which record aborted a bulk indexing batch. The whole
// batch is rolled back, so Index refers to the failing record only.
type BulkIndexError struct {
	Index int
	ID    string
	Err   error
}

func (e *BulkIndexError) Error() string {
	return fmt.Sprintf("bulk index failed at record %d (id '%s'): %v", e.Index, e.ID, e.Err)
}

func (e *BulkIndexError) Is(target error) bool {
	return target == ErrBulkIndexFailed
}

func (e *BulkIndexError) Unwrap() error {
	return e.Err
}

// NewBulkIndexError creates a new BulkIndexError
func NewBulkIndexError(index int, id string, err error) *BulkIndexError {
	return &BulkIndexError{Index: index, ID: id, Err: err}
}
