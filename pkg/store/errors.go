package store

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the store. Callers distinguish them with
// errors.Is; none are retried internally.
var (
	// ErrValidation covers bad dimension configs, unknown dimensions or
	// values, dangling parent references, and malformed filters.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a locator does not resolve to any document.
	ErrNotFound = errors.New("document not found")

	// ErrAmbiguous indicates a locator resolves to more than one document.
	ErrAmbiguous = errors.New("ambiguous locator")

	// ErrConflict indicates a structural conflict: deleting a parent with
	// children without cascade, or a parent assignment that would form a
	// cycle.
	ErrConflict = errors.New("conflict")

	// ErrStorage wraps failures of the underlying persistence engine.
	ErrStorage = errors.New("storage failure")

	// ErrClosed is returned by every operation on a closed store.
	ErrClosed = errors.New("store is closed")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func storagef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrStorage, fmt.Sprintf(format, args...))
}

// wrapKind reclassifies an inner error under one of the store's kinds
// while keeping its message.
func wrapKind(kind, err error) error {
	return fmt.Errorf("%w: %s", kind, err)
}
