package document

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema reports a persisted or imported value that cannot be upgraded
	// to a Document. Callers fall back to Default.
	ErrSchema = errors.New("document: malformed document")

	// ErrIndex reports a reference to an item that does not exist.
	ErrIndex = errors.New("document: index out of range")

	// ErrValidation reports an empty required field.
	ErrValidation = errors.New("document: invalid value")
)

// IndexError carries the offending reference. It matches ErrIndex with errors.Is.
type IndexError struct {
	Kind  Kind
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("document: %s index %d out of range [0,%d)", e.Kind, e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrIndex
}

// ValidationError names the field that failed. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("document: %s is required", e.Field)
	}
	return fmt.Sprintf("document: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
