package todo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound matches any *NotFoundError via errors.Is.
	ErrNotFound = errors.New("task not found")
	// ErrInvalidInput matches any *ValidationError via errors.Is.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError reports every violated field of a candidate task. Fields
// maps the field name ("title", "content", "date") to a message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := e.FieldNames()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldNames returns the violated fields in a stable order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return target == ErrInvalidInput
}

type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task '%s' not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return target == ErrNotFound
}

// StoreError wraps a failure of the underlying Store. The original error is
// kept unchanged and reachable through errors.Unwrap / errors.As.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
