package dataset

import (
	"errors"
	"fmt"
)

// Dataset error sentinels.
var (
	// ErrDataLoad is returned when a file is missing or cannot be parsed as a table.
	ErrDataLoad = errors.New("data load failed")

	// ErrUnknownColumn is returned when a predicate or lookup names a column the table lacks.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrColumnKind is returned when a column has the wrong inferred kind for an operation.
	ErrColumnKind = errors.New("column has wrong kind")
)

// LoadError describes why a dataset could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

// Error returns a formatted error message including the offending path.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is makes every LoadError match ErrDataLoad.
func (e *LoadError) Is(target error) bool {
	return target == ErrDataLoad
}
