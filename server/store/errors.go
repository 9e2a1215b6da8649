package store

import (
	"errors"
	"fmt"
)

var (
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrHydration          = errors.New("hydration failed")
	ErrUndefinedAggregate = errors.New("undefined aggregate")
	ErrNotPersisted       = errors.New("record not persisted")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")

	errMissingColumn = errors.New("missing column")
)

// HydrationError reports a row that could not be turned into a record.
type HydrationError struct {
	Table  string
	Column string
	Err    error
}

func (e *HydrationError) Error() string {
	return fmt.Sprintf("hydrate %s.%s: %v", e.Table, e.Column, e.Err)
}

func (e *HydrationError) Unwrap() error {
	return e.Err
}

func (e *HydrationError) Is(target error) bool {
	return target == ErrHydration
}
