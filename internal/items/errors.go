package items

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("items: not found")
	ErrInvalidOrder         = errors.New("items: invalid order")
	ErrScopeInvalid         = errors.New("items: scope invalid")
	ErrIDRequired           = errors.New("items: id required")
	ErrPositionConflict     = errors.New("items: position already taken")
	ErrIDConflict           = errors.New("items: id already taken")
	ErrLocaleRequired       = errors.New("items: locale required")
	ErrTranslationsDisabled = errors.New("items: translations disabled")
)

// NotFoundError names the missing record. It matches ErrNotFound.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidOrderError lists why a reorder payload is not a permutation.
type InvalidOrderError struct {
	Missing    []string
	Unknown    []string
	Duplicates []string
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("%s: missing=%v unknown=%v duplicates=%v", ErrInvalidOrder, e.Missing, e.Unknown, e.Duplicates)
}

func (e *InvalidOrderError) Unwrap() error { return ErrInvalidOrder }
