package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-modules/internal/generation"
	"github.com/goliatone/go-cms-modules/internal/items"
	"github.com/goliatone/go-cms-modules/internal/relation"
	"github.com/goliatone/go-cms-modules/internal/validation"
)

// Text codes attached to wrapped command errors.
const (
	CodeInvalidMessage = "MODULE_COMMAND_INVALID"
	CodeRejected       = "MODULE_COMMAND_REJECTED"
	CodeCanceled       = "MODULE_COMMAND_CANCELED"
	CodeTimeout        = "MODULE_COMMAND_TIMEOUT"
	CodeFailed         = "MODULE_COMMAND_FAILED"
)

// Rejected reports whether err is caused by the request rather than by the
// runtime: invalid payloads, unknown ids, stale orderings, bad relation keys.
func Rejected(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, validation.ErrValidation),
		errors.Is(err, items.ErrNotFound),
		errors.Is(err, items.ErrInvalidOrder),
		errors.Is(err, items.ErrScopeInvalid),
		errors.Is(err, items.ErrIDRequired),
		errors.Is(err, items.ErrIDConflict),
		errors.Is(err, items.ErrLocaleRequired),
		errors.Is(err, relation.ErrKindUnknown),
		errors.Is(err, relation.ErrIDRequired),
		errors.Is(err, generation.ErrSubjectRequired),
		errors.Is(err, generation.ErrCountOutOfRange):
		return true
	}
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "item command message invalid").
		WithTextCode(CodeInvalidMessage)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "item command timed out").
			WithTextCode(CodeTimeout)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "item command cancelled").
		WithTextCode(CodeCanceled)
}

// wrapExecuteError keeps the source error reachable so callers can still
// classify domain failures with errors.Is and errors.As.
func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if Rejected(err) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "item command rejected").
			WithTextCode(CodeRejected)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "item command failed").
		WithTextCode(CodeFailed)
}
