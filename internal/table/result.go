package table

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	itemscmd "github.com/goliatone/go-cms-modules/internal/commands/items"
	"github.com/goliatone/go-cms-modules/internal/generation"
	"github.com/goliatone/go-cms-modules/internal/items"
	"github.com/goliatone/go-cms-modules/internal/relation"
	fieldvalidation "github.com/goliatone/go-cms-modules/internal/validation"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

// Outcome classifies an action result for the UI and transport adapters.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeInvalid      Outcome = "invalid"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeInvalidOrder Outcome = "invalid_order"
	// OutcomeEmpty marks a generation batch that created nothing.
	OutcomeEmpty    Outcome = "empty"
	OutcomeDisabled Outcome = "disabled"
)

// ActionResult is what the admin UI receives after an action. Expected
// failures are carried here instead of being returned as errors.
type ActionResult struct {
	Outcome      Outcome                  `json:"outcome"`
	Item         *items.Item              `json:"item,omitempty"`
	Items        []*items.Item            `json:"items,omitempty"`
	Count        int                      `json:"count,omitempty"`
	Report       *generation.Report       `json:"report,omitempty"`
	FieldErrors  map[string]string        `json:"field_errors,omitempty"`
	Notification *interfaces.Notification `json:"notification,omitempty"`
}

// OK reports whether the action completed.
func (r *ActionResult) OK() bool {
	return r != nil && r.Outcome == OutcomeOK
}

func ok() *ActionResult {
	return &ActionResult{Outcome: OutcomeOK}
}

func notice(severity interfaces.Severity, title, body string) *interfaces.Notification {
	return &interfaces.Notification{Title: title, Body: body, Severity: severity}
}

// classify turns expected domain failures into results. Unexpected errors are
// returned unchanged.
func classify(err error) (*ActionResult, error) {
	var formErrs validation.Errors
	var invalidOrder *items.InvalidOrderError
	switch {
	case errors.Is(err, fieldvalidation.ErrValidation):
		return invalid(fieldvalidation.FieldMap(err)), nil
	case errors.As(err, &formErrs):
		fields := make(map[string]string, len(formErrs))
		for name, fieldErr := range formErrs {
			fields[name] = fieldErr.Error()
		}
		return invalid(fields), nil
	case goerrors.IsCategory(err, goerrors.CategoryValidation):
		return invalid(map[string]string{"_": err.Error()}), nil
	case errors.Is(err, generation.ErrSubjectRequired):
		return invalid(map[string]string{"subject": "subject is required"}), nil
	case errors.Is(err, generation.ErrCountOutOfRange):
		return invalid(map[string]string{"count": err.Error()}), nil
	case errors.Is(err, items.ErrScopeInvalid), errors.Is(err, relation.ErrKindUnknown), errors.Is(err, relation.ErrIDRequired):
		return &ActionResult{Outcome: OutcomeInvalid, Notification: notice(interfaces.SeverityDanger, "Invalid list", err.Error())}, nil
	case errors.Is(err, items.ErrNotFound):
		return &ActionResult{Outcome: OutcomeNotFound, Notification: notice(interfaces.SeverityDanger, "Item not found", "The item no longer exists or belongs to another list.")}, nil
	case errors.As(err, &invalidOrder):
		return &ActionResult{Outcome: OutcomeInvalidOrder, Notification: notice(interfaces.SeverityDanger, "Order not saved", describeOrder(invalidOrder))}, nil
	case errors.Is(err, items.ErrInvalidOrder):
		return &ActionResult{Outcome: OutcomeInvalidOrder, Notification: notice(interfaces.SeverityDanger, "Order not saved", "The list changed, reload and try again.")}, nil
	case errors.Is(err, itemscmd.ErrGenerationDisabled), errors.Is(err, itemscmd.ErrGenerationUnavailable),
		errors.Is(err, generation.ErrProviderRequired), errors.Is(err, items.ErrTranslationsDisabled):
		return &ActionResult{Outcome: OutcomeDisabled, Notification: notice(interfaces.SeverityWarning, "Not available", err.Error())}, nil
	}
	return nil, err
}

func invalid(fields map[string]string) *ActionResult {
	return &ActionResult{
		Outcome:      OutcomeInvalid,
		FieldErrors:  fields,
		Notification: notice(interfaces.SeverityDanger, "Please fix the highlighted fields", ""),
	}
}

func describeOrder(err *items.InvalidOrderError) string {
	var parts []string
	if n := len(err.Missing); n > 0 {
		parts = append(parts, fmt.Sprintf("%d missing", n))
	}
	if n := len(err.Unknown); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unknown", n))
	}
	if n := len(err.Duplicates); n > 0 {
		parts = append(parts, fmt.Sprintf("%d repeated", n))
	}
	if len(parts) == 0 {
		return "The list changed, reload and try again."
	}
	return "The order must list every item exactly once (" + strings.Join(parts, ", ") + ")."
}
