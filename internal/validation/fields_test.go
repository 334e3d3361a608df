package validation

import (
	"errors"
	"testing"

	"github.com/goliatone/go-cms-modules/internal/schema"
)

func accordion(t *testing.T) *schema.Descriptor {
	t.Helper()
	return schema.New("accordion").
		Text("title", schema.Required(), schema.MaxLength(20)).
		RichText("content").
		Text("icon").
		MustBuild()
}

func TestValidateFieldsAcceptsValidPayload(t *testing.T) {
	if err := ValidateFields(accordion(t), map[string]any{"title": "Shipping", "content": "<p>Fast</p>"}); err != nil {
		t.Fatalf("expected payload to validate, got %v", err)
	}
}

func TestValidateFieldsReportsMissingRequired(t *testing.T) {
	err := ValidateFields(accordion(t), map[string]any{"content": "body"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	fields := FieldMap(err)
	if fields["title"] == "" {
		t.Fatalf("expected title error, got %v", fields)
	}
}

func TestValidateFieldsReportsTypeAndLengthPerField(t *testing.T) {
	err := ValidateFields(accordion(t), map[string]any{
		"title": "a title that is far too long for the limit",
		"icon":  42,
		"extra": "x",
	})
	fields := FieldMap(err)
	for _, name := range []string{"title", "icon", "extra"} {
		if fields[name] == "" {
			t.Fatalf("expected error for %s, got %v", name, fields)
		}
	}
	issues := Issues(err)
	if len(issues) != 3 || issues[0].Field != "extra" {
		t.Fatalf("expected sorted issues, got %v", issues)
	}
}

func TestValidatePartialSkipsRequiredButRejectsBlank(t *testing.T) {
	desc := accordion(t)
	if err := ValidatePartial(desc, map[string]any{"icon": "star"}); err != nil {
		t.Fatalf("expected partial payload to validate, got %v", err)
	}
	err := ValidatePartial(desc, map[string]any{"title": ""})
	if FieldMap(err)["title"] == "" {
		t.Fatalf("expected blank required title to fail, got %v", err)
	}
}

func TestIssuesIgnoresForeignErrors(t *testing.T) {
	if got := Issues(errors.New("boom")); got != nil {
		t.Fatalf("expected nil issues, got %v", got)
	}
}
