package providers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

// StructuredInstructions wraps a generation prompt with the JSON contract
// shared by text-only providers.
func StructuredInstructions(prompt string, descriptor interfaces.TypeDescriptor) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(prompt))
	b.WriteString("\n\nRespond with a single JSON object and nothing else.")
	if descriptor == nil {
		return b.String()
	}
	fmt.Fprintf(&b, " Use exactly these keys: %s.", strings.Join(descriptor.FieldNames(), ", "))
	if schema, err := json.MarshalIndent(descriptor.JSONSchema(), "", "  "); err == nil {
		b.WriteString(" The object must validate against this JSON schema:\n")
		b.Write(schema)
	}
	return b.String()
}

// KeepDeclared drops keys the descriptor does not declare and values that are
// not strings. Numbers and booleans are stringified.
func KeepDeclared(raw map[string]any, descriptor interfaces.TypeDescriptor) map[string]any {
	out := make(map[string]any, len(raw))
	allowed := map[string]bool{}
	if descriptor != nil {
		for _, name := range descriptor.FieldNames() {
			allowed[name] = true
		}
	}
	for key, value := range raw {
		if descriptor != nil && !allowed[key] {
			continue
		}
		switch v := value.(type) {
		case string:
			out[key] = v
		case float64, bool, json.Number:
			out[key] = fmt.Sprint(v)
		}
	}
	return out
}
