// Package validation checks item payloads against their descriptor's JSON schema.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-cms-modules/internal/schema"
)

var (
	ErrValidation = errors.New("validation: payload invalid")
	ErrSchema     = errors.New("validation: schema invalid")
)

// FieldErrors maps field names to the first message reported for them.
// Problems not tied to a field are stored under "_".
type FieldErrors struct {
	Type   string
	Fields map[string]string
}

func (e *FieldErrors) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *FieldErrors) Unwrap() error { return ErrValidation }

func (e *FieldErrors) add(field, message string) {
	if field == "" {
		field = "_"
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// Issue is the transport form of a single field error.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Issues flattens a validation error for transport, sorted by field.
func Issues(err error) []Issue {
	var fe *FieldErrors
	if !errors.As(err, &fe) || fe == nil {
		return nil
	}
	out := make([]Issue, 0, len(fe.Fields))
	for _, k := range slices.Sorted(maps.Keys(fe.Fields)) {
		out = append(out, Issue{Field: k, Message: fe.Fields[k]})
	}
	return out
}

// FieldMap returns the field error map carried by err, or nil.
func FieldMap(err error) map[string]string {
	var fe *FieldErrors
	if !errors.As(err, &fe) || fe == nil {
		return nil
	}
	return maps.Clone(fe.Fields)
}

// ValidateFields checks a complete payload, required fields included.
func ValidateFields(desc *schema.Descriptor, fields map[string]any) error {
	return validate(desc, fields, true)
}

// ValidatePartial checks a partial update; absent required fields are allowed
// but present ones may not be blank.
func ValidatePartial(desc *schema.Descriptor, fields map[string]any) error {
	return validate(desc, fields, false)
}

func validate(desc *schema.Descriptor, fields map[string]any, full bool) error {
	if desc == nil {
		return fmt.Errorf("%w: descriptor is nil", ErrSchema)
	}
	doc := desc.JSONSchema()
	if !full {
		delete(doc, "required")
	}
	compiled, err := compiled(doc)
	if err != nil {
		return err
	}

	payload, err := normalise(fields)
	if err != nil {
		return &FieldErrors{Type: desc.Type, Fields: map[string]string{"_": err.Error()}}
	}

	verr := compiled.Validate(payload)
	if verr == nil {
		return nil
	}
	result := &FieldErrors{Type: desc.Type, Fields: map[string]string{}}
	var schemaErr *jsonschema.ValidationError
	if !errors.As(verr, &schemaErr) {
		result.add("", verr.Error())
		return result
	}
	for _, leaf := range leaves(schemaErr) {
		field := strings.TrimPrefix(leaf.InstanceLocation, "/")
		if idx := strings.IndexByte(field, '/'); idx >= 0 {
			field = field[:idx]
		}
		if field != "" {
			result.add(field, leaf.Message)
		}
	}
	rootIssues(desc, fields, full, result)
	if len(result.Fields) == 0 {
		result.add("", schemaErr.Message)
	}
	return result
}

// rootIssues attributes object-level failures (missing or undeclared
// properties) to the field they concern.
func rootIssues(desc *schema.Descriptor, fields map[string]any, full bool, result *FieldErrors) {
	if full {
		for _, f := range desc.Fields {
			if _, ok := fields[f.Name]; f.Required && !ok {
				result.add(f.Name, "is required")
			}
		}
	}
	for name := range fields {
		if _, ok := desc.Field(name); !ok {
			result.add(name, "is not a declared field")
		}
	}
}

func leaves(root *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(root.Causes) == 0 {
		return []*jsonschema.ValidationError{root}
	}
	var out []*jsonschema.ValidationError
	for _, cause := range root.Causes {
		out = append(out, leaves(cause)...)
	}
	return out
}

// normalise converts arbitrary Go values into the JSON data model.
func normalise(fields map[string]any) (any, error) {
	if fields == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("payload is not JSON encodable: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

var cache sync.Map

func compiled(doc map[string]any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	key := string(raw)
	if hit, ok := cache.Load(key); ok {
		return hit.(*jsonschema.Schema), nil
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	sch, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	actual, _ := cache.LoadOrStore(key, sch)
	return actual.(*jsonschema.Schema), nil
}
