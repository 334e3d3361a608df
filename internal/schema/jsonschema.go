package schema

import (
	"maps"
	"strings"
)

// JSONSchema renders the descriptor as a draft 2020-12 object schema.
func (d *Descriptor) JSONSchema() map[string]any {
	if d == nil {
		return nil
	}
	properties := make(map[string]any, len(d.Fields))
	required := make([]any, 0)
	for _, f := range d.Fields {
		properties[f.Name] = fieldSchema(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	out := map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"title":                d.Type,
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func fieldSchema(f Field) map[string]any {
	prop := map[string]any{"type": "string"}
	if f.Label != "" {
		prop["title"] = f.Label
	}
	if f.Description != "" {
		prop["description"] = f.Description
	}
	if f.MaxLength > 0 {
		prop["maxLength"] = f.MaxLength
	}
	// url and image stay plain strings: relative media paths are valid values.
	if f.Kind == KindRichText {
		prop["contentMediaType"] = "text/html"
	}
	if f.Required {
		prop["minLength"] = 1
	}
	return prop
}

// ApplyDefaults returns a copy of fields restricted to declared names with
// every absent or blank value replaced by the field default.
func (d *Descriptor) ApplyDefaults(fields map[string]any) map[string]any {
	out := make(map[string]any, len(d.Fields))
	for _, f := range d.Fields {
		value, ok := fields[f.Name]
		if ok && !blank(value) {
			out[f.Name] = value
			continue
		}
		if f.Default != nil {
			out[f.Name] = f.Default
		} else if ok {
			out[f.Name] = value
		}
	}
	return out
}

// Restrict drops keys that are not declared fields.
func (d *Descriptor) Restrict(fields map[string]any) map[string]any {
	out := maps.Clone(fields)
	maps.DeleteFunc(out, func(k string, _ any) bool {
		_, ok := d.Field(k)
		return !ok
	})
	return out
}

func blank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}
