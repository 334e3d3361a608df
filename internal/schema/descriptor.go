// Package schema describes the fields a module item carries.
package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrDescriptorInvalid = errors.New("schema: descriptor invalid")

// Kind controls how a field is validated, rendered, and generated.
type Kind string

const (
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	// KindRichText fields accept markdown and store rendered HTML.
	KindRichText Kind = "richtext"
	KindURL      Kind = "url"
	KindImage    Kind = "image"
)

func (k Kind) valid() bool {
	switch k {
	case KindText, KindTextarea, KindRichText, KindURL, KindImage:
		return true
	}
	return false
}

// Field is one named slot on an item.
type Field struct {
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	Kind        Kind   `json:"kind"`
	Required    bool   `json:"required,omitempty"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
	MaxLength   int    `json:"max_length,omitempty"`
}

// Descriptor is the field schema of one module type.
type Descriptor struct {
	Type       string  `json:"type"`
	Label      string  `json:"label,omitempty"`
	Fields     []Field `json:"fields"`
	ImageField string  `json:"image_field,omitempty"`
	// PromptHint is appended to generation prompts for this type.
	PromptHint string `json:"prompt_hint,omitempty"`
}

// TypeName identifies the descriptor to providers.
func (d *Descriptor) TypeName() string {
	if d == nil {
		return ""
	}
	return d.Type
}

// Field looks up a field by name.
func (d *Descriptor) Field(name string) (Field, bool) {
	if d == nil {
		return Field{}, false
	}
	idx := slices.IndexFunc(d.Fields, func(f Field) bool { return f.Name == name })
	if idx < 0 {
		return Field{}, false
	}
	return d.Fields[idx], true
}

// FieldNames returns field names in declaration order.
func (d *Descriptor) FieldNames() []string {
	if d == nil {
		return nil
	}
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldsOfKind returns the names of fields declared with kind.
func (d *Descriptor) FieldsOfKind(kind Kind) []string {
	if d == nil {
		return nil
	}
	var names []string
	for _, f := range d.Fields {
		if f.Kind == kind {
			names = append(names, f.Name)
		}
	}
	return names
}

// HasImageField reports whether generated items can receive an image.
func (d *Descriptor) HasImageField() bool {
	return d != nil && d.ImageField != ""
}

// Validate checks the descriptor is internally consistent.
func (d *Descriptor) Validate() error {
	if d == nil || strings.TrimSpace(d.Type) == "" {
		return fmt.Errorf("%w: type is required", ErrDescriptorInvalid)
	}
	if len(d.Fields) == 0 {
		return fmt.Errorf("%w: %s declares no fields", ErrDescriptorInvalid, d.Type)
	}
	seen := make(map[string]struct{}, len(d.Fields))
	for _, f := range d.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("%w: %s has a field without name", ErrDescriptorInvalid, d.Type)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: %s declares field %q twice", ErrDescriptorInvalid, d.Type, f.Name)
		}
		seen[f.Name] = struct{}{}
		if !f.Kind.valid() {
			return fmt.Errorf("%w: field %q has unknown kind %q", ErrDescriptorInvalid, f.Name, f.Kind)
		}
	}
	if d.ImageField != "" {
		f, ok := d.Field(d.ImageField)
		if !ok || f.Kind != KindImage {
			return fmt.Errorf("%w: image field %q must be a declared image field", ErrDescriptorInvalid, d.ImageField)
		}
	}
	return nil
}

// Clone returns a deep copy safe to hand to callers.
func (d *Descriptor) Clone() *Descriptor {
	if d == nil {
		return nil
	}
	out := *d
	out.Fields = slices.Clone(d.Fields)
	return &out
}
