package catalog

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-modules/internal/runtimeconfig"
	"github.com/goliatone/go-cms-modules/internal/schema"
)

// FromConfig builds a descriptor from a configured module type.
func FromConfig(cfg runtimeconfig.ModuleTypeConfig) (*schema.Descriptor, error) {
	b := schema.New(cfg.Type).Label(cfg.Label).PromptHint(cfg.PromptHint)
	for _, f := range cfg.Fields {
		opts := []schema.FieldOption{}
		if f.Required {
			opts = append(opts, schema.Required())
		}
		if f.Default != nil {
			opts = append(opts, schema.Default(f.Default))
		}
		if f.Label != "" {
			opts = append(opts, schema.Labelled(f.Label))
		}
		if f.Description != "" {
			opts = append(opts, schema.Describe(f.Description))
		}
		if f.MaxLength > 0 {
			opts = append(opts, schema.MaxLength(f.MaxLength))
		}

		switch schema.Kind(strings.ToLower(strings.TrimSpace(f.Kind))) {
		case "", schema.KindText:
			b.Text(f.Name, opts...)
		case schema.KindTextarea:
			b.Textarea(f.Name, opts...)
		case schema.KindRichText:
			b.RichText(f.Name, opts...)
		case schema.KindURL:
			b.URL(f.Name, opts...)
		case schema.KindImage:
			b.Image(f.Name, opts...)
		default:
			return nil, fmt.Errorf("%w: %s.%s kind %q", schema.ErrDescriptorInvalid, cfg.Type, f.Name, f.Kind)
		}
	}
	return b.Build()
}

// Load registers configured module types. A configured type with the name
// of a built-in replaces it.
func Load(r *Registry, types []runtimeconfig.ModuleTypeConfig) error {
	for _, cfg := range types {
		desc, err := FromConfig(cfg)
		if err != nil {
			return err
		}
		if err := r.Replace(desc); err != nil {
			return err
		}
	}
	return nil
}
