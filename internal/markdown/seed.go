package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

// Seed is one item described by a markdown file: frontmatter keys become
// fields and the body fills the type's first rich text field.
type Seed struct {
	Fields map[string]any
	Body   string
	// Locales holds per-locale overrides from a "translations" frontmatter map.
	Locales map[string]map[string]any
}

type seedEnvelope struct {
	Translations map[string]map[string]any `yaml:"translations"`
	Fields       map[string]any            `yaml:",inline"`
}

// ParseSeed reads a seed file. A file without frontmatter yields only a body.
func ParseSeed(source []byte) (*Seed, error) {
	var env seedEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &env)
	if err != nil {
		return nil, fmt.Errorf("parse seed frontmatter: %w", err)
	}
	seed := &Seed{
		Fields:  make(map[string]any, len(env.Fields)),
		Body:    strings.TrimSpace(string(body)),
		Locales: env.Translations,
	}
	for k, v := range env.Fields {
		seed.Fields[k] = scalar(v)
	}
	return seed, nil
}

// scalar flattens YAML values into the string form item fields use.
func scalar(v any) any {
	switch typed := v.(type) {
	case nil, string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(typed)
	}
}
