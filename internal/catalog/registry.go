// Package catalog keeps the set of module types the engine can serve.
package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-cms-modules/internal/schema"
)

var (
	ErrTypeUnknown    = errors.New("catalog: module type unknown")
	ErrTypeRegistered = errors.New("catalog: module type already registered")
)

// Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*schema.Descriptor
}

func NewRegistry() *Registry {
	return &Registry{types: map[string]*schema.Descriptor{}}
}

// NewDefaultRegistry returns a registry preloaded with the built-in types.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, desc := range Builtin() {
		if err := r.Register(desc); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a descriptor. Type names are normalised to slugs so
// "Team Card" and "team-card" collide.
func (r *Registry) Register(desc *schema.Descriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	name, err := TypeKey(desc.Type)
	if err != nil {
		return err
	}
	stored := desc.Clone()
	stored.Type = name

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[name]; exists {
		return fmt.Errorf("%w: %s", ErrTypeRegistered, name)
	}
	r.types[name] = stored
	return nil
}

// Replace registers desc, overwriting any existing type with the same name.
func (r *Registry) Replace(desc *schema.Descriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	name, err := TypeKey(desc.Type)
	if err != nil {
		return err
	}
	stored := desc.Clone()
	stored.Type = name
	r.mu.Lock()
	r.types[name] = stored
	r.mu.Unlock()
	return nil
}

func (r *Registry) Get(moduleType string) (*schema.Descriptor, error) {
	name, err := TypeKey(moduleType)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTypeUnknown, moduleType)
	}
	r.mu.RLock()
	desc, ok := r.types[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTypeUnknown, moduleType)
	}
	return desc.Clone(), nil
}

// List returns descriptors sorted by type name.
func (r *Registry) List() []*schema.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*schema.Descriptor, 0, len(r.types))
	for _, name := range slices.Sorted(maps.Keys(r.types)) {
		out = append(out, r.types[name].Clone())
	}
	return out
}

// TypeKey normalises a module type name to its slug form.
func TypeKey(value string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty type", ErrTypeUnknown)
	}
	if slug.IsValid(trimmed) {
		return trimmed, nil
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil || normalized == "" {
		return "", fmt.Errorf("%w: %q", ErrTypeUnknown, value)
	}
	return normalized, nil
}
