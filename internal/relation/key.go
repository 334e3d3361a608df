// Package relation identifies the parent entity a list of module items hangs off.
package relation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrKindUnknown = errors.New("relation: unknown kind")
	ErrIDRequired  = errors.New("relation: id is required")
)

// Kind names the type of parent entity.
type Kind string

const (
	KindPage   Kind = "page"
	KindPost   Kind = "post"
	KindModule Kind = "module"
)

// Kinds lists the supported relation kinds.
func Kinds() []Kind {
	return []Kind{KindPage, KindPost, KindModule}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPage, KindPost, KindModule:
		return true
	}
	return false
}

// Key points at a single parent entity. The ID is opaque to this package.
type Key struct {
	Kind Kind
	ID   string
}

func Page(id string) Key   { return Key{Kind: KindPage, ID: strings.TrimSpace(id)} }
func Post(id string) Key   { return Key{Kind: KindPost, ID: strings.TrimSpace(id)} }
func Module(id string) Key { return Key{Kind: KindModule, ID: strings.TrimSpace(id)} }

// Parse builds and validates a key from its transport form.
func Parse(relType, relID string) (Key, error) {
	key := Key{
		Kind: Kind(strings.ToLower(strings.TrimSpace(relType))),
		ID:   strings.TrimSpace(relID),
	}
	if err := key.Validate(); err != nil {
		return Key{}, err
	}
	return key, nil
}

// ParseString accepts the "kind:id" form produced by String.
func ParseString(value string) (Key, error) {
	kind, id, ok := strings.Cut(value, ":")
	if !ok {
		return Key{}, fmt.Errorf("%w: %q", ErrKindUnknown, value)
	}
	return Parse(kind, id)
}

// Validate checks the kind is known and the id is present.
func (k Key) Validate() error {
	if !k.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrKindUnknown, string(k.Kind))
	}
	if strings.TrimSpace(k.ID) == "" {
		return ErrIDRequired
	}
	return nil
}

func (k Key) IsZero() bool {
	return k.Kind == "" && k.ID == ""
}

func (k Key) String() string {
	return string(k.Kind) + ":" + k.ID
}
