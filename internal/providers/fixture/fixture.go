// Package fixture provides deterministic offline providers for local
// development, CLI dry runs and tests.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

const Name = "fixture"

// ErrInjected is returned for calls listed with FailOn.
var ErrInjected = errors.New("fixture: injected failure")

// SubjectPrefix marks the prompt line the fixture reads the subject from.
const SubjectPrefix = "Subject:"

type Option func(*config)

type config struct {
	failOn      map[int]bool
	failAll     bool
	placeholder string
}

// FailOn makes the listed calls (1-based) fail with ErrInjected.
func FailOn(calls ...int) Option {
	return func(c *config) {
		for _, n := range calls {
			c.failOn[n] = true
		}
	}
}

// FailAlways makes every call fail.
func FailAlways() Option {
	return func(c *config) { c.failAll = true }
}

// WithPlaceholderBase sets the image placeholder host.
func WithPlaceholderBase(base string) Option {
	return func(c *config) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			c.placeholder = base
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{failOn: map[int]bool{}, placeholder: "https://placehold.co/800x600"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

type counter struct {
	mu    sync.Mutex
	calls int
}

func (c *counter) next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.calls
}

// Calls reports how many calls have been made.
func (c *counter) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (cfg config) fails(n int) bool {
	return cfg.failAll || cfg.failOn[n]
}

// Structured fills every declared field from the prompt subject and the call
// number.
type Structured struct {
	counter
	cfg config
}

func NewStructured(opts ...Option) *Structured {
	return &Structured{cfg: newConfig(opts)}
}

var _ interfaces.StructuredContentProvider = (*Structured)(nil)

func (s *Structured) GenerateStructured(ctx context.Context, prompt string, descriptor interfaces.TypeDescriptor) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, interfaces.NewProviderError(Name, "generate_structured", err)
	}
	n := s.next()
	if s.cfg.fails(n) {
		return nil, interfaces.NewProviderError(Name, "generate_structured", fmt.Errorf("call %d: %w", n, ErrInjected))
	}
	subject := subjectFrom(prompt)
	out := map[string]any{}
	if descriptor == nil {
		out["title"] = fmt.Sprintf("%s %d", subject, n)
		return out, nil
	}

	props, _ := descriptor.JSONSchema()["properties"].(map[string]any)
	for _, name := range descriptor.FieldNames() {
		prop, _ := props[name].(map[string]any)
		if value, ok := fieldValue(name, prop, subject, n); ok {
			out[name] = value
		}
	}
	return out, nil
}

func fieldValue(name string, prop map[string]any, subject string, n int) (string, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "image") || lower == "file" || lower == "photo":
		return "", false
	case strings.Contains(lower, "url") || strings.Contains(lower, "website"):
		return fmt.Sprintf("https://example.com/%s-%d", slugOf(subject), n), true
	case prop["contentMediaType"] == "text/html":
		return fmt.Sprintf("**%s** %d\n\n- Generated offline for %q", subject, n, subject), true
	}
	label, _ := prop["title"].(string)
	if label == "" {
		label = name
	}
	return fmt.Sprintf("%s %d: %s", label, n, subject), true
}

// subjectFrom reads the "Subject:" line, falling back to the first line.
func subjectFrom(prompt string) string {
	lines := strings.Split(prompt, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, SubjectPrefix); ok {
			return strings.TrimSpace(rest)
		}
	}
	return strings.TrimSpace(lines[0])
}

func slugOf(text string) string {
	s, err := slug.Normalize(text)
	if err != nil || s == "" {
		return "item"
	}
	return s
}

// Images returns placeholder URLs derived from the prompt.
type Images struct {
	counter
	cfg config
}

func NewImages(opts ...Option) *Images {
	return &Images{cfg: newConfig(opts)}
}

var _ interfaces.ImageGenerator = (*Images)(nil)

func (g *Images) Generate(ctx context.Context, prompt string, _ map[string]any) (*interfaces.GeneratedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, interfaces.NewProviderError(Name, "generate_image", err)
	}
	n := g.next()
	if g.cfg.fails(n) {
		return nil, interfaces.NewProviderError(Name, "generate_image", fmt.Errorf("call %d: %w", n, ErrInjected))
	}
	text := url.QueryEscape(fmt.Sprintf("%s %d", subjectFrom(prompt), n))
	return &interfaces.GeneratedImage{
		URL:      fmt.Sprintf("%s?text=%s", g.cfg.placeholder, text),
		MIMEType: "image/png",
	}, nil
}
