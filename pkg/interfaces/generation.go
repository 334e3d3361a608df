package interfaces

import (
	"context"
	"errors"
	"fmt"
)

// ErrProvider is matched by every error returned through ProviderError.
var ErrProvider = errors.New("generative provider failed")

// TypeDescriptor describes the object shape a structured provider must return.
// Implementations expose a JSON schema plus enough metadata to build prompts.
type TypeDescriptor interface {
	TypeName() string
	JSONSchema() map[string]any
	FieldNames() []string
}

// StructuredContentProvider turns a natural-language prompt into an object
// matching the supplied descriptor.
type StructuredContentProvider interface {
	GenerateStructured(ctx context.Context, prompt string, descriptor TypeDescriptor) (map[string]any, error)
}

// GeneratedImage is the result of an image generation call. Providers return
// either a hosted URL or raw bytes that the caller persists.
type GeneratedImage struct {
	URL      string
	MIMEType string
	Data     []byte
}

// ImageGenerator produces an image for a prompt. Options are provider specific
// (size, aspect ratio, style).
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string, options map[string]any) (*GeneratedImage, error)
}

// ProviderError wraps failures raised by structured content or image providers.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return ErrProvider.Error()
	}
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Provider, e.Op, ErrProvider.Error())
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is(err, ErrProvider) match any ProviderError.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// NewProviderError builds a ProviderError, returning nil when err is nil.
func NewProviderError(provider, op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *ProviderError
	if errors.As(err, &existing) {
		return err
	}
	return &ProviderError{Provider: provider, Op: op, Err: err}
}
