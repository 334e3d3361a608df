// Package anthropic generates structured item payloads with Claude models.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/goliatone/go-cms-modules/internal/providers"
	"github.com/goliatone/go-cms-modules/internal/providers/jsonparse"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

const (
	Name             = "anthropic"
	DefaultModel     = "claude-sonnet-4-5"
	DefaultMaxTokens = 2048
)

var ErrAPIKeyRequired = errors.New("anthropic: api key required")

// messageCreator is the subset of the Messages service the provider calls.
type messageCreator interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Provider implements interfaces.StructuredContentProvider.
type Provider struct {
	messages  messageCreator
	model     string
	maxTokens int64
}

type Option func(*Provider)

func WithModel(model string) Option {
	return func(p *Provider) {
		if m := strings.TrimSpace(model); m != "" {
			p.model = m
		}
	}
}

func WithMaxTokens(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.maxTokens = int64(n)
		}
	}
}

// New builds a provider backed by the Anthropic Messages API.
func New(apiKey string, opts ...Option) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAPIKeyRequired
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return newProvider(&client.Messages, opts...), nil
}

func newProvider(messages messageCreator, opts ...Option) *Provider {
	p := &Provider{
		messages:  messages,
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ interfaces.StructuredContentProvider = (*Provider)(nil)

func (p *Provider) GenerateStructured(ctx context.Context, prompt string, descriptor interfaces.TypeDescriptor) (map[string]any, error) {
	resp, err := p.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(providers.StructuredInstructions(prompt, descriptor))),
		},
	})
	if err != nil {
		return nil, interfaces.NewProviderError(Name, "generate_structured", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	raw, err := jsonparse.Object(text.String())
	if err != nil {
		return nil, interfaces.NewProviderError(Name, "generate_structured", fmt.Errorf("decode response: %w", err))
	}
	return providers.KeepDeclared(raw, descriptor), nil
}
