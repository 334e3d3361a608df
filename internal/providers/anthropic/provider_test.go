package anthropic

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-cms-modules/internal/schema"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

type fakeMessages struct {
	params anthropic.MessageNewParams
	reply  string
	err    error
}

func (f *fakeMessages) New(_ context.Context, params anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.Message{Content: []anthropic.ContentBlockUnion{{Type: "text", Text: f.reply}}}, nil
}

func tabs() *schema.Descriptor {
	return schema.New("tabs").Text("title", schema.Required()).RichText("content").MustBuild()
}

func TestGenerateStructuredParsesFencedReply(t *testing.T) {
	fake := &fakeMessages{reply: "```json\n{\"title\": \"Pricing\", \"content\": \"**Plans**\", \"extra\": \"x\"}\n```"}
	p := newProvider(fake, WithModel("claude-test"), WithMaxTokens(512))

	got, err := p.GenerateStructured(context.Background(), "Write a tab about pricing", tabs())
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"title": "Pricing", "content": "**Plans**"}, got)
	assert.Equal(t, anthropic.Model("claude-test"), fake.params.Model)
	assert.Equal(t, int64(512), fake.params.MaxTokens)
	require.Len(t, fake.params.Messages, 1)
}

func TestGenerateStructuredWrapsErrors(t *testing.T) {
	p := newProvider(&fakeMessages{err: errors.New("529 overloaded")})
	_, err := p.GenerateStructured(context.Background(), "prompt", tabs())
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrProvider))

	var perr *interfaces.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, Name, perr.Provider)

	p = newProvider(&fakeMessages{reply: "I cannot help with that."})
	_, err = p.GenerateStructured(context.Background(), "prompt", tabs())
	assert.True(t, errors.Is(err, interfaces.ErrProvider))
	assert.True(t, strings.Contains(err.Error(), "decode response"))
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(" ")
	assert.ErrorIs(t, err, ErrAPIKeyRequired)
}
