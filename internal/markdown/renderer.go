// Package markdown renders rich text fields and reads markdown seed files.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options tunes the goldmark engine.
type Options struct {
	HardWraps bool
	// Safe drops raw HTML embedded in the markdown source.
	Safe bool
}

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
}

func NewRenderer(opts Options) *Renderer {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.Safe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}
	return &Renderer{
		engine: goldmark.New(
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(rendererOptions...),
			goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.TaskList),
		),
	}
}

func (r *Renderer) Render(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderString trims the trailing newline goldmark appends.
func (r *Renderer) RenderString(source string) (string, error) {
	out, err := r.Render([]byte(source))
	if err != nil {
		return "", err
	}
	return string(bytes.TrimRight(out, "\n")), nil
}

// RenderFields renders the named string fields in place. Non-string and
// missing values are left untouched.
func (r *Renderer) RenderFields(fields map[string]any, names []string) error {
	for _, name := range names {
		raw, ok := fields[name].(string)
		if !ok || raw == "" {
			continue
		}
		html, err := r.RenderString(raw)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		fields[name] = html
	}
	return nil
}
