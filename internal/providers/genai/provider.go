// Package genai adapts Google's Gemini and Imagen models to the generation
// provider contracts.
package genai

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"google.golang.org/genai"

	"github.com/goliatone/go-cms-modules/internal/media"
	"github.com/goliatone/go-cms-modules/internal/providers"
	"github.com/goliatone/go-cms-modules/internal/providers/jsonparse"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

const (
	Name              = "genai"
	DefaultModel      = "gemini-2.5-flash"
	DefaultImageModel = "imagen-4.0-generate-001"
)

var (
	ErrAPIKeyRequired = errors.New("genai: api key required")
	ErrNoImage        = errors.New("genai: no image returned")
	ErrStoreRequired  = errors.New("genai: media store required for image generation")
)

// models is the subset of *genai.Models the adapters call.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// NewClient creates the shared Gemini API client.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAPIKeyRequired
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("genai: create client: %w", err)
	}
	return client, nil
}

// ContentProvider implements interfaces.StructuredContentProvider using JSON
// mode with a response schema.
type ContentProvider struct {
	models models
	model  string
}

func NewContentProvider(client *genai.Client, model string) *ContentProvider {
	return newContentProvider(client.Models, model)
}

func newContentProvider(m models, model string) *ContentProvider {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &ContentProvider{models: m, model: model}
}

var _ interfaces.StructuredContentProvider = (*ContentProvider)(nil)

func (p *ContentProvider) GenerateStructured(ctx context.Context, prompt string, descriptor interfaces.TypeDescriptor) (map[string]any, error) {
	config := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	if descriptor != nil {
		config.ResponseSchema = responseSchema(descriptor)
	}
	resp, err := p.models.GenerateContent(ctx, p.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		config,
	)
	if err != nil {
		return nil, interfaces.NewProviderError(Name, "generate_structured", err)
	}
	raw, err := jsonparse.Object(resp.Text())
	if err != nil {
		return nil, interfaces.NewProviderError(Name, "generate_structured", fmt.Errorf("decode response: %w", err))
	}
	return providers.KeepDeclared(raw, descriptor), nil
}

// responseSchema maps the descriptor to the OpenAPI subset Gemini accepts.
// Every item field is a string.
func responseSchema(descriptor interfaces.TypeDescriptor) *genai.Schema {
	out := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: map[string]*genai.Schema{},
	}
	doc := descriptor.JSONSchema()
	props, _ := doc["properties"].(map[string]any)
	for _, name := range descriptor.FieldNames() {
		field := &genai.Schema{Type: genai.TypeString}
		if prop, ok := props[name].(map[string]any); ok {
			if desc, ok := prop["description"].(string); ok {
				field.Description = desc
			}
		}
		out.Properties[name] = field
		out.PropertyOrdering = append(out.PropertyOrdering, name)
	}
	if required, ok := doc["required"].([]any); ok {
		for _, r := range required {
			if name, ok := r.(string); ok {
				out.Required = append(out.Required, name)
			}
		}
	}
	slices.Sort(out.Required)
	return out
}

// ImageGenerator implements interfaces.ImageGenerator. Imagen returns raw
// bytes, so images are persisted through a media.Store to obtain a URL.
type ImageGenerator struct {
	models models
	model  string
	store  media.Store
}

func NewImageGenerator(client *genai.Client, model string, store media.Store) *ImageGenerator {
	return newImageGenerator(client.Models, model, store)
}

func newImageGenerator(m models, model string, store media.Store) *ImageGenerator {
	if strings.TrimSpace(model) == "" {
		model = DefaultImageModel
	}
	return &ImageGenerator{models: m, model: model, store: store}
}

var _ interfaces.ImageGenerator = (*ImageGenerator)(nil)

// Generate honours the "aspect_ratio" and "name" options. "name" seeds the
// stored filename.
func (g *ImageGenerator) Generate(ctx context.Context, prompt string, options map[string]any) (*interfaces.GeneratedImage, error) {
	if g.store == nil {
		return nil, interfaces.NewProviderError(Name, "generate_image", ErrStoreRequired)
	}
	config := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/png",
	}
	if ratio, ok := options["aspect_ratio"].(string); ok && ratio != "" {
		config.AspectRatio = ratio
	}
	resp, err := g.models.GenerateImages(ctx, g.model, prompt, config)
	if err != nil {
		return nil, interfaces.NewProviderError(Name, "generate_image", err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, interfaces.NewProviderError(Name, "generate_image", ErrNoImage)
	}
	image := resp.GeneratedImages[0].Image
	mimeType := image.MIMEType
	if mimeType == "" {
		mimeType = config.OutputMIMEType
	}

	name, _ := options["name"].(string)
	asset, err := g.store.Save(ctx, media.SaveInput{Name: name, MIMEType: mimeType, Data: image.ImageBytes})
	if err != nil {
		return nil, interfaces.NewProviderError(Name, "store_image", err)
	}
	return &interfaces.GeneratedImage{URL: asset.URL, MIMEType: mimeType, Data: image.ImageBytes}, nil
}
