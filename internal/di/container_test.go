package di_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-cms-modules/internal/catalog"
	"github.com/goliatone/go-cms-modules/internal/di"
	ditesting "github.com/goliatone/go-cms-modules/internal/di/testing"
	"github.com/goliatone/go-cms-modules/internal/items"
	"github.com/goliatone/go-cms-modules/internal/providers/fixture"
	"github.com/goliatone/go-cms-modules/internal/providers/ratelimit"
	"github.com/goliatone/go-cms-modules/internal/relation"
	"github.com/goliatone/go-cms-modules/internal/runtimeconfig"
	"github.com/goliatone/go-cms-modules/internal/table"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

func TestContainerDefaultsToMemoryAndFixtureProvider(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.DB() != nil {
		t.Fatal("memory storage should not open a database")
	}
	if _, ok := container.StructuredProvider().(*fixture.Structured); !ok {
		t.Fatalf("expected fixture provider, got %T", container.StructuredProvider())
	}
	if container.ImageGenerator() != nil {
		t.Fatalf("images are disabled by default, got %T", container.ImageGenerator())
	}
	if container.GenerationService() == nil || container.Handlers() == nil ||
		container.Tables() == nil || container.AdminAPI() == nil || container.Importer() == nil {
		t.Fatal("expected every service to be wired")
	}
	if got := len(container.Registry().List()); got != 6 {
		t.Fatalf("expected 6 built-in module types, got %d", got)
	}
}

func TestContainerWrapsRemoteProvidersWithRateLimit(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Generation.Provider = "anthropic"
	cfg.Generation.APIKey = "sk-test"

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, ok := container.StructuredProvider().(*ratelimit.StructuredProvider); !ok {
		t.Fatalf("expected rate limited provider, got %T", container.StructuredProvider())
	}
}

func TestContainerGenerationDisabled(t *testing.T) {
	h := ditesting.New(t, func(cfg *runtimeconfig.Config) {
		cfg.Features.Generation = false
		cfg.Features.Images = false
	})
	if h.Container.GenerationService() != nil {
		t.Fatal("expected no generation service when the feature is off")
	}

	tbl, err := h.Container.Tables().For(catalog.TypeSlider, relation.Post("42"))
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	res, err := tbl.CreateWithAI(context.Background(), table.GenerateInput{Subject: "Coffee", Count: 2})
	if err != nil {
		t.Fatalf("CreateWithAI: %v", err)
	}
	if res.Outcome != table.OutcomeDisabled {
		t.Fatalf("expected disabled outcome, got %s", res.Outcome)
	}
	if h.Structured.Calls() != 0 {
		t.Fatalf("provider must not be called, got %d calls", h.Structured.Calls())
	}
}

func TestContainerRegistersConfiguredModuleTypes(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.ModuleTypes = []runtimeconfig.ModuleTypeConfig{{
		Type: "faq",
		Fields: []runtimeconfig.ModuleFieldConfig{
			{Name: "question", Required: true, Default: "Question"},
			{Name: "answer", Kind: "richtext"},
		},
	}}
	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	created, err := container.ItemService().Create(context.Background(), items.CreateItemInput{
		Scope:  items.NewScope("faq", relation.Page("1")),
		Fields: map[string]any{"question": "Do you ship abroad?"},
	})
	if err != nil {
		t.Fatalf("create faq item: %v", err)
	}
	if created.Position != 0 {
		t.Fatalf("expected first position, got %d", created.Position)
	}
}

func TestContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Generation.MaxCount = 50
	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrGenerationMaxCount) {
		t.Fatalf("expected ErrGenerationMaxCount, got %v", err)
	}
}

func TestContainerEndToEndGenerationWithImages(t *testing.T) {
	h := ditesting.New(t, nil, fixture.FailOn(2))
	ctx := context.Background()

	tbl, err := h.Container.Tables().For(catalog.TypeSlider, relation.Post("42"))
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	res, err := tbl.CreateWithAI(ctx, table.GenerateInput{Subject: "Mountain cabins", Count: 3, WithImages: true})
	if err != nil {
		t.Fatalf("CreateWithAI: %v", err)
	}
	if res.Report == nil || len(res.Report.Created) != 2 || res.Report.Failed != 1 {
		t.Fatalf("unexpected report %+v", res.Report)
	}

	list, err := h.Container.ItemService().List(ctx, items.NewScope(catalog.TypeSlider, relation.Post("42")))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Position != 0 || list[1].Position != 1 {
		t.Fatalf("expected two contiguous items, got %+v", list)
	}
	if url, _ := list[0].Fields["image"].(string); url == "" {
		t.Fatalf("expected placeholder image url, got %v", list[0].Fields["image"])
	}

	last, ok := h.Notifications.Last()
	if !ok || last.Severity != interfaces.SeveritySuccess {
		t.Fatalf("expected success notice, got %+v", last)
	}
}

type htmlProvider struct{}

func (htmlProvider) GenerateStructured(context.Context, string, interfaces.TypeDescriptor) (map[string]any, error) {
	return map[string]any{"title": "FAQ", "content": "Hello <script>alert(1)</script>"}, nil
}

func TestContainerGenerationDropsRawHTML(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig(), di.WithStructuredProvider(htmlProvider{}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	tbl, err := container.Tables().For(catalog.TypeAccordion, relation.Page("faq"))
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	res, err := tbl.CreateWithAI(context.Background(), table.GenerateInput{Subject: "Shipping", Count: 1})
	if err != nil || res.Count != 1 {
		t.Fatalf("CreateWithAI: %+v, %v", res, err)
	}
	content, _ := res.Items[0].Fields["content"].(string)
	if strings.Contains(content, "<script>") {
		t.Fatalf("expected raw html dropped from generated content, got %q", content)
	}
}
