// Package generation populates item lists from a natural-language subject
// using a structured content provider and, optionally, an image generator.
package generation

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-cms-modules/internal/items"
	"github.com/goliatone/go-cms-modules/internal/logging"
	"github.com/goliatone/go-cms-modules/internal/markdown"
	"github.com/goliatone/go-cms-modules/internal/notifications"
	"github.com/goliatone/go-cms-modules/internal/schema"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

// HardMaxCount is the ceiling no configuration can raise.
const HardMaxCount = 10

// Request asks for Count generated items on Scope.
type Request struct {
	Scope      items.Scope
	Subject    string
	Count      int
	WithImages bool
	// Locale optionally asks the provider to write in a given language.
	Locale string
}

// Report summarises a batch. Provider failures never surface as errors;
// they are counted here.
type Report struct {
	Requested   int              `json:"requested"`
	Created     []*items.Item    `json:"created"`
	Failed      int              `json:"failed"`
	Errors      []IterationError `json:"-"`
	ImageErrors []IterationError `json:"-"`
	// Cancelled is set when the context ended the batch early.
	Cancelled bool `json:"cancelled,omitempty"`
}

// Succeeded returns the number of persisted items.
func (r *Report) Succeeded() int {
	if r == nil {
		return 0
	}
	return len(r.Created)
}

// Service runs generative population batches.
type Service interface {
	Generate(ctx context.Context, req Request) (*Report, error)
	MaxCount() int
}

type Option func(*service)

func WithImageGenerator(generator interfaces.ImageGenerator) Option {
	return func(s *service) { s.images = generator }
}

func WithNotifier(notifier interfaces.Notifier) Option {
	return func(s *service) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxCount lowers the per-request bound. Values outside 1..HardMaxCount
// fall back to HardMaxCount.
func WithMaxCount(n int) Option {
	return func(s *service) {
		if n >= 1 && n <= HardMaxCount {
			s.maxCount = n
		}
	}
}

func WithRenderer(renderer *markdown.Renderer) Option {
	return func(s *service) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithImageOptions sets provider specific options passed on every image call.
func WithImageOptions(options map[string]any) Option {
	return func(s *service) { s.imageOptions = options }
}

type service struct {
	items        items.Service
	descriptors  items.DescriptorSource
	structured   interfaces.StructuredContentProvider
	images       interfaces.ImageGenerator
	notifier     interfaces.Notifier
	renderer     *markdown.Renderer
	logger       interfaces.Logger
	maxCount     int
	imageOptions map[string]any
}

func NewService(itemService items.Service, descriptors items.DescriptorSource, structured interfaces.StructuredContentProvider, opts ...Option) Service {
	s := &service{
		items:       itemService,
		descriptors: descriptors,
		structured:  structured,
		notifier:    notifications.Discard(),
		renderer:    markdown.NewRenderer(markdown.Options{Safe: true}),
		logger:      logging.NoOp(),
		maxCount:    HardMaxCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) MaxCount() int { return s.maxCount }

// Generate runs the batch sequentially. Request errors are returned before
// any provider call. Once the loop starts only context cancellation ends it
// early; the report built so far is returned together with the context error.
func (s *service) Generate(ctx context.Context, req Request) (*Report, error) {
	desc, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	req.Subject = strings.TrimSpace(req.Subject)
	logger := logging.WithScope(s.logger, desc.Type, string(req.Scope.Key.Kind), req.Scope.Key.ID)
	logger.Info("generation.batch.start", "count", req.Count, "with_images", req.WithImages)

	report := &Report{Requested: req.Count, Created: []*items.Item{}}
	for i := 1; i <= req.Count; i++ {
		if err := ctx.Err(); err != nil {
			report.Failed = req.Count - report.Succeeded()
			report.Cancelled = true
			logger.Warn("generation.batch.cancelled", "completed", i-1, "error", err)
			s.notifier.Notify(context.WithoutCancel(ctx), Notice(report))
			return report, err
		}
		item, iterErr := s.iteration(ctx, desc, req, i)
		if iterErr != nil {
			report.Failed++
			report.Errors = append(report.Errors, *iterErr)
			logger.Warn("generation.iteration.failed", "index", i, "stage", iterErr.Stage, "error", iterErr.Err)
			continue
		}
		if req.WithImages && desc.HasImageField() {
			updated, imgErr := s.attachImage(ctx, desc, req, item, i)
			if imgErr != nil {
				report.ImageErrors = append(report.ImageErrors, *imgErr)
				logger.Warn("generation.image.failed", "index", i, "item_id", item.ID, "error", imgErr.Err)
			} else if updated != nil {
				item = updated
			}
		}
		report.Created = append(report.Created, item)
	}

	logger.Info("generation.batch.completed", "created", report.Succeeded(), "failed", report.Failed)
	s.notifier.Notify(ctx, Notice(report))
	return report, nil
}

func (s *service) validate(req Request) (*schema.Descriptor, error) {
	if strings.TrimSpace(req.Subject) == "" {
		return nil, ErrSubjectRequired
	}
	if req.Count < 1 || req.Count > s.maxCount {
		return nil, fmt.Errorf("%w: %d not in 1..%d", ErrCountOutOfRange, req.Count, s.maxCount)
	}
	if err := req.Scope.Validate(); err != nil {
		return nil, err
	}
	if s.structured == nil {
		return nil, ErrProviderRequired
	}
	return s.descriptors.Get(req.Scope.ModuleType)
}

func (s *service) iteration(ctx context.Context, desc *schema.Descriptor, req Request, index int) (*items.Item, *IterationError) {
	prompt, err := renderPrompt(desc, req, index)
	if err != nil {
		return nil, &IterationError{Index: index, Stage: StageGenerate, Err: err}
	}
	structured, err := s.structured.GenerateStructured(ctx, prompt, desc)
	if err != nil {
		return nil, &IterationError{Index: index, Stage: StageGenerate, Err: err}
	}

	fields := desc.ApplyDefaults(clampLengths(desc, structured))
	if imageField := desc.ImageField; imageField != "" {
		if v, ok := fields[imageField].(string); ok && !isURL(v) {
			delete(fields, imageField)
		}
	}
	if err := s.renderer.RenderFields(fields, desc.FieldsOfKind(schema.KindRichText)); err != nil {
		return nil, &IterationError{Index: index, Stage: StageGenerate, Err: err}
	}

	item, err := s.items.Create(ctx, items.CreateItemInput{Scope: req.Scope, Fields: fields})
	if err != nil {
		return nil, &IterationError{Index: index, Stage: StageCreate, Err: err}
	}
	return item, nil
}

// attachImage never fails the iteration; errors are reported to the caller
// for logging only.
func (s *service) attachImage(ctx context.Context, desc *schema.Descriptor, req Request, item *items.Item, index int) (*items.Item, *IterationError) {
	if s.images == nil {
		return nil, nil
	}
	options := map[string]any{}
	for k, v := range s.imageOptions {
		options[k] = v
	}
	if _, ok := options["name"]; !ok {
		options["name"] = headline(desc, item.Fields)
	}

	image, err := s.images.Generate(ctx, renderImagePrompt(desc, req.Subject, item.Fields), options)
	if err != nil {
		return nil, &IterationError{Index: index, Stage: StageImage, Err: err}
	}
	if image == nil || strings.TrimSpace(image.URL) == "" {
		return nil, nil
	}
	updated, err := s.items.Update(ctx, items.UpdateItemInput{
		Scope:  req.Scope,
		ID:     item.ID,
		Fields: map[string]any{desc.ImageField: image.URL},
	})
	if err != nil {
		return nil, &IterationError{Index: index, Stage: StageImage, Err: err}
	}
	return updated, nil
}

// clampLengths cuts provider strings down to the field's MaxLength so an
// overlong headline does not cost the whole item. Values that are empty after
// trimming are dropped and fall back to the field default.
func clampLengths(desc *schema.Descriptor, fields map[string]any) map[string]any {
	for _, field := range desc.Fields {
		if field.MaxLength <= 0 {
			continue
		}
		v, ok := fields[field.Name].(string)
		if !ok || utf8.RuneCountInString(v) <= field.MaxLength {
			continue
		}
		cut := strings.TrimSpace(string([]rune(v)[:field.MaxLength]))
		if cut == "" {
			delete(fields, field.Name)
			continue
		}
		fields[field.Name] = cut
	}
	return fields
}

// isURL accepts absolute http(s) URLs and root-relative paths.
func isURL(v string) bool {
	v = strings.TrimSpace(v)
	return strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") || strings.HasPrefix(v, "/")
}

// Notice builds the admin notification for a finished batch.
func Notice(report *Report) interfaces.Notification {
	created := report.Succeeded()
	if report.Cancelled {
		return interfaces.Notification{
			Title:    "Generation stopped",
			Body:     fmt.Sprintf("%d of %d %s created before the request was cancelled.", created, report.Requested, plural(report.Requested, "item", "items")),
			Severity: interfaces.SeverityWarning,
		}
	}
	if created == 0 {
		return interfaces.Notification{
			Title:    "Generation failed",
			Body:     fmt.Sprintf("None of the %d requested items could be generated.", report.Requested),
			Severity: interfaces.SeverityDanger,
		}
	}
	n := interfaces.Notification{
		Title:    fmt.Sprintf("%d %s generated", created, plural(created, "item", "items")),
		Severity: interfaces.SeveritySuccess,
	}
	if report.Failed > 0 {
		n.Body = fmt.Sprintf("%d of %d %s could not be generated.", report.Failed, report.Requested, plural(report.Requested, "item", "items"))
	}
	return n
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
