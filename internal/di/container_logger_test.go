package di_test

import (
	"context"
	"maps"
	"testing"

	"github.com/goliatone/go-cms-modules/internal/di"
	"github.com/goliatone/go-cms-modules/internal/items"
	"github.com/goliatone/go-cms-modules/internal/logging"
	"github.com/goliatone/go-cms-modules/internal/relation"
	"github.com/goliatone/go-cms-modules/internal/runtimeconfig"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

func TestContainerLogsGenerationWiring(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Features.Images = true
	cfg.Generation.ImageProvider = "fixture"

	rec := newRecordingProvider()

	if _, err := di.NewContainer(cfg, di.WithLoggerProvider(rec)); err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	entry := rec.find("generation.configured")
	if entry == nil {
		t.Fatalf("expected generation.configured log entry, got %#v", rec.entries)
	}
	if got := entry.fields["provider"]; got != "fixture" {
		t.Fatalf("expected provider field to be fixture, got %v", got)
	}
	if got := entry.fields["images"]; got != true {
		t.Fatalf("expected images field to be true, got %v", got)
	}
	if got := entry.fields["module"]; got != "cms.modules" {
		t.Fatalf("expected module field to be cms.modules, got %v", got)
	}
}

func TestContainerItemLogsCarryScope(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	rec := newRecordingProvider()

	c, err := di.NewContainer(cfg, di.WithLoggerProvider(rec))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	scope := items.NewScope("accordion", relation.Page("9"))
	if _, err := c.ItemService().Create(context.Background(), items.CreateItemInput{
		Scope:  scope,
		Fields: map[string]any{"title": "Shipping"},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	entry := rec.find("items.create.success")
	if entry == nil {
		t.Fatalf("expected items.create.success entry, got %#v", rec.entries)
	}
	if entry.fields["module"] != "cms.modules.items" || entry.fields["rel_id"] != "9" {
		t.Fatalf("unexpected fields %#v", entry.fields)
	}
}

func TestContainerLogsRejectedCommandsAsWarnings(t *testing.T) {
	rec := newRecordingProvider()
	c, err := di.NewContainer(runtimeconfig.DefaultConfig(), di.WithLoggerProvider(rec))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	tbl, err := c.Tables().For("slider", relation.Post("42"))
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	res, err := tbl.Create(context.Background(), map[string]any{"title": ""})
	if err != nil || res.OK() {
		t.Fatalf("expected invalid result, got %+v (%v)", res, err)
	}

	entry := rec.find("command.execute.rejected")
	if entry == nil {
		t.Fatalf("expected command.execute.rejected entry, got %#v", rec.entries)
	}
	if entry.level != "WARN" || entry.fields["command_family"] != "items" {
		t.Fatalf("unexpected rejected entry %#v", entry)
	}
	if rec.find("command.execute.failed") != nil {
		t.Fatalf("validation failures must not be logged as command failures")
	}
}

// recordingProvider keeps every entry written through its loggers.
type recordingProvider struct {
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{}
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return &recordingLogger{provider: p, fields: map[string]any{"logger": name}}
}

func (p *recordingProvider) find(msg string) *recordedEntry {
	for i := range p.entries {
		if p.entries[i].msg == msg {
			return &p.entries[i]
		}
	}
	return nil
}

type recordingLogger struct {
	provider *recordingProvider
	fields   map[string]any
}

var _ interfaces.Logger = (*recordingLogger)(nil)

func (l *recordingLogger) Trace(msg string, args ...any) { l.log("TRACE", msg, args) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.log("FATAL", msg, args) }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := maps.Clone(l.fields)
	maps.Copy(merged, fields)
	return &recordingLogger{provider: l.provider, fields: merged}
}

func (l *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	return l.WithFields(logging.ContextFields(ctx))
}

func (l *recordingLogger) log(level, msg string, args []any) {
	fields := maps.Clone(l.fields)
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok && key != "" {
			fields[key] = args[i+1]
		}
	}
	l.provider.entries = append(l.provider.entries, recordedEntry{level: level, msg: msg, fields: fields})
}
