package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-cms-modules/internal/logging"
	"github.com/goliatone/go-cms-modules/internal/logging/console"
)

func TestLoggerWritesSortedFields(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	provider := console.NewProvider(console.Options{
		Writer: &buf,
		Clock:  func() time.Time { return now },
	})

	ctx := logging.ContextWithFields(context.Background(), map[string]any{"request_id": "req-7"})
	logger := provider.GetLogger("cms.modules.items").
		WithFields(map[string]any{"module_type": "slider"}).
		WithContext(ctx)

	itemID := uuid.MustParse("0b7f38d4-7d2c-4b5e-9a53-6b7f6f2d7c10")
	logger.Info("items.created", "item_id", itemID, "position", 2)

	got := strings.TrimSpace(buf.String())
	want := "2025-06-02T09:30:00Z INFO items.created item_id=0b7f38d4-7d2c-4b5e-9a53-6b7f6f2d7c10 logger=cms.modules.items module_type=slider position=2 request_id=req-7"
	if got != want {
		t.Fatalf("unexpected entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestLoggerFiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	level := console.ParseLevel("warn")
	provider := console.NewProvider(console.Options{Writer: &buf, MinLevel: &level})

	logger := provider.GetLogger("cms.modules")
	logger.Info("skipped")
	logger.Warn("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "WARN kept") {
		t.Fatalf("expected only warn entry, got %q", buf.String())
	}
}

func TestLoggerQuotesValuesAndKeepsDanglingArgs(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	provider.GetLogger("cms.modules").Error("generation.failed", "error", errors.New("rate limited: 429"), "orphan")

	got := buf.String()
	if !strings.Contains(got, `error="rate limited: 429"`) {
		t.Fatalf("expected quoted error value, got %q", got)
	}
	if !strings.Contains(got, "arg_2=orphan") {
		t.Fatalf("expected dangling argument to be kept, got %q", got)
	}
}

func TestWithFieldsDoesNotLeakIntoParent(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	parent := provider.GetLogger("cms.modules")
	_ = parent.WithFields(map[string]any{"rel_id": "42"})
	parent.Info("parent")

	if strings.Contains(buf.String(), "rel_id") {
		t.Fatalf("expected parent logger to stay untouched, got %q", buf.String())
	}
}
