package commands

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-cms-modules/internal/items"
)

// appendCommand stands in for an append racing another writer on the same list.
type appendCommand struct {
	Scope string
}

func (appendCommand) Type() string { return "cms.modules.test.append" }

func (appendCommand) Validate() error { return nil }

type purgeCommand struct {
	Scope string
}

func (purgeCommand) Type() string { return "cms.modules.test.purge" }

func (purgeCommand) Validate() error { return nil }

func TestDispatcherRetriesPositionConflicts(t *testing.T) {
	var attempts int
	var telemetry []TelemetryStatus
	handler := NewHandler(func(ctx context.Context, msg appendCommand) error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("%w: %s position 3", items.ErrPositionConflict, msg.Scope)
		}
		return nil
	},
		WithTimeout[appendCommand](time.Second),
		WithTelemetry(func(_ context.Context, _ appendCommand, info TelemetryInfo) {
			telemetry = append(telemetry, info.Status)
		}),
	)

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), appendCommand{Scope: "slider/post:42"}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	if len(telemetry) != 2 || telemetry[0] != TelemetryStatusFailed || telemetry[1] != TelemetryStatusSuccess {
		t.Fatalf("unexpected telemetry sequence %v", telemetry)
	}
}

func TestDispatcherSurfacesErrorAfterRetries(t *testing.T) {
	var attempts int
	handler := NewHandler(func(ctx context.Context, msg purgeCommand) error {
		attempts++
		return fmt.Errorf("purge %s: storage offline", msg.Scope)
	}, WithTimeout[purgeCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), purgeCommand{Scope: "tabs/page:home"}); err == nil {
		t.Fatal("expected dispatcher to return error after exhausting retries")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}
