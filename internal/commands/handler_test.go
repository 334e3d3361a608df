package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-modules/internal/items"
)

type testMessage struct{}

func (testMessage) Type() string { return "cms.modules.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "cms.modules.test.invalid" }

func (invalidMessage) Validate() error {
	return validationError()
}

func validationError() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

func TestRunReturnsValueAndPreservesSourceError(t *testing.T) {
	got, err := Run(context.Background(), testMessage{}, func(ctx context.Context, msg testMessage) (int, error) {
		return 7, nil
	})
	if err != nil || got != 7 {
		t.Fatalf("expected 7, nil; got %d, %v", got, err)
	}

	sentinel := errors.New("not found")
	got, err = Run(context.Background(), testMessage{}, func(ctx context.Context, msg testMessage) (int, error) {
		return 3, sentinel
	})
	if got != 3 {
		t.Fatalf("expected partial value on failure, got %d", got)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped error to match source, got %v", err)
	}
}

func TestTelemetryReceivesOutcome(t *testing.T) {
	var infos []TelemetryInfo
	telemetry := func(_ context.Context, _ testMessage, info TelemetryInfo) {
		infos = append(infos, info)
	}
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return errors.New("boom")
	},
		WithOperation[testMessage]("items.test"),
		WithMessageFields(func(testMessage) map[string]any { return map[string]any{"module_type": "slider"} }),
		WithTelemetry[testMessage](telemetry),
	)

	_ = h.Execute(context.Background(), testMessage{})
	if len(infos) != 1 {
		t.Fatalf("expected one telemetry call, got %d", len(infos))
	}
	info := infos[0]
	if info.Status != TelemetryStatusFailed || info.Operation != "items.test" {
		t.Fatalf("unexpected telemetry info %+v", info)
	}
	if info.Fields["module_type"] != "slider" || info.Fields["command"] != "cms.modules.test.message" {
		t.Fatalf("expected message fields merged, got %#v", info.Fields)
	}
}

func TestHandlerClassifiesRejectedRequests(t *testing.T) {
	var statuses []TelemetryStatus
	record := WithTelemetry[testMessage](func(_ context.Context, _ testMessage, info TelemetryInfo) {
		statuses = append(statuses, info.Status)
	})

	notFound := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return &items.NotFoundError{Resource: "item", Key: "42"}
	}, record)
	err := notFound.Execute(context.Background(), testMessage{})
	if !errors.Is(err, items.ErrNotFound) {
		t.Fatalf("expected not found to stay reachable, got %v", err)
	}
	if !Rejected(err) {
		t.Fatalf("expected wrapped not found to count as rejected")
	}

	broken := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return errors.New("disk full")
	}, record)
	if err := broken.Execute(context.Background(), testMessage{}); Rejected(err) {
		t.Fatalf("expected infrastructure failure not to count as rejected")
	}

	if len(statuses) != 2 || statuses[0] != TelemetryStatusRejected || statuses[1] != TelemetryStatusFailed {
		t.Fatalf("unexpected statuses %v", statuses)
	}
}
