package commands

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-cms-modules/internal/logging"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

const (
	DefaultCommandTimeout = 30 * time.Second
	// GenerationCommandTimeout bounds generation batches, which block on
	// up to ten sequential provider calls.
	GenerationCommandTimeout = 5 * time.Minute
)

// CommandLogger returns the logger for the command handlers of one module
// family, tagged with the family name.
func CommandLogger(provider interfaces.LoggerProvider, family string) interfaces.Logger {
	family = strings.TrimSpace(family)
	if family == "" {
		family = "items"
	}
	return logging.WithFields(logging.CommandsLogger(provider), map[string]any{
		"component":      "command",
		"command_family": family,
	})
}

func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}

// withDeadline applies timeout to ctx unless it is zero. A nil ctx becomes
// context.Background.
func withDeadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
