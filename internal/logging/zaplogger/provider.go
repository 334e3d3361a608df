// Package zaplogger exposes go.uber.org/zap through the module logger contract.
package zaplogger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-cms-modules/internal/logging"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

// Config selects level and encoding for the production zap preset.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	Output    []string
}

// Provider names zap loggers per module.
type Provider struct {
	base *zap.Logger
}

// NewProvider builds a zap logger from the production preset.
func NewProvider(cfg Config) (*Provider, error) {
	config := zap.NewProductionConfig()

	level, err := zapcore.ParseLevel(defaultString(cfg.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("logging: invalid zap level %q: %w", cfg.Level, err)
	}
	config.Level = zap.NewAtomicLevelAt(level)

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		config.Encoding = "json"
	case "console":
		config.Encoding = "console"
	default:
		return nil, fmt.Errorf("logging: unsupported zap format %q", cfg.Format)
	}
	config.DisableCaller = !cfg.AddSource
	if len(cfg.Output) > 0 {
		config.OutputPaths = cfg.Output
	}

	base, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build zap logger: %w", err)
	}
	return &Provider{base: base}, nil
}

// Wrap adapts an already configured zap logger.
func Wrap(base *zap.Logger) *Provider {
	return &Provider{base: base}
}

func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.base == nil {
		return logging.NoOp()
	}
	named := p.base
	if name = strings.TrimSpace(name); name != "" {
		named = named.Named(name)
	}
	return &sugared{inner: named.Sugar()}
}

// Sync flushes buffered entries.
func (p *Provider) Sync() error {
	if p == nil || p.base == nil {
		return nil
	}
	return p.base.Sync()
}

type sugared struct {
	inner *zap.SugaredLogger
	ctx   context.Context
}

var (
	_ interfaces.Logger       = (*sugared)(nil)
	_ interfaces.FieldsLogger = (*sugared)(nil)
)

// zap has no trace level; trace entries are emitted at debug.
func (s *sugared) Trace(msg string, args ...any) { s.inner.Debugw(msg, s.args(args)...) }
func (s *sugared) Debug(msg string, args ...any) { s.inner.Debugw(msg, s.args(args)...) }
func (s *sugared) Info(msg string, args ...any)  { s.inner.Infow(msg, s.args(args)...) }
func (s *sugared) Warn(msg string, args ...any)  { s.inner.Warnw(msg, s.args(args)...) }
func (s *sugared) Error(msg string, args ...any) { s.inner.Errorw(msg, s.args(args)...) }

// Fatal logs at error level with fatal=true; the process is left running.
func (s *sugared) Fatal(msg string, args ...any) {
	s.inner.Errorw(msg, append(s.args(args), "fatal", true)...)
}

func (s *sugared) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return s
	}
	kv := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &sugared{inner: s.inner.With(kv...), ctx: s.ctx}
}

func (s *sugared) WithContext(ctx context.Context) interfaces.Logger {
	return &sugared{inner: s.inner, ctx: ctx}
}

func (s *sugared) args(args []any) []any {
	ctxFields := logging.ContextFields(s.ctx)
	if len(ctxFields) == 0 {
		return args
	}
	out := make([]any, 0, len(args)+len(ctxFields)*2)
	for k, v := range ctxFields {
		out = append(out, k, v)
	}
	return append(out, args...)
}

func defaultString(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}
