// Package console writes module log entries as single key=value lines.
package console

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/goliatone/go-cms-modules/internal/logging"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

// Level orders entry severities.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelLabels = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if int(l) < len(levelLabels) {
		return levelLabels[l]
	}
	return "INFO"
}

// ParseLevel maps configuration strings to a Level. Unknown values yield LevelInfo.
func ParseLevel(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// Options configures NewProvider. Zero values write to stdout at debug level.
type Options struct {
	Writer   io.Writer
	Clock    func() time.Time
	MinLevel *Level
	// Color decorates level labels with ANSI colors.
	Color bool
}

type sink struct {
	mu     sync.Mutex
	out    io.Writer
	clock  func() time.Time
	min    Level
	colors map[Level]func(a ...any) string
}

// NewProvider returns a LoggerProvider whose loggers share one writer.
func NewProvider(opts Options) interfaces.LoggerProvider {
	s := &sink{
		out:   opts.Writer,
		clock: opts.Clock,
		min:   LevelDebug,
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if opts.MinLevel != nil {
		s.min = *opts.MinLevel
	}
	if opts.Color {
		s.colors = map[Level]func(a ...any) string{
			LevelTrace: color.New(color.FgHiBlack).SprintFunc(),
			LevelDebug: color.New(color.FgCyan).SprintFunc(),
			LevelInfo:  color.New(color.FgGreen).SprintFunc(),
			LevelWarn:  color.New(color.FgYellow).SprintFunc(),
			LevelError: color.New(color.FgRed).SprintFunc(),
			LevelFatal: color.New(color.FgRed, color.Bold).SprintFunc(),
		}
	}
	return s
}

func (s *sink) GetLogger(name string) interfaces.Logger {
	return &logger{sink: s, fields: map[string]any{"logger": name}}
}

type logger struct {
	sink   *sink
	fields map[string]any
	ctx    context.Context
}

var (
	_ interfaces.Logger       = (*logger)(nil)
	_ interfaces.FieldsLogger = (*logger)(nil)
)

func (l *logger) Trace(msg string, args ...any) { l.write(LevelTrace, msg, args) }
func (l *logger) Debug(msg string, args ...any) { l.write(LevelDebug, msg, args) }
func (l *logger) Info(msg string, args ...any)  { l.write(LevelInfo, msg, args) }
func (l *logger) Warn(msg string, args ...any)  { l.write(LevelWarn, msg, args) }
func (l *logger) Error(msg string, args ...any) { l.write(LevelError, msg, args) }
func (l *logger) Fatal(msg string, args ...any) { l.write(LevelFatal, msg, args) }

func (l *logger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	merged := maps.Clone(l.fields)
	maps.Copy(merged, fields)
	return &logger{sink: l.sink, fields: merged, ctx: l.ctx}
}

func (l *logger) WithContext(ctx context.Context) interfaces.Logger {
	return &logger{sink: l.sink, fields: l.fields, ctx: ctx}
}

func (l *logger) write(level Level, msg string, args []any) {
	if l.sink == nil || level < l.sink.min {
		return
	}
	fields := maps.Clone(l.fields)
	if fields == nil {
		fields = map[string]any{}
	}
	maps.Copy(fields, logging.ContextFields(l.ctx))
	pairs(fields, args)

	label := level.String()
	if paint, ok := l.sink.colors[level]; ok {
		label = paint(label)
	}
	line := render(l.sink.clock().UTC(), label, msg, fields)

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	_, _ = io.WriteString(l.sink.out, line+"\n")
}

// pairs folds variadic key/value arguments into fields. A trailing key
// without a value, or a non-string key, is stored under an "arg_N" name.
func pairs(fields map[string]any, args []any) {
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			fields["arg_"+strconv.Itoa(i)] = args[i]
			return
		}
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = "arg_" + strconv.Itoa(i)
		}
		fields[key] = args[i+1]
	}
}

func render(ts time.Time, level, msg string, fields map[string]any) string {
	var b strings.Builder
	b.WriteString(ts.Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(value(fields[key]))
	}
	return b.String()
}

func value(v any) string {
	var s string
	switch typed := v.(type) {
	case nil:
		return "null"
	case string:
		s = typed
	case time.Time:
		s = typed.UTC().Format(time.RFC3339Nano)
	case error:
		s = typed.Error()
	case fmt.Stringer:
		s = typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		s = fmt.Sprint(typed)
	}
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
