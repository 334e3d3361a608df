package logging

import (
	"maps"

	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

// WithFields attaches fields when logger implements interfaces.FieldsLogger and
// returns logger untouched otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	return fieldsLogger.WithFields(maps.Clone(fields))
}

// Ensure returns logger, or the no-op logger when logger is nil.
func Ensure(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}
