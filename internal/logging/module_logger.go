package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

const (
	rootModule       = "cms.modules"
	itemsModule      = "cms.modules.items"
	generationModule = "cms.modules.generation"
	tableModule      = "cms.modules.table"
	httpModule       = "cms.modules.http"
	commandsModule   = "cms.modules.commands"
)

const (
	fieldModuleType = "module_type"
	fieldRelType    = "rel_type"
	fieldRelID      = "rel_id"
)

// ModuleLogger returns a logger scoped to module. A nil provider, or one that
// returns nil, yields the no-op logger. The module name is attached as the
// "module" field so entries can be filtered per subsystem.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if strings.TrimSpace(module) == "" {
		module = rootModule
	}

	var logger interfaces.Logger = NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// ItemsLogger returns the logger used by the item store.
func ItemsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, itemsModule)
}

// GenerationLogger returns the logger used by generative population.
func GenerationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generationModule)
}

// TableLogger returns the logger used by the table presentation layer.
func TableLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, tableModule)
}

// HTTPLogger returns the logger used by the admin HTTP adapter.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// CommandsLogger returns the logger used by command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithScope annotates logger with the module type and relation key of an item
// list. Empty values are skipped.
func WithScope(logger interfaces.Logger, moduleType, relType, relID string) interfaces.Logger {
	fields := map[string]any{}
	if v := strings.TrimSpace(moduleType); v != "" {
		fields[fieldModuleType] = v
	}
	if v := strings.TrimSpace(relType); v != "" {
		fields[fieldRelType] = v
	}
	if v := strings.TrimSpace(relID); v != "" {
		fields[fieldRelID] = v
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
