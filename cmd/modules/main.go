package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	modules "github.com/goliatone/go-cms-modules"
	"github.com/goliatone/go-cms-modules/internal/relation"
)

type options struct {
	dsn           string
	provider      string
	model         string
	imageProvider string
	mediaDir      string
	logLevel      string
	verbose       bool
}

// app carries the module built for the running command.
type app struct {
	opts   options
	module *modules.Module
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "modules",
		Short: "Manage repeatable content modules attached to pages and posts",
		Long: `modules edits the ordered item lists behind sliders, tabs, accordions,
testimonials, team cards, and picture galleries.

Relations are written as kind:id, for example post:42 or page:home.

Examples:
  modules types
  modules add slider post:42 --field title="Summer sale"
  modules generate testimonials page:home --subject "coffee roastery" --count 3
  modules reorder slider post:42 <id> <id>`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd == cmd.Root() {
				return nil
			}
			module, err := modules.New(a.config())
			if err != nil {
				return fmt.Errorf("bootstrap module: %w", err)
			}
			a.module = module
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.module != nil {
				_ = a.module.Close()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.dsn, "db", "file:modules.db?cache=shared", "SQLite DSN holding module items")
	flags.StringVar(&a.opts.provider, "provider", "fixture", "Structured content provider: fixture, anthropic, genai")
	flags.StringVar(&a.opts.model, "model", "", "Model name passed to the provider")
	flags.StringVar(&a.opts.imageProvider, "image-provider", "none", "Image provider: none, fixture, genai")
	flags.StringVar(&a.opts.mediaDir, "media-dir", "media", "Directory receiving generated image files")
	flags.StringVar(&a.opts.logLevel, "log-level", "warn", "Log level for the console logger")
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Enable logging")

	root.AddCommand(
		newTypesCommand(a),
		newListCommand(a),
		newAddCommand(a),
		newGenerateCommand(a),
		newReorderCommand(a),
		newDuplicateCommand(a),
		newImportCommand(a),
	)
	return root
}

func (a *app) config() modules.Config {
	cfg := modules.DefaultConfig()
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = a.opts.dsn
	cfg.Generation.Provider = a.opts.provider
	cfg.Generation.Model = a.opts.model
	cfg.Generation.ImageProvider = a.opts.imageProvider
	cfg.Media.Dir = a.opts.mediaDir
	if p := strings.ToLower(strings.TrimSpace(a.opts.imageProvider)); p != "" && p != "none" {
		cfg.Features.Images = true
	}
	if a.opts.verbose {
		cfg.Features.Logger = true
		cfg.Logging.Provider = "console"
		cfg.Logging.Level = a.opts.logLevel
	}
	return cfg
}

// table resolves the "<type> <kind:id>" argument pair.
func (a *app) table(moduleType, rel string) (*modules.Table, error) {
	key, err := relation.ParseString(rel)
	if err != nil {
		return nil, err
	}
	return a.module.Table(moduleType, key)
}
