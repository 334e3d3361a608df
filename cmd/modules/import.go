package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-cms-modules/internal/importer"
	"github.com/goliatone/go-cms-modules/internal/relation"
)

func newImportCommand(a *app) *cobra.Command {
	var opts importer.Options
	cmd := &cobra.Command{
		Use:   "import <type> <kind:id> <dir>",
		Short: "Load markdown seed files into a module list",
		Long: `Load *.md files from dir in file name order. Frontmatter keys become fields
and the body fills the first rich text field. Re-running the import updates
the items created earlier instead of appending copies.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := relation.ParseString(args[1])
			if err != nil {
				return err
			}
			result, err := a.module.Import(cmd.Context(), args[0], key, args[2], opts)
			w := cmd.OutOrStdout()
			if result != nil {
				fmt.Fprintf(w, "Created %s, updated %s, skipped %d\n",
					green(len(result.Created)), cyan(len(result.Updated)), len(result.Skipped))
				for _, e := range result.Errors {
					fmt.Fprintf(w, "  %s %v\n", red("✗"), e)
				}
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Parse seeds without writing")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", "*.md", "Glob selecting seed files")
	return cmd
}
