package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-cms-modules/internal/table"
)

func newGenerateCommand(a *app) *cobra.Command {
	var input table.GenerateInput
	cmd := &cobra.Command{
		Use:   "generate <type> <kind:id>",
		Short: "Create items with the configured generative provider",
		Long: `Ask the structured content provider for --count items about --subject and
append every item that comes back valid. Failed iterations are reported and
skipped.

Examples:
  modules generate slider post:42 --subject "mountain cabins" --count 3
  modules generate teamcard page:about --subject "design studio" --image-provider fixture --images`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := a.table(args[0], args[1])
			if err != nil {
				return err
			}
			res, runErr := tbl.CreateWithAI(cmd.Context(), input)
			if res == nil {
				return runErr
			}
			w := cmd.OutOrStdout()
			if res.Report != nil {
				fmt.Fprintf(w, "Requested %d, created %s, failed %s\n",
					res.Report.Requested,
					green(len(res.Report.Created)),
					red(res.Report.Failed),
				)
			}
			if err := report(w, res); err != nil {
				return err
			}
			printItems(w, res.Items, tbl.Columns())
			return runErr
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&input.Subject, "subject", "", "What the generated items are about")
	flags.IntVar(&input.Count, "count", 3, "Number of items to generate (1-10)")
	flags.BoolVar(&input.WithImages, "images", false, "Generate an image for each item")
	flags.StringVar(&input.Locale, "locale", "", "Locale the copy should be written in")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
