package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTypesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered module types and their fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, desc := range a.module.Types() {
				fmt.Fprintf(w, "%s %s\n", cyan(desc.Type), faint(desc.Label))
				for _, f := range desc.Fields {
					marker := " "
					if f.Required {
						marker = "*"
					}
					fmt.Fprintf(w, "  %s %-16s %s\n", marker, f.Name, faint(string(f.Kind)))
				}
			}
			return nil
		},
	}
}
