package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <type> <kind:id>",
		Short: "Show the items of a module list in order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := a.table(args[0], args[1])
			if err != nil {
				return err
			}
			res, err := tbl.List(cmd.Context())
			if err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), res.Items, tbl.Columns())
			return nil
		},
	}
}

func newAddCommand(a *app) *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "add <type> <kind:id>",
		Short: "Append an item using --field name=value pairs",
		Long: `Append an item to the end of a module list.

Examples:
  modules add accordion page:faq --field title="Shipping" --field content="We ship **worldwide**."`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := parseFields(fields)
			if err != nil {
				return err
			}
			tbl, err := a.table(args[0], args[1])
			if err != nil {
				return err
			}
			res, err := tbl.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if err := report(w, res); err != nil {
				return err
			}
			fmt.Fprintf(w, "%s %s\n", cyan(fmt.Sprintf("#%d", res.Item.Position)), res.Item.ID)
			printFields(w, res.Item)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "Field value as name=value (repeatable)")
	return cmd
}

func newReorderCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <type> <kind:id> <id>...",
		Short: "Rewrite positions to match the given id order",
		Long: `Rewrite positions to match the given order. Every item of the list must
appear exactly once; otherwise nothing changes.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args[2:])
			if err != nil {
				return err
			}
			tbl, err := a.table(args[0], args[1])
			if err != nil {
				return err
			}
			res, err := tbl.Reorder(cmd.Context(), ids)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if err := report(w, res); err != nil {
				return err
			}
			printItems(w, res.Items, tbl.Columns())
			return nil
		},
	}
}

func newDuplicateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <type> <kind:id> <id>",
		Short: "Copy an item to the end of its list",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args[2:])
			if err != nil {
				return err
			}
			tbl, err := a.table(args[0], args[1])
			if err != nil {
				return err
			}
			res, err := tbl.Duplicate(cmd.Context(), ids[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if err := report(w, res); err != nil {
				return err
			}
			fmt.Fprintf(w, "%s %s\n", cyan(fmt.Sprintf("#%d", res.Item.Position)), res.Item.ID)
			return nil
		},
	}
}

func parseFields(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid field %q, expected name=value", pair)
		}
		out[name] = value
	}
	return out, nil
}

func parseIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid item id %q: %w", v, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
