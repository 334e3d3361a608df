package main

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/fatih/color"

	"github.com/goliatone/go-cms-modules/internal/items"
	"github.com/goliatone/go-cms-modules/internal/table"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

func printItems(w io.Writer, list []*items.Item, columns []table.Column) {
	if len(list) == 0 {
		fmt.Fprintf(w, "%s No items\n", yellow("⚠"))
		return
	}
	for _, item := range list {
		fmt.Fprintf(w, "%s %s %s\n", cyan(fmt.Sprintf("#%d", item.Position)), faint(item.ID.String()), summary(item, columns))
	}
}

// summary prints the first column, which every built-in type uses as its title.
func summary(item *items.Item, columns []table.Column) string {
	if len(columns) > 0 {
		if v, ok := item.Fields[columns[0].Name]; ok {
			return fmt.Sprint(v)
		}
	}
	return fmt.Sprint(item.Fields)
}

func printFields(w io.Writer, item *items.Item) {
	for _, k := range slices.Sorted(maps.Keys(item.Fields)) {
		fmt.Fprintf(w, "  %s: %v\n", k, item.Fields[k])
	}
}

func printNotification(w io.Writer, n *interfaces.Notification) {
	if n == nil {
		return
	}
	mark := green("✓")
	switch n.Severity {
	case interfaces.SeverityDanger:
		mark = red("✗")
	case interfaces.SeverityWarning:
		mark = yellow("⚠")
	}
	fmt.Fprintf(w, "%s %s\n", mark, n.Title)
	if n.Body != "" {
		fmt.Fprintf(w, "  %s\n", n.Body)
	}
}

// report prints the result and turns non-OK outcomes into an error so the
// process exits non-zero.
func report(w io.Writer, res *table.ActionResult) error {
	printNotification(w, res.Notification)
	for _, k := range slices.Sorted(maps.Keys(res.FieldErrors)) {
		fmt.Fprintf(w, "  %s %s: %s\n", red("•"), k, res.FieldErrors[k])
	}
	if !res.OK() {
		return fmt.Errorf("%s", res.Outcome)
	}
	return nil
}
