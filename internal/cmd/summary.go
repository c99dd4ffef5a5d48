package cmd

import (
	"fmt"
	"strings"

	"episync/internal/tui/theme"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

// printSummary renders the end-of-run counters in a bordered panel.
func printSummary(cmd *cobra.Command, th theme.Theme, stats *runStats) {
	verb := "Moved"
	if dryRun {
		verb = "Would move"
	}

	rows := []struct {
		label string
		count int
	}{
		{verb, stats.moved},
		{"Copied across devices", stats.copied},
		{"Duplicates kept in source", stats.dupSource},
		{"Already in target", stats.inTarget},
		{"Collisions in target", stats.collisions},
		{"Declined", stats.declined},
		{"Ignored (no identity)", stats.ignored},
		{"Failed", stats.failed},
	}

	labelWidth := 0
	for _, row := range rows {
		if w := runewidth.StringWidth(row.label); w > labelWidth {
			labelWidth = w
		}
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, fmt.Sprintf("%s Operation complete", th.Icon("stats")))
	for _, row := range rows {
		if row.count == 0 && row.label != verb {
			continue
		}
		pad := strings.Repeat(" ", labelWidth-runewidth.StringWidth(row.label))
		line := fmt.Sprintf("%s%s  %d", row.label, pad, row.count)
		if row.label == "Failed" {
			line = th.ErrorStyle().Render(line)
		}
		lines = append(lines, line)
	}

	fmt.Fprintln(cmd.OutOrStdout(), th.PanelStyle().Render(strings.Join(lines, "\n")))
}
