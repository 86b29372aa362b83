package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/llehouerou/rbsync/internal/rating"
	"github.com/llehouerou/rbsync/internal/syncer"
)

// renderReport formats a run report for the terminal: a table of the
// changed tracks followed by a one-line summary.
func renderReport(report *syncer.Report) string {
	var b strings.Builder

	if len(report.Changes) > 0 {
		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"Track", "Old", "New"})
		for _, mut := range report.Changes {
			tw.AppendRow(table.Row{mut.Location, stars(mut.Old), stars(mut.New)})
		}
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
			{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
			{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		})
		b.WriteString(tw.Render())
		b.WriteString("\n")
	}

	verb := "updated"
	if report.Dry {
		verb = "would be updated"
	}
	fmt.Fprintf(&b, "%d of %d examined tracks %s (%d skipped)\n",
		len(report.Changes), report.Examined, verb, report.Skipped)

	return b.String()
}

// stars renders a rating as "N/5", or "-" for unrated.
func stars(r rating.Rating) string {
	if !r.Rated() {
		return "-"
	}
	return fmt.Sprintf("%d/5", r.Stars())
}
