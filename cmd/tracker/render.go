package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cmlabs-hris/attendance-tracker/internal/tracker"
)

func renderDashboard(out io.Writer, d *tracker.RecordDashboard) {
	stats := d.Stats()
	fmt.Fprintf(out, "Present: %d  Absent: %d  Total: %d\n", stats.Present, stats.Absent, stats.Total)

	if d.HasFilters() {
		fmt.Fprintf(out, "Filters: query=%q date=%q\n", d.Query(), d.DateFilter())
	}

	visible := d.Visible()
	fmt.Fprintln(out, tracker.RecordCountLabel(len(visible)))

	if empty := d.EmptyStateText(); empty != "" {
		fmt.Fprintln(out, empty)
	} else {
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "\tEMPLOYEE\tID\tDATE\tSTATUS\tRECORD")
		for _, r := range visible {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				tracker.Initials(r.EmployeeName),
				r.EmployeeName,
				r.EmployeeID,
				tracker.FormatDate(r.Date),
				r.Status,
				r.ID,
			)
		}
		tw.Flush()
	}

	renderMessage(out, d.Message())
}

func renderMessage(out io.Writer, msg tracker.Message) {
	if msg.IsZero() {
		return
	}
	fmt.Fprintf(out, "[%s] %s\n", msg.Kind, msg.Text)
}
