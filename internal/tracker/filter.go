package tracker

import (
	"strings"

	"github.com/cmlabs-hris/attendance-tracker/internal/domain/attendance"
)

// Record is the client's read-through copy of an attendance record.
type Record = attendance.AttendanceResponse

type Stats struct {
	Present int
	Absent  int
	Total   int
}

// Filter returns the records whose name or employee ID contains query (ignoring case)
// and whose date equals date. Empty criteria match everything. Order is preserved and
// the input is never modified.
func Filter(records []Record, query string, date string) []Record {
	needle := strings.ToLower(query)

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if needle != "" &&
			!strings.Contains(strings.ToLower(r.EmployeeName), needle) &&
			!strings.Contains(strings.ToLower(r.EmployeeID), needle) {
			continue
		}
		if date != "" && r.Date != date {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ComputeStats counts the records by status. Present+Absent equals Total as long as every
// record carries a known status, which keepKnownStatus guarantees for the dashboard.
func ComputeStats(records []Record) Stats {
	stats := Stats{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case attendance.StatusPresent:
			stats.Present++
		case attendance.StatusAbsent:
			stats.Absent++
		}
	}
	return stats
}

// removeByID drops every record carrying id and reports whether any matched.
func removeByID(records []Record, id string) ([]Record, bool) {
	out := make([]Record, 0, len(records))
	removed := false
	for _, r := range records {
		if r.ID == id {
			removed = true
			continue
		}
		out = append(out, r)
	}
	return out, removed
}

// keepKnownStatus drops records whose status is neither Present nor Absent and returns
// how many were dropped.
func keepKnownStatus(records []Record) ([]Record, int) {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Status.Valid() {
			out = append(out, r)
		}
	}
	return out, len(records) - len(out)
}
