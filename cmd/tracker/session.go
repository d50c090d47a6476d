package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cmlabs-hris/attendance-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-tracker/internal/tracker"
)

const sessionHelp = `Commands:
  add                record attendance for today
  refresh            reload records
  search [text]      filter by name or employee ID (empty clears)
  date [YYYY-MM-DD]  filter by date (empty clears)
  clear              clear all filters
  delete <id>        delete a record
  help               show this help
  quit               leave the dashboard
`

// session is the interactive dashboard loop.
type session struct {
	in        *bufio.Reader
	out       io.Writer
	dashboard *tracker.RecordDashboard
	form      *tracker.RecordEntryForm
}

func newSession(in *bufio.Reader, out io.Writer, dashboard *tracker.RecordDashboard, form *tracker.RecordEntryForm) *session {
	return &session{in: in, out: out, dashboard: dashboard, form: form}
}

func (s *session) run(ctx context.Context) error {
	renderDashboard(s.out, s.dashboard)

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, eof, err := s.prompt("> ")
		if err != nil {
			return err
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(cmd) {
		case "":
			if eof {
				return nil
			}
			continue
		case "q", "quit", "exit":
			return nil
		case "h", "help":
			fmt.Fprint(s.out, sessionHelp)
			continue
		case "r", "refresh":
			_ = s.dashboard.Refresh(ctx)
		case "search":
			s.dashboard.SetQuery(arg)
		case "date":
			if arg != "" {
				if _, ok := validator.IsValidDate(arg); !ok {
					fmt.Fprintln(s.out, "Date must be in YYYY-MM-DD format.")
					continue
				}
			}
			s.dashboard.SetDate(arg)
		case "clear":
			s.dashboard.ClearFilters()
		case "delete":
			if arg == "" {
				fmt.Fprintln(s.out, "Usage: delete <id>")
				continue
			}
			if err := s.dashboard.Delete(ctx, arg); errors.Is(err, tracker.ErrDeleteCancelled) {
				fmt.Fprintln(s.out, "Cancelled.")
				continue
			}
		case "add":
			if err := s.add(ctx); err != nil {
				return err
			}
		default:
			fmt.Fprintf(s.out, "Unknown command %q. Type help for a list.\n", cmd)
			continue
		}

		renderDashboard(s.out, s.dashboard)
		if eof {
			return nil
		}
	}
}

// add walks through the entry form fields and submits it. Only read errors are returned;
// submission failures are reported through the form message.
func (s *session) add(ctx context.Context) error {
	current := s.form.Fields()

	name, _, err := s.promptDefault("Employee name", current.EmployeeName)
	if err != nil {
		return err
	}
	id, _, err := s.promptDefault("Employee ID", current.EmployeeID)
	if err != nil {
		return err
	}
	status, _, err := s.promptDefault("Status (Present/Absent)", string(current.Status))
	if err != nil {
		return err
	}

	if err := fillForm(s.form, name, id, normalizeStatus(status)); err != nil {
		fmt.Fprintln(s.out, err)
		return nil
	}

	_ = s.form.Submit(ctx)
	renderMessage(s.out, s.form.Message())
	return nil
}

func normalizeStatus(input string) attendance.Status {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "present", "p":
		return attendance.StatusPresent
	case "absent", "a":
		return attendance.StatusAbsent
	default:
		return attendance.Status(input)
	}
}

// prompt reads one line. eof reports that input ended, possibly after a final line.
func (s *session) prompt(label string) (line string, eof bool, err error) {
	fmt.Fprint(s.out, label)
	line, err = s.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		return line, true, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read input: %w", err)
	}
	return line, false, nil
}

func (s *session) promptDefault(label, fallback string) (string, bool, error) {
	if fallback != "" {
		label = fmt.Sprintf("%s [%s]", label, fallback)
	}
	line, eof, err := s.prompt(label + ": ")
	if err != nil {
		return "", eof, err
	}
	if value := strings.TrimSpace(line); value != "" {
		return value, eof, nil
	}
	return fallback, eof, nil
}
