package main

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker/internal/tracker"
	"github.com/spf13/cobra"
)

func newAddCommand(a *app) *cobra.Command {
	var (
		name   string
		id     string
		status string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record today's attendance for an employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := a.newForm()
			defer form.Close()

			if err := fillForm(form, name, id, attendance.Status(status)); err != nil {
				return err
			}
			err := form.Submit(cmd.Context())
			fmt.Fprintln(a.out, form.Message().Text)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Employee name")
	cmd.Flags().StringVar(&id, "id", "", "Employee ID")
	cmd.Flags().StringVar(&status, "status", string(attendance.StatusPresent), "Present or Absent")
	return cmd
}

func fillForm(form *tracker.RecordEntryForm, name, id string, status attendance.Status) error {
	if err := form.SetEmployeeName(name); err != nil {
		return err
	}
	if err := form.SetEmployeeID(id); err != nil {
		return err
	}
	return form.SetStatus(status)
}

func newListCommand(a *app) *cobra.Command {
	var (
		query string
		date  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attendance records with their summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dashboard := a.newDashboard(nil)
			dashboard.SetQuery(query)
			dashboard.SetDate(date)

			if err := dashboard.Refresh(cmd.Context()); err != nil {
				fmt.Fprintln(a.out, dashboard.Message().Text)
				return err
			}
			renderDashboard(a.out, dashboard)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Match employee name or ID (case-insensitive)")
	cmd.Flags().StringVar(&date, "date", "", "Only records on this date (YYYY-MM-DD)")
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <record-id>",
		Short: "Delete an attendance record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var confirmer tracker.Confirmer = tracker.NewPromptConfirmer(a.in, a.out)
			if yes {
				confirmer = tracker.AlwaysConfirm
			}

			dashboard := a.newDashboard(confirmer)
			err := dashboard.Delete(cmd.Context(), args[0])
			switch {
			case errors.Is(err, tracker.ErrDeleteCancelled):
				fmt.Fprintln(a.out, "Cancelled.")
				return nil
			case err != nil:
				fmt.Fprintln(a.out, dashboard.Message().Text)
				return err
			}
			fmt.Fprintln(a.out, "Deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newDashboardCommand(a *app) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive attendance dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dashboard := a.newDashboard(tracker.NewPromptConfirmer(a.in, a.out))
			form := a.newForm()
			defer form.Close()

			deactivate, err := dashboard.Activate(ctx)
			if err != nil {
				a.logger.Warn("Initial fetch failed", "error", err)
			}
			defer deactivate()

			if watch {
				stopWatch := a.watch(ctx)
				defer stopWatch()
			}

			return newSession(a.in, a.out, dashboard, form).run(ctx)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Refresh when other clients add records")
	return cmd
}
