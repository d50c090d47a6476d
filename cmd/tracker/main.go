package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-tracker/internal/client"
	"github.com/cmlabs-hris/attendance-tracker/internal/config"
	"github.com/cmlabs-hris/attendance-tracker/internal/pkg/notify"
	"github.com/cmlabs-hris/attendance-tracker/internal/tracker"
	"github.com/spf13/cobra"
)

const appVersion = "0.1.0"

// app holds what every subcommand shares. The form and the dashboard talk through
// notifier, the same way they would inside one screen.
type app struct {
	api        *client.Client
	notifier   *notify.Notifier
	in         *bufio.Reader
	out        io.Writer
	messageTTL time.Duration
	logger     *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		notifier: notify.New(),
		in:       bufio.NewReader(stdin),
		out:      stdout,
	}
	var apiURL string

	cmd := &cobra.Command{
		Use:           "tracker",
		Short:         "Record and review employee attendance",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if apiURL == "" {
				apiURL = cfg.Client.APIBaseURL
			}
			a.api = client.New(apiURL, cfg.Client.HTTPTimeout)
			a.messageTTL = cfg.Client.MessageTTL
			a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.App.SlogLevel()}))
			return nil
		},
	}
	cmd.SetVersionTemplate("tracker v{{.Version}}\n")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.PersistentFlags().StringVar(&apiURL, "api", "", "Attendance API base URL (default $API_BASE_URL)")

	cmd.AddCommand(
		newAddCommand(a),
		newListCommand(a),
		newDeleteCommand(a),
		newDashboardCommand(a),
	)
	return cmd
}

func (a *app) newForm() *tracker.RecordEntryForm {
	return tracker.NewRecordEntryForm(a.api, tracker.FormOptions{
		Publisher:  a.notifier,
		MessageTTL: a.messageTTL,
		Logger:     a.logger,
	})
}

func (a *app) newDashboard(confirmer tracker.Confirmer) *tracker.RecordDashboard {
	return tracker.NewRecordDashboard(a.api, tracker.DashboardOptions{
		Subscriber: a.notifier,
		Confirmer:  confirmer,
		MessageTTL: a.messageTTL,
		Logger:     a.logger,
	})
}
