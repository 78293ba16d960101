package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/pagewrap/api/schemas"
	"github.com/xkilldash9x/pagewrap/internal/observability"
	"github.com/xkilldash9x/pagewrap/internal/weblog"
	"github.com/xkilldash9x/pagewrap/internal/webdriver"
)

type logView struct {
	Type      string    `json:"type"`
	Level     string    `json:"level"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

func newLogsCmd() *cobra.Command {
	var (
		logType string
		wait    time.Duration
		asJSON  bool
		replay  bool
	)

	cmd := &cobra.Command{
		Use:   "logs URL",
		Short: "Loads a page and prints the log entries the browser collected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(d *webdriver.Driver) error {
				ctx := cmd.Context()
				if err := d.Navigate(ctx, args[0]); err != nil {
					return err
				}
				if wait > 0 {
					select {
					case <-time.After(wait):
					case <-ctx.Done():
						return ctx.Err()
					}
				}

				entries, err := d.Logs(ctx, logType)
				if err != nil {
					return err
				}
				if replay {
					observability.ReplayBrowserLogs(observability.GetLogger(), entries)
				}
				return printLogs(cmd, entries, asJSON)
			})
		},
	}

	cmd.Flags().StringVarP(&logType, "type", "t", schemas.LogTypeBrowser, "log type to fetch")
	cmd.Flags().DurationVar(&wait, "wait", 0, "time to let the page run before collecting")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	cmd.Flags().BoolVar(&replay, "replay", false, "also forward entries to the application log")
	return cmd
}

func printLogs(cmd *cobra.Command, entries []weblog.Entry, asJSON bool) error {
	w := cmd.OutOrStdout()
	if asJSON {
		views := make([]logView, 0, len(entries))
		for _, e := range entries {
			views = append(views, logView{
				Type:      e.Type(),
				Level:     e.Level().String(),
				Timestamp: time.UnixMilli(e.TimestampMillis()).UTC(),
				Message:   e.Message(),
			})
		}
		return writeJSON(w, views)
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s [%s] %s\n", time.UnixMilli(e.TimestampMillis()).UTC().Format(time.RFC3339Nano), e.Level(), e.Message())
	}
	return nil
}
