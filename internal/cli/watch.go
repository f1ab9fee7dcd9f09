package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-records/internal/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh and print the record list periodically",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		if interval <= 0 {
			interval = cfg.RefreshInterval
		}
		if interval <= 0 {
			interval = 30 * time.Second
		}

		c := newClient(cfg)
		out := cmd.OutOrStdout()
		sched := scheduler.New(interval, c.store, func(err error) {
			fmt.Fprintf(out, "\n%s\n", time.Now().Format(time.RFC3339))
			if err != nil {
				fmt.Fprintf(out, "refresh failed: %v\n", err)
				return
			}
			printRecords(out, c.store.Records())
		})
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()
		return nil
	},
}

func init() {
	watchCmd.Flags().Duration("interval", 0, "refresh interval (defaults to REFRESH_INTERVAL or 30s)")
	rootCmd.AddCommand(watchCmd)
}
