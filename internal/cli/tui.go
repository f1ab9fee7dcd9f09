package cli

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/i474232898/weather-records/internal/export"
	"github.com/i474232898/weather-records/internal/scheduler"
	"github.com/i474232898/weather-records/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and edit records interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		logPath, _ := cmd.Flags().GetString("log")
		f, err := tea.LogToFile(logPath, appName)
		if err != nil {
			return err
		}
		defer f.Close()

		c := newClient(cfg)
		defer c.sessions.Close()

		model := tui.New(tui.Deps{
			Store:    c.store,
			Sessions: c.sessions,
			Form:     c.form,
			Exporter: c.exporter(false, nil),
			Browser:  export.BrowserNavigator{},
		})
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

		unsubscribe := c.store.Subscribe(tui.Notify(p))
		defer unsubscribe()

		// Zero interval leaves the scheduler idle.
		sched := scheduler.New(cfg.RefreshInterval, c.store, nil)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()

		if _, err := p.Run(); err != nil {
			log.Printf("ERROR: tui: %v", err)
			return err
		}
		return nil
	},
}

func init() {
	tuiCmd.Flags().String("log", "weather-records.log", "file receiving log output while the TUI runs")
	rootCmd.AddCommand(tuiCmd)
}
