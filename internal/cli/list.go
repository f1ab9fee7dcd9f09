package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/i474232898/weather-records/internal/records"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all weather records",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient(cfg)
		_ = c.store.List(cmd.Context())
		if err := reportStatus(cmd, c.store.Status()); err != nil {
			return err
		}
		printRecords(cmd.OutOrStdout(), c.store.Records())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func printRecords(w io.Writer, recs []records.Record) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No records.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "LOCATION", "FROM", "TO", "AVG °C", "DESCRIPTION", "LAT/LON")
	for _, r := range recs {
		t.Row(
			r.ID.String(),
			r.Location,
			r.StartDate,
			r.EndDate,
			strconv.FormatFloat(r.AvgTemperatureC, 'f', 1, 64),
			r.Description,
			fmt.Sprintf("%.3f, %.3f", r.Latitude, r.Longitude),
		)
	}
	fmt.Fprintln(w, t.Render())
}
