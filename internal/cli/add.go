package cli

import (
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a weather record for a location and date range",
	Example: `  weather-records add --location "Paris" --start 2024-01-01 --end 2024-01-05`,
	RunE: func(cmd *cobra.Command, args []string) error {
		location, _ := cmd.Flags().GetString("location")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")

		c := newClient(cfg)
		c.form.SetLocation(location)
		c.form.SetStartDate(start)
		c.form.SetEndDate(end)

		_, _ = c.form.Submit(cmd.Context())
		return reportStatus(cmd, c.store.Status())
	},
}

func init() {
	addCmd.Flags().String("location", "", "city, zip, or landmark")
	addCmd.Flags().String("start", "", "start date (YYYY-MM-DD)")
	addCmd.Flags().String("end", "", "end date (YYYY-MM-DD)")
	rootCmd.AddCommand(addCmd)
}
