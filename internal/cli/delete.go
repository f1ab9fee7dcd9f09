package cli

import (
	"github.com/spf13/cobra"

	"github.com/i474232898/weather-records/internal/records"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a weather record",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient(cfg)
		_ = c.store.Delete(cmd.Context(), records.ID(args[0]))
		return reportStatus(cmd, c.store.Status())
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
