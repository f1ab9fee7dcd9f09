package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-records/internal/records"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the location or dates of a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := records.ID(args[0])
		c := newClient(cfg)

		if err := c.store.List(cmd.Context()); err != nil {
			return err
		}
		rec, ok := c.store.State().Find(id)
		if !ok {
			return fmt.Errorf("record %s not found", id)
		}

		if err := c.sessions.Begin(rec); err != nil {
			return err
		}
		draft := c.sessions.Session(id).Draft
		if cmd.Flags().Changed("location") {
			draft.Location, _ = cmd.Flags().GetString("location")
		}
		if cmd.Flags().Changed("start") {
			draft.StartDate, _ = cmd.Flags().GetString("start")
		}
		if cmd.Flags().Changed("end") {
			draft.EndDate, _ = cmd.Flags().GetString("end")
		}
		if err := c.sessions.SetDraft(id, draft); err != nil {
			return err
		}

		_ = c.sessions.Save(cmd.Context(), id)
		if err := reportStatus(cmd, c.store.Status()); err != nil {
			return err
		}
		if updated, ok := c.store.State().Find(id); ok {
			printRecords(cmd.OutOrStdout(), []records.Record{updated})
		}
		return nil
	},
}

func init() {
	editCmd.Flags().String("location", "", "new location")
	editCmd.Flags().String("start", "", "new start date (YYYY-MM-DD)")
	editCmd.Flags().String("end", "", "new end date (YYYY-MM-DD)")
	rootCmd.AddCommand(editCmd)
}
