package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all records as csv, json, or md",
	Long: `Opens the remote store's export endpoint in the browser, or saves the
file into EXPORT_DIR with --download.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		download, _ := cmd.Flags().GetBool("download")

		c := newClient(cfg)
		target, err := c.exporter(download, func(path string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
		}).Export(cmd.Context(), format)
		if err != nil {
			return fmt.Errorf("export %s: %w", target, err)
		}
		if !download {
			fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", target)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "csv", "export format: csv, json, or md")
	exportCmd.Flags().Bool("download", false, "save the export instead of opening a browser")
	rootCmd.AddCommand(exportCmd)
}
