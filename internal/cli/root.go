package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-records/internal/config"
	"github.com/i474232898/weather-records/internal/export"
	"github.com/i474232898/weather-records/internal/form"
	"github.com/i474232898/weather-records/internal/records"
	"github.com/i474232898/weather-records/internal/transport"
)

const appName = "weather-records"

var cfg *config.AppConfig

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Record, edit, delete, and export weather observations",
	Long: `weather-records keeps a list of weather observations (location and date
range, with server-computed average temperature and coordinates) in sync
with a remote record store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if base, _ := cmd.Flags().GetString("api"); base != "" {
			loaded.APIBase = base
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("api", "", "remote store base URL (overrides WEATHER_API_BASE)")
}

// client bundles the client-side components over one transport.
type client struct {
	http     *http.Client
	store    *records.Store
	sessions *records.Sessions
	form     *form.Controller
}

func newClient(cfg *config.AppConfig) *client {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	tr := transport.New(cfg.APIBase, httpClient,
		transport.WithCircuitBreaker(cfg.BreakerMaxFailures, cfg.BreakerOpenTimeout))

	store := records.NewStore(records.NewAPI(tr))
	return &client{
		http:     httpClient,
		store:    store,
		sessions: records.NewSessions(store, records.KeepDraftOnFailure(cfg.KeepDraftOnFailedSave)),
		form:     form.New(store),
	}
}

func (c *client) exporter(download bool, onSaved func(string)) *export.Trigger {
	var nav export.Navigator = export.BrowserNavigator{}
	if download {
		nav = &export.Downloader{Client: c.http, Dir: cfg.ExportDir, OnSaved: onSaved}
	}
	return export.New(cfg.APIBase, nav)
}

// reportStatus prints a notice, or turns an error status into the
// command's error.
func reportStatus(cmd *cobra.Command, st records.Status) error {
	switch st.Kind {
	case records.StatusError:
		return errors.New(st.Message)
	case records.StatusNotice:
		fmt.Fprintln(cmd.OutOrStdout(), st.Message)
	}
	return nil
}
