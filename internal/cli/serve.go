package cli

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/weather-records/internal/api/http"
	"github.com/i474232898/weather-records/internal/store"
	"github.com/i474232898/weather-records/internal/weather"
	"github.com/i474232898/weather-records/internal/weather/providers"
)

const defaultProviderTimeout = 20 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference remote record store",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Shared HTTP client for outbound provider calls.
		timeout := cfg.HTTPTimeout
		if timeout <= 0 {
			timeout = defaultProviderTimeout
		}
		httpClient := &http.Client{Timeout: timeout}

		memStore := store.NewMemoryStore(cfg.StoreMaxRecords)

		// Open-Meteo needs no API key for geocoding or the archive.
		meteo := providers.NewOpenMeteoProvider(httpClient, cfg.GeocodingURL, cfg.ForecastURL)
		service := weather.NewService(meteo, meteo)

		app := httpapi.NewApp(memStore, service, httpapi.Options{
			CORSOrigins: cfg.CORSOrigins,
			AccessLog:   true,
		})

		go func() {
			log.Printf("INFO: listening on :%s", cfg.Port)
			if err := app.Listen(":" + cfg.Port); err != nil {
				log.Printf("fiber server stopped: %v", err)
			}
		}()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("error during shutdown: %v", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
