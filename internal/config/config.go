package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// APIBase is the remote record store base URL.
	APIBase string

	// HTTPTimeout bounds each client request (0 = no timeout).
	HTTPTimeout time.Duration

	// Transport circuit breaker.
	BreakerMaxFailures uint32        // consecutive failures before opening (0 = off)
	BreakerOpenTimeout time.Duration // how long the breaker stays open

	// RefreshInterval controls periodic list refreshes (0 = off).
	RefreshInterval time.Duration

	// KeepDraftOnFailedSave keeps an edit open when its save fails.
	KeepDraftOnFailedSave bool

	ExportDir string

	// Reference server settings.
	Port            string
	CORSOrigins     string
	GeocodingURL    string
	ForecastURL     string
	StoreMaxRecords int // 0 = unlimited
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.APIBase = getenvDefault("WEATHER_API_BASE", "http://127.0.0.1:5000")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "0s"); err != nil {
		return nil, err
	}
	if cfg.BreakerOpenTimeout, err = getenvDuration("BREAKER_OPEN_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0s"); err != nil {
		return nil, err
	}
	cfg.BreakerMaxFailures = uint32(getenvInt("BREAKER_MAX_FAILURES", 0))

	keep, err := strconv.ParseBool(getenvDefault("EDIT_KEEP_DRAFT_ON_FAILURE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid EDIT_KEEP_DRAFT_ON_FAILURE: %w", err)
	}
	cfg.KeepDraftOnFailedSave = keep

	cfg.ExportDir = getenvDefault("EXPORT_DIR", ".")

	cfg.Port = getenvDefault("PORT", "5000")
	cfg.CORSOrigins = getenvDefault("CORS_ORIGINS", "*")
	cfg.GeocodingURL = os.Getenv("GEOCODING_URL")
	cfg.ForecastURL = os.Getenv("FORECAST_URL")
	cfg.StoreMaxRecords = getenvInt("STORE_MAX_RECORDS", 0)

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
