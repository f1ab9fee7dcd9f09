package weather

import (
	"context"
	"time"
)

// Geocoder resolves free text to a place (e.g. Open-Meteo geocoding).
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Place, error)
}

// Forecaster returns daily temperature extremes for a date range.
type Forecaster interface {
	DailyRange(ctx context.Context, lat, lon float64, start, end time.Time) ([]DailyReading, error)
}
