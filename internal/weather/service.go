package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

var (
	ErrLocationNotFound = errors.New("location not found via geocoding")
	ErrNoWeatherData    = errors.New("unable to retrieve weather for that date range")
)

// Service computes the derived fields of a record from its location and
// date range.
type Service struct {
	geocoder   Geocoder
	forecaster Forecaster
}

// NewService creates a new Service.
func NewService(geocoder Geocoder, forecaster Forecaster) *Service {
	return &Service{
		geocoder:   geocoder,
		forecaster: forecaster,
	}
}

// Compute geocodes location and averages the daily mean temperature over r.
func (s *Service) Compute(ctx context.Context, location string, r DateRange) (Observation, error) {
	location = strings.TrimSpace(location)
	log.Printf("DEBUG: Compute called for %q from %s to %s", location, r.Start.Format(DateLayout), r.End.Format(DateLayout))

	place, err := s.geocoder.Geocode(ctx, location)
	if err != nil {
		log.Printf("geocoding failed for %q: %v", location, err)
		return Observation{}, fmt.Errorf("%w: %v", ErrLocationNotFound, err)
	}

	readings, err := s.forecaster.DailyRange(ctx, place.Latitude, place.Longitude, r.Start, r.End)
	if err != nil {
		log.Printf("daily range failed for %s: %v", place.Label(), err)
		return Observation{}, fmt.Errorf("%w: %v", ErrNoWeatherData, err)
	}

	avg, ok := AverageDailyMeans(readings)
	if !ok {
		log.Printf("no daily readings for %s", place.Label())
		return Observation{}, ErrNoWeatherData
	}

	return Observation{
		Place:           place,
		AvgTemperatureC: avg,
		Description:     Describe(len(readings)),
	}, nil
}
