package weather

import "time"

// Place is a geocoded location.
type Place struct {
	Name        string  `json:"name"`
	CountryCode string  `json:"country_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Label is the display name stored on records, e.g. "Paris, FR".
func (p Place) Label() string {
	return p.Name + ", " + p.CountryCode
}

// DailyReading holds one day's temperature extremes in Celsius.
type DailyReading struct {
	Date string
	MaxC float64
	MinC float64
}

// Mean is the midpoint of the day's extremes.
func (d DailyReading) Mean() float64 {
	return (d.MaxC + d.MinC) / 2.0
}

// DateRange is an inclusive range of calendar days (UTC midnights).
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Observation is the server-computed part of a weather record.
type Observation struct {
	Place           Place
	AvgTemperatureC float64
	Description     string
}
