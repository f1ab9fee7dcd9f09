package weather

import (
	"errors"
	"time"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate   = errors.New("Date must be YYYY-MM-DD")
	ErrInvertedRange = errors.New("start_date cannot be after end_date")
)

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ParseDateRange parses both ends and requires start <= end.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	if s.After(e) {
		return DateRange{}, ErrInvertedRange
	}
	return DateRange{Start: s, End: e}, nil
}
