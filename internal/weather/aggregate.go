package weather

import (
	"fmt"
	"math"
)

// AverageDailyMeans averages the daily means of readings, rounded to one
// decimal. ok is false when there is nothing to average.
func AverageDailyMeans(readings []DailyReading) (avg float64, ok bool) {
	if len(readings) == 0 {
		return 0, false
	}

	var sum float64
	for _, r := range readings {
		sum += r.Mean()
	}
	avg = sum / float64(len(readings))

	return math.Round(avg*10) / 10, true
}

// Describe returns the short description stored alongside the average.
func Describe(days int) string {
	return fmt.Sprintf("avg of daily means over %d day(s)", days)
}
