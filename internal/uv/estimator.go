package uv

import (
	"math"
	"time"
)

const estimatorBaseUV = 8.0

// Estimate returns a plausible UV index for the wall-clock time of now.
// It is a pure function of hour, minute and month and never does I/O.
func Estimate(now time.Time) float64 {
	hour, minute, month := now.Hour(), now.Minute(), now.Month()

	start, end := daylightWindow(month)
	if hour < start || hour > end {
		return 0
	}

	decimalHour := float64(hour) + float64(minute)/60
	estimated := estimatorBaseUV * seasonalFactor(month) * hourFactor(decimalHour)
	return math.Round(estimated*10) / 10
}

// daylightWindow returns the first and last hour with any UV.
func daylightWindow(month time.Month) (int, int) {
	switch month {
	case time.June, time.July, time.August:
		return 5, 21
	case time.April, time.May, time.September, time.October:
		return 6, 19
	default:
		return 7, 17
	}
}

func seasonalFactor(month time.Month) float64 {
	switch month {
	case time.June, time.July, time.August:
		return 1.2
	case time.December, time.January, time.February:
		return 0.5
	case time.March, time.April, time.May:
		return 0.8
	default:
		return 0.7
	}
}

func hourFactor(decimalHour float64) float64 {
	if decimalHour >= 12 && decimalHour <= 14 {
		return 1.0
	}
	distance := math.Min(math.Abs(decimalHour-13), 7)
	return math.Max(0.1, 1-distance/7)
}
