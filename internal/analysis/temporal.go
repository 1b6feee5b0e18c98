// Package analysis turns asset lifecycle data and maintenance forecasts into
// maintenance and replacement decisions. Every function is pure and takes the
// reference instant explicitly.
package analysis

import (
	"math"
	"time"
)

const (
	day = 24 * time.Hour

	// month is a fixed 30-day approximation, not a calendar month.
	month = 30 * day
)

// DaysUntil returns ceil((date - now) / 1 day). Negative values are overdue.
func DaysUntil(date, now time.Time) int {
	return ceilDiv(date.Sub(now), day)
}

// MonthsUntil returns ceil((date - now) / 30 days).
func MonthsUntil(date, now time.Time) int {
	return ceilDiv(date.Sub(now), month)
}

// AgeYears returns how many calendar years have passed since the acquisition
// year, or 0 when the year is unknown or in the future.
func AgeYears(acquisitionYear int, now time.Time) int {
	if acquisitionYear <= 0 {
		return 0
	}
	age := now.UTC().Year() - acquisitionYear
	if age < 0 {
		return 0
	}
	return age
}

func ceilDiv(d, unit time.Duration) int {
	return int(math.Ceil(float64(d) / float64(unit)))
}
