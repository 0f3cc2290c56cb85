package services

import (
	"math"
	"strconv"
)

// roundHalfUp rounds to the nearest integer with halves going up.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// RoundMiles rounds a distance to the nearest half mile.
func RoundMiles(miles float64) float64 {
	return roundHalfUp(miles*2) / 2
}

// RoundMinutes converts seconds to whole minutes.
func RoundMinutes(seconds float64) int {
	return int(roundHalfUp(seconds / 60))
}

// FormatDistance renders miles rounded to the nearest half mile.
// Rounded values in [0.5, 1.5) read as singular, so "0.5 mile" and "1 mile".
func FormatDistance(miles float64) string {
	calc := RoundMiles(miles)

	unit := " miles"
	if calc >= 0.5 && calc < 1.5 {
		unit = " mile"
	}

	return strconv.FormatFloat(calc, 'f', -1, 64) + unit
}

// FormatDuration renders seconds as "n minutes" or "h hours m minutes".
func FormatDuration(seconds float64) string {
	calc := RoundMinutes(seconds)

	unit := " minutes"
	if calc%60 == 1 {
		unit = " minute"
	}

	if calc < 60 {
		return strconv.Itoa(calc) + unit
	}

	hours := calc / 60
	hourUnit := " hours "
	if hours == 1 {
		hourUnit = " hour "
	}

	return strconv.Itoa(hours) + hourUnit + strconv.Itoa(calc%60) + unit
}
