package utils

import "math"

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RoundPct rounds a percentage to the nearest integer, half away from zero.
func RoundPct(v float64) int {
	return int(math.Round(v))
}
