package game

import "math"

// sqrt64 is a shorthand for math.Sqrt on already-widened values.
func sqrt64(v float64) float64 {
	return math.Sqrt(v)
}

// clamp32 clamps v to [lo, hi].
func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
