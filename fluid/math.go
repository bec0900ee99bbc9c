package fluid

import "math"

// sqrt32 returns the square root of a float32 value.
func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

// isFinite reports whether v is neither NaN nor infinite.
func isFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
