package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
//
// NonFinite is the observable for numerical blow-up: the solver itself
// never detects parameter instability, it only surfaces here.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	ParticleCount int `csv:"particles"`

	// Events during window
	Steps       int `csv:"steps"`
	Bounces     int `csv:"bounces"`
	FloorClamps int `csv:"floor_clamps"`

	// Field distribution (sampled at window end)
	KineticEnergy float64 `csv:"kinetic_energy"`
	MaxSpeed      float64 `csv:"max_speed"`
	DensityMean   float64 `csv:"density_mean"`
	DensityStd    float64 `csv:"density_std"`
	DensityMin    float64 `csv:"density_min"`
	DensityP10    float64 `csv:"density_p10"`
	DensityP50    float64 `csv:"density_p50"`
	DensityP90    float64 `csv:"density_p90"`
	PressureMean  float64 `csv:"pressure_mean"`
	NonFinite     int     `csv:"non_finite"`
}

// LogStats logs the window via slog.
func (s WindowStats) LogStats() {
	slog.Info("window",
		"tick", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"particles", s.ParticleCount,
		"bounces", s.Bounces,
		"floor_clamps", s.FloorClamps,
		"kinetic_energy", s.KineticEnergy,
		"max_speed", s.MaxSpeed,
		"density_mean", s.DensityMean,
		"density_min", s.DensityMin,
		"non_finite", s.NonFinite,
	)
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeFieldStats calculates mean, stddev, min and percentiles from
// sampled field values.
func ComputeFieldStats(values []float64) (mean, std, min, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if n > 1 {
		std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	min = sorted[0]
	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, min, p10, p50, p90
}
