package telemetry

import "math"

// FieldSample is a point-in-time sample of the particle field, taken by
// the driver at a window boundary.
type FieldSample struct {
	Count     int
	Mass      float64   // shared particle mass, for kinetic energy
	Speeds    []float64 // |v| per particle
	Densities []float64
	Pressures []float64
}

// Collector accumulates solver events within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	steps       int
	bounces     int
	floorClamps int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		windowStartTick:     0,
	}
}

// RecordStep records one completed solver tick and its event counts.
func (c *Collector) RecordStep(bounces, floorClamps int) {
	c.steps++
	c.bounces += bounces
	c.floorClamps += floorClamps
}

// ShouldFlush reports whether the current window ends at or before tick.
func (c *Collector) ShouldFlush(tick int32) bool {
	return tick-c.windowStartTick >= c.windowDurationTicks
}

// Flush closes the current window, combining the accumulated event
// counts with the given field sample, and starts a new window.
func (c *Collector) Flush(tick int32, sample FieldSample) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		SimTimeSec:      float64(tick) * float64(c.dt),
		ParticleCount:   sample.Count,
		Steps:           c.steps,
		Bounces:         c.bounces,
		FloorClamps:     c.floorClamps,
	}

	var kinetic float64
	for _, v := range sample.Speeds {
		if !isFinite(v) {
			stats.NonFinite++
			continue
		}
		kinetic += 0.5 * sample.Mass * v * v
		if v > stats.MaxSpeed {
			stats.MaxSpeed = v
		}
	}
	stats.KineticEnergy = kinetic

	for _, d := range sample.Densities {
		if !isFinite(d) {
			stats.NonFinite++
		}
	}

	stats.DensityMean, stats.DensityStd, stats.DensityMin,
		stats.DensityP10, stats.DensityP50, stats.DensityP90 = ComputeFieldStats(sample.Densities)

	if len(sample.Pressures) > 0 {
		mean, _, _, _, _, _ := ComputeFieldStats(sample.Pressures)
		stats.PressureMean = mean
	}

	// Start next window
	c.windowStartTick = tick
	c.steps = 0
	c.bounces = 0
	c.floorClamps = 0

	return stats
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
