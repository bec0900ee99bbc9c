package telemetry

import (
	"math"
	"testing"
)

func TestCollectorWindowBoundaries(t *testing.T) {
	// 1 second windows at dt=0.001 -> 1000 ticks per window
	c := NewCollector(1.0, 0.001)

	if c.ShouldFlush(999) {
		t.Error("ShouldFlush(999) = true, want false")
	}
	if !c.ShouldFlush(1000) {
		t.Error("ShouldFlush(1000) = false, want true")
	}

	c.Flush(1000, FieldSample{})

	if c.ShouldFlush(1500) {
		t.Error("ShouldFlush(1500) after flush at 1000 = true, want false")
	}
	if !c.ShouldFlush(2000) {
		t.Error("ShouldFlush(2000) after flush at 1000 = false, want true")
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	// Window shorter than one tick clamps to one tick.
	c := NewCollector(0.0001, 0.001)

	if !c.ShouldFlush(1) {
		t.Error("ShouldFlush(1) = false, want true for a one-tick window")
	}
}

func TestCollectorAccumulatesEvents(t *testing.T) {
	c := NewCollector(1.0, 0.001)

	c.RecordStep(3, 0)
	c.RecordStep(2, 1)
	c.RecordStep(0, 0)

	stats := c.Flush(1000, FieldSample{Count: 10})

	if stats.Steps != 3 {
		t.Errorf("Steps = %d, want 3", stats.Steps)
	}
	if stats.Bounces != 5 {
		t.Errorf("Bounces = %d, want 5", stats.Bounces)
	}
	if stats.FloorClamps != 1 {
		t.Errorf("FloorClamps = %d, want 1", stats.FloorClamps)
	}
	if stats.ParticleCount != 10 {
		t.Errorf("ParticleCount = %d, want 10", stats.ParticleCount)
	}
	if math.Abs(stats.SimTimeSec-1.0) > 1e-9 {
		t.Errorf("SimTimeSec = %v, want 1.0", stats.SimTimeSec)
	}

	// Flush resets the counters for the next window
	stats = c.Flush(2000, FieldSample{})
	if stats.Steps != 0 || stats.Bounces != 0 || stats.FloorClamps != 0 {
		t.Errorf("counters after reset: steps=%d bounces=%d clamps=%d, want all 0",
			stats.Steps, stats.Bounces, stats.FloorClamps)
	}
	if stats.WindowStartTick != 1000 {
		t.Errorf("WindowStartTick = %d, want 1000", stats.WindowStartTick)
	}
}

func TestCollectorKineticEnergy(t *testing.T) {
	c := NewCollector(1.0, 0.001)

	sample := FieldSample{
		Count:  3,
		Mass:   2.0,
		Speeds: []float64{1, 2, 3},
	}
	stats := c.Flush(1000, sample)

	// 0.5 * 2 * (1 + 4 + 9) = 14
	if math.Abs(stats.KineticEnergy-14.0) > 1e-9 {
		t.Errorf("KineticEnergy = %v, want 14.0", stats.KineticEnergy)
	}
	if stats.MaxSpeed != 3.0 {
		t.Errorf("MaxSpeed = %v, want 3.0", stats.MaxSpeed)
	}
}

func TestCollectorCountsNonFinite(t *testing.T) {
	c := NewCollector(1.0, 0.001)

	sample := FieldSample{
		Count:     3,
		Mass:      1.0,
		Speeds:    []float64{1, math.NaN(), math.Inf(1)},
		Densities: []float64{300, math.NaN(), 310},
	}
	stats := c.Flush(1000, sample)

	if stats.NonFinite != 3 {
		t.Errorf("NonFinite = %d, want 3", stats.NonFinite)
	}

	// Non-finite speeds must not poison the energy sum.
	if math.Abs(stats.KineticEnergy-0.5) > 1e-9 {
		t.Errorf("KineticEnergy = %v, want 0.5", stats.KineticEnergy)
	}
}

func TestCollectorDensityStats(t *testing.T) {
	c := NewCollector(1.0, 0.001)

	sample := FieldSample{
		Count:     4,
		Densities: []float64{290, 300, 310, 320},
		Pressures: []float64{-100, 0, 100, 200},
	}
	stats := c.Flush(1000, sample)

	if math.Abs(stats.DensityMean-305) > 1e-9 {
		t.Errorf("DensityMean = %v, want 305", stats.DensityMean)
	}
	if stats.DensityMin != 290 {
		t.Errorf("DensityMin = %v, want 290", stats.DensityMin)
	}
	if math.Abs(stats.PressureMean-50) > 1e-9 {
		t.Errorf("PressureMean = %v, want 50", stats.PressureMean)
	}
}
