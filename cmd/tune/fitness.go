package main

import (
	"math"

	"github.com/pthm-cable/brine/components"
	"github.com/pthm-cable/brine/config"
	"github.com/pthm-cable/brine/fluid"
)

// blowupSpeed is the velocity magnitude past which a run counts as
// numerically unstable even while all values are still finite.
const blowupSpeed = 1e5

// FitnessEvaluator runs headless solver loops and scores parameter sets.
// Lower fitness is better: stable runs are rewarded by how much
// simulated time one tick covers at what stiffness, unstable runs are
// penalized by how early they blew up.
type FitnessEvaluator struct {
	params    *ParamVector
	maxTicks  int32
	seeds     []int64
	particles int
	baseCfg   *config.Config

	lastSurvived float64 // fraction of maxTicks survived in the last Evaluate
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, particles int, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:    params,
		maxTicks:  maxTicks,
		seeds:     seeds,
		particles: particles,
		baseCfg:   baseCfg,
	}
}

// LastSurvived returns the mean survived fraction of the most recent
// evaluation.
func (fe *FitnessEvaluator) LastSurvived() float64 {
	return fe.lastSurvived
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	raw = fe.params.Clamp(raw)

	simParams := fluid.Params{
		H:            float32(fe.baseCfg.Fluid.KernelRadius),
		Mass:         float32(fe.baseCfg.Fluid.ParticleMass),
		RestDensity:  float32(fe.baseCfg.Fluid.RestDensity),
		GravityX:     float32(fe.baseCfg.Fluid.GravityX),
		GravityY:     float32(fe.baseCfg.Fluid.GravityY),
		BoundDamping: float32(fe.baseCfg.Fluid.BoundDamping),
		DomainW:      float32(fe.baseCfg.World.Width),
		DomainH:      float32(fe.baseCfg.World.Height),
	}
	var dt, gas, visc float64
	for i, spec := range fe.params.Specs {
		switch spec.Name {
		case "dt":
			dt = raw[i]
		case "gas_constant":
			gas = raw[i]
		case "viscosity":
			visc = raw[i]
		}
	}
	simParams.DT = float32(dt)
	simParams.GasConstant = float32(gas)
	simParams.Viscosity = float32(visc)

	var total float64
	var survivedSum float64
	for _, seed := range fe.seeds {
		frac := fe.runSeed(simParams, seed)
		survivedSum += frac

		if frac >= 1.0 {
			// Stable: reward covering more simulated time per tick at
			// higher stiffness.
			total += -dt * math.Sqrt(gas)
		} else {
			total += (1.0 - frac) * 10.0
		}
	}
	fe.lastSurvived = survivedSum / float64(len(fe.seeds))

	return total / float64(len(fe.seeds))
}

// runSeed runs one simulation and returns the fraction of maxTicks it
// stayed stable.
func (fe *FitnessEvaluator) runSeed(params fluid.Params, seed int64) float64 {
	sim := fluid.NewSim(params, fluid.Options{Seed: seed})
	defer sim.Close()
	sim.Init(fe.particles)

	const checkEvery = 25

	var vels []components.Velocity
	for t := int32(0); t < fe.maxTicks; t++ {
		sim.Step()

		if t%checkEvery != 0 && t != fe.maxTicks-1 {
			continue
		}

		vels = sim.VelocitiesInto(vels[:0])
		for _, v := range vels {
			vx := float64(v.X)
			vy := float64(v.Y)
			speed := math.Sqrt(vx*vx + vy*vy)
			if math.IsNaN(speed) || math.IsInf(speed, 0) || speed > blowupSpeed {
				return float64(t) / float64(fe.maxTicks)
			}
		}
	}

	return 1.0
}
