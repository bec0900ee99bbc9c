// Package components defines ECS components for the simulation.
package components

// Position represents a particle's world position.
type Position struct {
	X, Y float32
}

// Velocity represents a particle's velocity.
type Velocity struct {
	X, Y float32
}

// Field holds the kernel-estimated fluid quantities at a particle.
// Both values are recomputed from scratch every tick; they are stored
// on the entity only so that readers (renderer, telemetry) can sample
// the result of the last completed tick.
type Field struct {
	Density  float32
	Pressure float32
}
