package fluid

// Params holds the physical constants of a simulation run. All values
// are fixed when the Sim is created; the solver never mutates them.
//
// The kernel radius doubles as the boundary epsilon: after integration
// every particle position lies in [H, Domain-H] on both axes.
type Params struct {
	H            float32 // smoothing kernel support radius
	Mass         float32 // shared particle mass
	GasConstant  float32 // equation of state stiffness
	RestDensity  float32 // density at which pressure is zero
	Viscosity    float32 // viscosity constant
	GravityX     float32 // external acceleration
	GravityY     float32
	DT           float32 // fixed integration timestep
	BoundDamping float32 // velocity scale on wall contact (negative, |x| < 1)
	DomainW      float32 // domain extent, world units
	DomainH      float32
}

// DensityFloor is the smallest density used as a divisor. Degenerate
// neighborhoods can estimate a near-zero density; dividing by it would
// inject non-finite velocities that corrupt the whole field, so every
// division clamps to this floor instead.
const DensityFloor = 1e-6
