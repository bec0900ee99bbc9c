// Package fluid implements a 2-D smoothed particle hydrodynamics solver.
//
// Each tick runs three stages in fixed order: density/pressure
// estimation, force accumulation, and semi-implicit Euler integration
// with boundary reflection. Every stage reads the snapshot taken at the
// start of the tick, so all particles see a consistent previous state;
// stage outputs are written into per-index buffers and applied back to
// the world only after the last stage completes.
package fluid

import (
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/brine/components"
)

// Particle is the per-tick snapshot of one particle's persistent state.
type Particle struct {
	Entity ecs.Entity
	X, Y   float32 // position at tick start
	VX, VY float32 // velocity at tick start
}

// Options configures solver behavior that is independent of the physics.
type Options struct {
	Seed       int64   // RNG seed for layout jitter (0 = time-based)
	Workers    int     // worker goroutines for the per-particle loops (0 = GOMAXPROCS)
	BruteForce bool    // scan all pairs instead of the spatial grid
	CellSize   float32 // neighbor grid cell size (0 = kernel radius)
}

// Sim owns the particle population and advances it one fixed timestep
// per Step call. It is not safe for concurrent use; the external driver
// must not overlap Step with any read.
type Sim struct {
	params Params
	kern   Kernels
	opts   Options
	rng    *rand.Rand

	world  *ecs.World
	mapper *ecs.Map3[components.Position, components.Velocity, components.Field]
	filter *ecs.Filter3[components.Position, components.Velocity, components.Field]

	posMap   *ecs.Map1[components.Position]
	velMap   *ecs.Map1[components.Velocity]
	fieldMap *ecs.Map1[components.Field]

	grid     *Grid
	parallel *parallelState

	// Tick-local buffers, all indexed by snapshot position. Densities,
	// pressures and forces are fully recomputed every tick and never
	// carried over.
	snap   []Particle
	dens   []float32
	pres   []float32
	fx, fy []float32
	outPos []components.Position
	outVel []components.Velocity

	count   int
	tick    int32
	bounces int // wall contacts during the last Step
	clamps  int // density floor engagements during the last Step
}

// NewSim creates an empty simulation for the given physical constants.
func NewSim(params Params, opts Options) *Sim {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Sim{
		params: params,
		kern:   NewKernels(params.H),
		opts:   opts,
		rng:    rand.New(rand.NewSource(seed)),
		snap:   make([]Particle, 0, 512),
	}
	s.initWorld()

	if !opts.BruteForce {
		cell := opts.CellSize
		if cell <= 0 {
			cell = params.H
		}
		s.grid = NewGrid(params.DomainW, params.DomainH, cell)
	}
	s.parallel = newParallelState(opts.Workers)

	return s
}

// initWorld builds a fresh ECS world and its accessors.
func (s *Sim) initWorld() {
	world := ecs.NewWorld()
	s.world = world
	s.mapper = ecs.NewMap3[components.Position, components.Velocity, components.Field](world)
	s.filter = ecs.NewFilter3[components.Position, components.Velocity, components.Field](world)
	s.posMap = ecs.NewMap1[components.Position](world)
	s.velMap = ecs.NewMap1[components.Velocity](world)
	s.fieldMap = ecs.NewMap1[components.Field](world)
}

// Init lays out a dam-break block of particles: rows spaced H starting
// one epsilon above the floor, columns from one seventh to one half of
// the domain width, with a small uniform x-jitter per particle to break
// the lattice. Creation stops at limit; a limit of zero or less yields
// an empty population.
func (s *Sim) Init(limit int) {
	eps := s.params.H
	for y := eps; y < s.params.DomainH-eps*2; y += s.params.H {
		for x := s.params.DomainW / 7; x <= s.params.DomainW/2; x += s.params.H {
			if s.count >= limit {
				return
			}
			jitter := s.rng.Float32()
			pos := components.Position{X: x + jitter, Y: y}
			vel := components.Velocity{}
			field := components.Field{}
			s.mapper.NewEntity(&pos, &vel, &field)
			s.count++
		}
	}
}

// Reset discards all particles. A subsequent Init repopulates from scratch.
func (s *Sim) Reset() {
	s.initWorld()
	s.snap = s.snap[:0]
	s.count = 0
	s.bounces = 0
	s.clamps = 0
}

// Count returns the current particle population size.
func (s *Sim) Count() int {
	return s.count
}

// Tick returns the number of completed Step calls.
func (s *Sim) Tick() int32 {
	return s.tick
}

// LastBounces returns the number of wall contacts during the last Step.
func (s *Sim) LastBounces() int {
	return s.bounces
}

// LastFloorClamps returns how often the density floor guard engaged
// during the last Step. A nonzero value means the population was sparse
// enough for near-empty neighborhoods.
func (s *Sim) LastFloorClamps() int {
	return s.clamps
}

// Step advances the simulation one timestep: density/pressure, forces,
// integration, then a single write-back pass into the world.
func (s *Sim) Step() {
	s.buildSnapshot()
	n := len(s.snap)
	if n == 0 {
		s.tick++
		return
	}

	if s.grid != nil {
		s.grid.Clear()
		for i := range s.snap {
			s.grid.Insert(int32(i), s.snap[i].X, s.snap[i].Y)
		}
	}

	s.parallel.run(s, phaseDensity, n)
	s.parallel.run(s, phaseForces, n)
	s.parallel.run(s, phaseIntegrate, n)

	s.bounces = 0
	s.clamps = 0
	for i := range s.parallel.scratches {
		sc := &s.parallel.scratches[i]
		s.bounces += sc.bounces
		s.clamps += sc.clamps
		sc.bounces = 0
		sc.clamps = 0
	}

	s.apply()
	s.tick++
}

// buildSnapshot freezes positions and velocities for this tick and
// resizes the per-index output buffers.
func (s *Sim) buildSnapshot() {
	s.snap = s.snap[:0]

	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, vel, _ := query.Get()
		s.snap = append(s.snap, Particle{
			Entity: entity,
			X:      pos.X,
			Y:      pos.Y,
			VX:     vel.X,
			VY:     vel.Y,
		})
	}

	n := len(s.snap)
	if cap(s.dens) < n {
		s.dens = make([]float32, n)
		s.pres = make([]float32, n)
		s.fx = make([]float32, n)
		s.fy = make([]float32, n)
		s.outPos = make([]components.Position, n)
		s.outVel = make([]components.Velocity, n)
	}
	s.dens = s.dens[:n]
	s.pres = s.pres[:n]
	s.fx = s.fx[:n]
	s.fy = s.fy[:n]
	s.outPos = s.outPos[:n]
	s.outVel = s.outVel[:n]
}

// gatherNeighbors fills scratch with every particle within the kernel
// radius of (x, y), itself included.
func (s *Sim) gatherNeighbors(dst []Neighbor, x, y float32) []Neighbor {
	if s.grid != nil {
		return s.grid.QueryRadiusInto(dst, x, y, s.kern.H, s.snap)
	}

	h2 := s.kern.H2
	for j := range s.snap {
		p := &s.snap[j]
		dx := p.X - x
		dy := p.Y - y
		distSq := dx*dx + dy*dy
		if distSq <= h2 {
			dst = append(dst, Neighbor{Index: int32(j), DX: dx, DY: dy, DistSq: distSq})
		}
	}
	return dst
}

// densityChunk estimates density and pressure for snapshot indices
// [i0, i1). The self term always contributes since its distance is zero.
func (s *Sim) densityChunk(i0, i1 int, scratch *workerScratch) {
	mass := s.params.Mass
	for i := i0; i < i1; i++ {
		p := &s.snap[i]
		scratch.neighbors = s.gatherNeighbors(scratch.neighbors[:0], p.X, p.Y)

		var rho float32
		for _, n := range scratch.neighbors {
			rho += mass * s.kern.Weight(n.DistSq)
		}

		s.dens[i] = rho
		s.pres[i] = s.params.GasConstant * (rho - s.params.RestDensity)
	}
}

// forcesChunk accumulates pressure, viscosity and gravity forces for
// snapshot indices [i0, i1). A particle never pairs with itself here;
// only the density estimate includes the self term.
func (s *Sim) forcesChunk(i0, i1 int, scratch *workerScratch) {
	mass := s.params.Mass
	visc := s.params.Viscosity
	h2 := s.kern.H2

	for i := i0; i < i1; i++ {
		p := &s.snap[i]
		scratch.neighbors = s.gatherNeighbors(scratch.neighbors[:0], p.X, p.Y)

		var fpx, fpy, fvx, fvy float32
		for _, n := range scratch.neighbors {
			j := int(n.Index)
			if j == i {
				continue
			}
			if n.DistSq >= h2 {
				continue
			}

			r := sqrt32(n.DistSq)
			rhoJ := s.dens[j]
			if rhoJ < DensityFloor {
				rhoJ = DensityFloor
				scratch.clamps++
			}

			// Symmetrized pressure term: averaging p_i and p_j keeps the
			// pairwise forces equal and opposite.
			if r > 0 {
				common := mass * (s.pres[i] + s.pres[j]) / (2 * rhoJ) * s.kern.Gradient(r)
				inv := 1 / r
				fpx += -n.DX * inv * common
				fpy += -n.DY * inv * common
			}

			lap := visc * mass * s.kern.Laplacian(r) / rhoJ
			fvx += lap * (s.snap[j].VX - p.VX)
			fvy += lap * (s.snap[j].VY - p.VY)
		}

		// Gravity enters as mass/density scaled force; the integrator
		// divides by density once more.
		rhoI := s.dens[i]
		if rhoI < DensityFloor {
			rhoI = DensityFloor
			scratch.clamps++
		}
		s.fx[i] = fpx + fvx + s.params.GravityX*mass/rhoI
		s.fy[i] = fpy + fvy + s.params.GravityY*mass/rhoI
	}
}

// integrateChunk advances snapshot indices [i0, i1) one timestep:
// velocity first, then position from the new velocity, then the per-axis
// boundary clamp with damped reflection.
func (s *Sim) integrateChunk(i0, i1 int, scratch *workerScratch) {
	dt := s.params.DT
	eps := s.params.H
	damp := s.params.BoundDamping
	w := s.params.DomainW
	h := s.params.DomainH

	for i := i0; i < i1; i++ {
		p := &s.snap[i]

		rho := s.dens[i]
		if rho < DensityFloor {
			rho = DensityFloor
			scratch.clamps++
		}

		vx := p.VX + dt*s.fx[i]/rho
		vy := p.VY + dt*s.fy[i]/rho
		px := p.X + dt*vx
		py := p.Y + dt*vy

		if px-eps < 0 {
			vx *= damp
			px = eps
			scratch.bounces++
		}
		if px+eps > w {
			vx *= damp
			px = w - eps
			scratch.bounces++
		}
		if py-eps < 0 {
			vy *= damp
			py = eps
			scratch.bounces++
		}
		if py+eps > h {
			vy *= damp
			py = h - eps
			scratch.bounces++
		}

		s.outPos[i] = components.Position{X: px, Y: py}
		s.outVel[i] = components.Velocity{X: vx, Y: vy}
	}
}

// apply writes the tick results back into the world.
func (s *Sim) apply() {
	for i := range s.snap {
		entity := s.snap[i].Entity

		pos := s.posMap.Get(entity)
		vel := s.velMap.Get(entity)
		field := s.fieldMap.Get(entity)
		if pos == nil || vel == nil || field == nil {
			continue
		}

		*pos = s.outPos[i]
		*vel = s.outVel[i]
		field.Density = s.dens[i]
		field.Pressure = s.pres[i]
	}
}

// SnapshotInto appends the current particle positions to dst and
// returns the updated slice. The order is stable for the duration of a
// tick. Must not be called concurrently with Step.
func (s *Sim) SnapshotInto(dst []components.Position) []components.Position {
	query := s.filter.Query()
	for query.Next() {
		pos, _, _ := query.Get()
		dst = append(dst, *pos)
	}
	return dst
}

// FieldsInto appends the density/pressure values from the last
// completed tick to dst, in snapshot order.
func (s *Sim) FieldsInto(dst []components.Field) []components.Field {
	query := s.filter.Query()
	for query.Next() {
		_, _, field := query.Get()
		dst = append(dst, *field)
	}
	return dst
}

// VelocitiesInto appends the current particle velocities to dst.
func (s *Sim) VelocitiesInto(dst []components.Velocity) []components.Velocity {
	query := s.filter.Query()
	for query.Next() {
		_, vel, _ := query.Get()
		dst = append(dst, *vel)
	}
	return dst
}

// Params returns the physical constants of this run.
func (s *Sim) Params() Params {
	return s.params
}

// Close stops the worker pool. The Sim must not be stepped afterwards.
func (s *Sim) Close() {
	s.parallel.stopWorkers()
}
