// Package game drives the fluid solver: input, frame pacing, rendering
// and telemetry. The solver itself lives in the fluid package and only
// ever sees init/reset/step commands from here.
package game

import (
	"log/slog"

	"github.com/pthm-cable/brine/camera"
	"github.com/pthm-cable/brine/components"
	"github.com/pthm-cable/brine/config"
	"github.com/pthm-cable/brine/fluid"
	"github.com/pthm-cable/brine/inspector"
	"github.com/pthm-cable/brine/telemetry"
)

// PositionSink receives the particle positions of a completed frame.
// Implemented by the websocket broadcaster.
type PositionSink interface {
	Broadcast(positions []components.Position)
}

// Options configures a game instance.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	StepsPerUpdate int
	Sink           PositionSink
}

// Game holds the complete driver state.
type Game struct {
	sim  *fluid.Sim
	cam  *camera.Camera
	ins  *inspector.Inspector
	opts Options

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager

	paused        bool
	stepsPerFrame int // ticks per rendered frame (speed multiplier)
	showPanel     bool

	// pending panel values, applied on rebuild
	panelGas       float32
	panelViscosity float32
	panelGravityY  float32

	// reusable sampling buffers
	positions []components.Position
	fields    []components.Field
	vels      []components.Velocity
	speeds64  []float64
	dens64    []float64
	pres64    []float64
}

// NewGameWithOptions creates a game instance. Config must be initialized.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		opts:          opts,
		stepsPerFrame: cfg.Fluid.UpdatesPerFrame,
		collector:     telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
	}

	g.sim = fluid.NewSim(paramsFromConfig(cfg), g.simOptions(cfg))
	g.sim.Init(cfg.Fluid.MaxParticles)

	g.cam = camera.New(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32,
		cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	g.ins = inspector.New(int32(cfg.Screen.Width), int32(cfg.Screen.Height))

	g.panelGas = float32(cfg.Fluid.GasConstant)
	g.panelViscosity = float32(cfg.Fluid.Viscosity)
	g.panelGravityY = float32(cfg.Fluid.GravityY)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	} else {
		g.output = output
		if err := g.output.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
	}

	return g
}

// config returns the active configuration.
func (g *Game) config() *config.Config {
	return config.Cfg()
}

// simOptions maps the config and CLI options onto solver options.
func (g *Game) simOptions(cfg *config.Config) fluid.Options {
	return fluid.Options{
		Seed:       g.opts.Seed,
		BruteForce: !cfg.Grid.Enabled,
		CellSize:   cfg.Derived.CellSize,
	}
}

// paramsFromConfig maps the fluid section onto solver constants.
func paramsFromConfig(cfg *config.Config) fluid.Params {
	return fluid.Params{
		H:            float32(cfg.Fluid.KernelRadius),
		Mass:         float32(cfg.Fluid.ParticleMass),
		GasConstant:  float32(cfg.Fluid.GasConstant),
		RestDensity:  float32(cfg.Fluid.RestDensity),
		Viscosity:    float32(cfg.Fluid.Viscosity),
		GravityX:     float32(cfg.Fluid.GravityX),
		GravityY:     float32(cfg.Fluid.GravityY),
		DT:           cfg.Derived.DT32,
		BoundDamping: float32(cfg.Fluid.BoundDamping),
		DomainW:      cfg.Derived.WorldW32,
		DomainH:      cfg.Derived.WorldH32,
	}
}

// Tick returns the solver tick count.
func (g *Game) Tick() int32 {
	return g.sim.Tick()
}

// Update advances the simulation for one rendered frame.
func (g *Game) Update() {
	g.handleInput()

	if !g.paused {
		for i := 0; i < g.stepsPerFrame; i++ {
			g.stepOnce()
		}
	}

	g.perf.RecordFrame()
	g.broadcast()
}

// UpdateHeadless advances the simulation without graphics.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.opts.StepsPerUpdate; i++ {
		g.stepOnce()
	}
	g.broadcast()
}

// stepOnce runs one solver tick plus telemetry bookkeeping.
func (g *Game) stepOnce() {
	g.perf.StartTick()
	g.perf.StartPhase(telemetry.PhaseStep)

	g.sim.Step()

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordStep(g.sim.LastBounces(), g.sim.LastFloorClamps())

	if g.collector.ShouldFlush(g.sim.Tick()) {
		g.flushWindow()
	}

	g.perf.EndTick()
}

// flushWindow closes the current stats window and emits it.
func (g *Game) flushWindow() {
	stats := g.collector.Flush(g.sim.Tick(), g.sampleField())

	if g.opts.LogStats {
		stats.LogStats()
		g.perf.Stats().LogStats()
	}
	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.output.WritePerf(g.perf.Stats(), stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf stats", "error", err)
	}
}

// sampleField extracts the per-particle quantities telemetry needs.
func (g *Game) sampleField() telemetry.FieldSample {
	g.fields = g.sim.FieldsInto(g.fields[:0])
	g.vels = g.sim.VelocitiesInto(g.vels[:0])

	g.speeds64 = g.speeds64[:0]
	g.dens64 = g.dens64[:0]
	g.pres64 = g.pres64[:0]

	for _, v := range g.vels {
		s64 := float64(v.X)*float64(v.X) + float64(v.Y)*float64(v.Y)
		g.speeds64 = append(g.speeds64, sqrt64(s64))
	}
	for _, f := range g.fields {
		g.dens64 = append(g.dens64, float64(f.Density))
		g.pres64 = append(g.pres64, float64(f.Pressure))
	}

	return telemetry.FieldSample{
		Count:     g.sim.Count(),
		Mass:      float64(g.sim.Params().Mass),
		Speeds:    g.speeds64,
		Densities: g.dens64,
		Pressures: g.pres64,
	}
}

// broadcast pushes current positions to the sink, if any.
func (g *Game) broadcast() {
	if g.opts.Sink == nil {
		return
	}
	g.positions = g.sim.SnapshotInto(g.positions[:0])
	g.opts.Sink.Broadcast(g.positions)
}

// restart discards the population and relays the dam-break block using
// the possibly panel-adjusted constants.
func (g *Game) restart() {
	cfg := g.config()
	cfg.Fluid.GasConstant = float64(g.panelGas)
	cfg.Fluid.Viscosity = float64(g.panelViscosity)
	cfg.Fluid.GravityY = float64(g.panelGravityY)

	g.sim.Close()
	g.sim = fluid.NewSim(paramsFromConfig(cfg), g.simOptions(cfg))
	g.sim.Init(cfg.Fluid.MaxParticles)
	g.ins.Deselect()

	Logf("reset: %d particles", g.sim.Count())
}

// Unload releases resources. The game must not be updated afterwards.
func (g *Game) Unload() {
	g.sim.Close()
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
