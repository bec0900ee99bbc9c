// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Grid      GridConfig      `yaml:"grid"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds simulation domain dimensions in world units.
// The domain is a closed box; the camera handles the viewport.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// FluidConfig holds the physical constants of the fluid.
// All values are fixed at initialization; the timestep is not adaptive.
type FluidConfig struct {
	KernelRadius    float64 `yaml:"kernel_radius"`     // smoothing kernel support H (also boundary epsilon)
	ParticleMass    float64 `yaml:"particle_mass"`     // all particles share one mass
	GasConstant     float64 `yaml:"gas_constant"`      // equation of state stiffness
	RestDensity     float64 `yaml:"rest_density"`      // density at which pressure is zero
	Viscosity       float64 `yaml:"viscosity"`         // viscosity constant
	GravityX        float64 `yaml:"gravity_x"`         // external acceleration, world units
	GravityY        float64 `yaml:"gravity_y"`
	DT              float64 `yaml:"dt"`                // integration timestep
	BoundDamping    float64 `yaml:"bound_damping"`     // velocity scale on wall contact (negative, |x| < 1)
	MaxParticles    int     `yaml:"max_particles"`     // cap for the dam-break layout
	UpdatesPerFrame int     `yaml:"updates_per_frame"` // simulation ticks per rendered frame
}

// GridConfig holds spatial grid acceleration parameters.
type GridConfig struct {
	Enabled  bool    `yaml:"enabled"`
	CellSize float64 `yaml:"cell_size"` // 0 = use kernel radius
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // window length in simulation seconds
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // ticks averaged per perf report
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Fluid.DT as float32
	WorldW32  float32 // World.Width as float32
	WorldH32  float32 // World.Height as float32
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	CellSize  float32 // effective grid cell size
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Fluid.DT)
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldH32 = float32(c.World.Height)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	cellSize := c.Grid.CellSize
	if cellSize <= 0 {
		cellSize = c.Fluid.KernelRadius
	}
	c.Derived.CellSize = float32(cellSize)

	if c.Fluid.UpdatesPerFrame < 1 {
		c.Fluid.UpdatesPerFrame = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
