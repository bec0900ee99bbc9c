package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.Fluid.KernelRadius != 16.0 {
		t.Errorf("KernelRadius = %v, want 16.0", cfg.Fluid.KernelRadius)
	}
	if cfg.Fluid.RestDensity != 300.0 {
		t.Errorf("RestDensity = %v, want 300.0", cfg.Fluid.RestDensity)
	}
	if cfg.Fluid.BoundDamping != -0.5 {
		t.Errorf("BoundDamping = %v, want -0.5", cfg.Fluid.BoundDamping)
	}
	if cfg.World.Width != 1000.0 || cfg.World.Height != 1000.0 {
		t.Errorf("world = %vx%v, want 1000x1000", cfg.World.Width, cfg.World.Height)
	}
	if !cfg.Grid.Enabled {
		t.Error("Grid.Enabled = false, want true by default")
	}
}

func TestLoadOverridesOnlyPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := []byte("fluid:\n  viscosity: 500.0\n  gravity_y: -25.0\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Fluid.Viscosity != 500.0 {
		t.Errorf("Viscosity = %v, want 500.0 from override", cfg.Fluid.Viscosity)
	}
	if cfg.Fluid.GravityY != -25.0 {
		t.Errorf("GravityY = %v, want -25.0 from override", cfg.Fluid.GravityY)
	}

	// Untouched keys keep their defaults
	if cfg.Fluid.GasConstant != 2000.0 {
		t.Errorf("GasConstant = %v, want default 2000.0", cfg.Fluid.GasConstant)
	}
	if cfg.Fluid.DT != 0.0007 {
		t.Errorf("DT = %v, want default 0.0007", cfg.Fluid.DT)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestComputeDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if math.Abs(float64(cfg.Derived.DT32)-cfg.Fluid.DT) > 1e-9 {
		t.Errorf("DT32 = %v, want %v", cfg.Derived.DT32, cfg.Fluid.DT)
	}
	if cfg.Derived.WorldW32 != 1000 || cfg.Derived.WorldH32 != 1000 {
		t.Errorf("world32 = %vx%v, want 1000x1000", cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	}

	// cell_size 0 falls back to the kernel radius
	if cfg.Derived.CellSize != float32(cfg.Fluid.KernelRadius) {
		t.Errorf("CellSize = %v, want kernel radius %v", cfg.Derived.CellSize, cfg.Fluid.KernelRadius)
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Fluid.GasConstant = 3456.0

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading snapshot failed: %v", err)
	}
	if reloaded.Fluid.GasConstant != 3456.0 {
		t.Errorf("GasConstant after roundtrip = %v, want 3456.0", reloaded.Fluid.GasConstant)
	}
}
