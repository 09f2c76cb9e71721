// Package config loads the mesh/solver/conductor parameters the rest of the
// module runs on, following the teacher's embed-defaults-then-overlay
// pattern: a baked-in defaults.yaml unmarshalled first, then optionally
// overlaid by a user-supplied file at the same struct.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// MeshConfig describes the tile's logical extent and scalar precision.
type MeshConfig struct {
	Dim       int    `yaml:"dim"`
	Nx        int    `yaml:"nx"`
	Ny        int    `yaml:"ny"`
	Nz        int    `yaml:"nz"`
	Ghost     int    `yaml:"ghost"`
	Precision string `yaml:"precision"`
}

// FDTDConfig holds the Courant number used by the push kernels.
type FDTDConfig struct {
	CFL float64 `yaml:"cfl"`
}

// HaloConfig holds the exchange widths for fields and currents.
type HaloConfig struct {
	Fields   int `yaml:"fields"`
	Currents int `yaml:"currents"`
}

// Point3 is a plain 3-vector, used for the conductor's centre.
type Point3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// ConductorConfig parameterises the rotating magnetised-conductor boundary
// injector.
type ConductorConfig struct {
	Enabled bool    `yaml:"enabled"`
	Radius  float64 `yaml:"radius"`
	Period  float64 `yaml:"period"`
	B0      float64 `yaml:"b0"`
	Chi     float64 `yaml:"chi"`
	Phase   float64 `yaml:"phase"`
	Centre  Point3  `yaml:"centre"`
	Delta   float64 `yaml:"delta"`
}

// TelemetryConfig carries the performance-sample window size. Nothing in the
// module reads StepWindow: orchestrator.New always builds its collector with
// a 60-step window.
type TelemetryConfig struct {
	StepWindow int `yaml:"step_window"`
}

// DerivedConfig holds values computed from the rest of Config rather than
// read directly off the YAML tree.
type DerivedConfig struct {
	AngularVelocity float64
	HalfCFL         float64
}

// Config is the full parameter tree for one run.
type Config struct {
	Mesh      MeshConfig      `yaml:"mesh"`
	FDTD      FDTDConfig      `yaml:"fdtd"`
	Halo      HaloConfig      `yaml:"halo"`
	Conductor ConductorConfig `yaml:"conductor"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Derived   DerivedConfig   `yaml:"-"`
}

func (c *Config) computeDerived() {
	c.Derived.HalfCFL = 0.5 * c.FDTD.CFL
	if c.Conductor.Period != 0 {
		c.Derived.AngularVelocity = 2 * math.Pi / c.Conductor.Period
	}
}

var global *Config

// Init loads Config from path (embedded defaults only if path is empty) and
// stores it as the package singleton.
func Init(path string) error {
	c, err := Load(path)
	if err != nil {
		return err
	}
	global = c
	return nil
}

// MustInit is Init but panics on error, for test init() functions the way
// the teacher's resource_field_test.go calls config.MustInit("").
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: MustInit failed: %v", err))
	}
}

// Cfg returns the package singleton, panicking if Init/MustInit was never
// called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init/MustInit")
	}
	return global
}

// Load unmarshals the embedded defaults, then optionally overlays path onto
// the same struct before computing derived fields.
func Load(path string) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, c); err != nil {
		return nil, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading override %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("config: parsing override %q: %w", path, err)
		}
	}
	c.computeDerived()
	return c, nil
}
