// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/kinematic/steering"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Steering  SteeringConfig  `yaml:"steering"`
	Agents    []AgentConfig   `yaml:"agents"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Stream    StreamConfig    `yaml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds world extents.
type WorldConfig struct {
	Size        float64 `yaml:"size"`         // half-extent on X and Z
	GridSpacing float64 `yaml:"grid_spacing"` // renderer grid line gap
}

// PhysicsConfig holds the fixed headless timestep.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// SteeringConfig holds the behavior parameters shared by every agent.
type SteeringConfig struct {
	MaxSpeed     float64 `yaml:"max_speed"`
	MaxRotation  float64 `yaml:"max_rotation"`
	TimeToTarget float64 `yaml:"time_to_target"`
	Radius       float64 `yaml:"radius"`
	WanderRate   float64 `yaml:"wander_rate"`
	WanderOffset float64 `yaml:"wander_offset"`
}

// AgentConfig describes one agent of the roster.
type AgentConfig struct {
	Name        string   `yaml:"name"`
	X           float64  `yaml:"x"`
	Z           float64  `yaml:"z"`
	Orientation float64  `yaml:"orientation"`
	Behavior    string   `yaml:"behavior"` // initial selection
	Target      string   `yaml:"target"`   // name of the agent to seek/flee/arrive at
	Color       [3]uint8 `yaml:"color"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	SampleInterval  int     `yaml:"sample_interval"`
	StatsWindow     float64 `yaml:"stats_window"`
	PerfLogInterval int     `yaml:"perf_log_interval"`
}

// StreamConfig holds websocket stream parameters.
type StreamConfig struct {
	Addr              string `yaml:"addr"`
	BroadcastInterval int    `yaml:"broadcast_interval"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Behaviors   []steering.Kind // initial behavior per agent
	TargetIndex []int           // target slot per agent, -1 = none
	AgentIndex  map[string]int  // name -> slot
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

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns the embedded default configuration.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := Parse(cfg, data); err != nil {
			return nil, err
		}
	}

	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse overlays YAML data onto cfg. Only keys present in data change;
// a present agents list replaces the default roster.
func Parse(cfg *Config, data []byte) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// Resolve validates the configuration and recomputes derived values.
func (c *Config) Resolve() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.computeDerived()
}

// Validate checks the construction-time contract of every parameter.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	s := c.Steering
	check(finite(c.World.Size) && c.World.Size > 0, "world.size must be positive, got %v", c.World.Size)
	check(finite(c.World.GridSpacing) && c.World.GridSpacing > 0, "world.grid_spacing must be positive, got %v", c.World.GridSpacing)
	check(finite(c.Physics.DT) && c.Physics.DT > 0, "physics.dt must be positive, got %v", c.Physics.DT)
	check(finite(s.MaxSpeed) && s.MaxSpeed >= 0, "steering.max_speed must be non-negative, got %v", s.MaxSpeed)
	check(finite(s.MaxRotation) && s.MaxRotation >= 0, "steering.max_rotation must be non-negative, got %v", s.MaxRotation)
	check(finite(s.TimeToTarget) && s.TimeToTarget > 0, "steering.time_to_target must be positive, got %v", s.TimeToTarget)
	check(finite(s.Radius) && s.Radius >= 0, "steering.radius must be non-negative, got %v", s.Radius)
	check(finite(s.WanderRate) && s.WanderRate >= 0, "steering.wander_rate must be non-negative, got %v", s.WanderRate)
	check(finite(s.WanderOffset) && s.WanderOffset > 0, "steering.wander_offset must be positive, got %v", s.WanderOffset)
	check(len(c.Agents) > 0, "at least one agent is required")
	check(c.Telemetry.SampleInterval >= 0, "telemetry.sample_interval must be non-negative")
	check(finite(c.Telemetry.StatsWindow) && c.Telemetry.StatsWindow > 0, "telemetry.stats_window must be positive, got %v", c.Telemetry.StatsWindow)
	check(c.Telemetry.PerfLogInterval >= 0, "telemetry.perf_log_interval must be non-negative")
	check(c.Stream.BroadcastInterval >= 0, "stream.broadcast_interval must be non-negative")

	names := make(map[string]bool, len(c.Agents))
	for i, a := range c.Agents {
		check(a.Name != "", "agents[%d].name is required", i)
		check(!names[a.Name], "agents[%d].name %q is duplicated", i, a.Name)
		names[a.Name] = true
		check(finite(a.X) && finite(a.Z) && finite(a.Orientation), "agents[%d] (%s) has a non-finite position or orientation", i, a.Name)
		if _, err := steering.ParseKind(a.Behavior); err != nil {
			check(false, "agents[%d] (%s): %v", i, a.Name, err)
		}
	}
	for i, a := range c.Agents {
		if a.Target == "" {
			continue
		}
		check(names[a.Target], "agents[%d] (%s) targets unknown agent %q", i, a.Name, a.Target)
		check(a.Target != a.Name, "agents[%d] (%s) cannot target itself", i, a.Name)
	}

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.AgentIndex = make(map[string]int, len(c.Agents))
	for i, a := range c.Agents {
		c.Derived.AgentIndex[a.Name] = i
	}

	c.Derived.Behaviors = make([]steering.Kind, len(c.Agents))
	c.Derived.TargetIndex = make([]int, len(c.Agents))
	for i, a := range c.Agents {
		kind, err := steering.ParseKind(a.Behavior)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		c.Derived.Behaviors[i] = kind
		c.Derived.TargetIndex[i] = -1
		if a.Target != "" {
			c.Derived.TargetIndex[i] = c.Derived.AgentIndex[a.Target]
		}
	}
	return nil
}

// WanderParams returns the wander configuration shared by all agents.
func (c *Config) WanderParams() steering.WanderParams {
	return steering.WanderParams{
		MaxSpeed:    c.Steering.MaxSpeed,
		MaxRotation: c.Steering.MaxRotation,
		Rate:        c.Steering.WanderRate,
		Offset:      c.Steering.WanderOffset,
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

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
