// Package game owns the agent roster and drives the simulation: it keeps
// the per-agent behavior-selection table, steps the steering system and
// feeds telemetry and the stream hub.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/kinematic/components"
	"github.com/pthm-cable/kinematic/config"
	"github.com/pthm-cable/kinematic/steering"
	"github.com/pthm-cable/kinematic/stream"
	"github.com/pthm-cable/kinematic/systems"
	"github.com/pthm-cable/kinematic/telemetry"
)

const title = "Kinematic Movement Demo"

// Options configures a Game beyond the loaded config.
type Options struct {
	Seed      int64  // seeds every agent's wander source
	OutputDir string // CSV and config snapshot directory, empty = disabled
	LogStats  bool   // log window stats via slog
	Headless  bool   // log perf stats periodically
	Stream    bool   // create a websocket hub
}

// AgentView is a read-only snapshot of one agent after a tick.
type AgentView struct {
	Slot        int
	Name        string
	Color       [3]uint8
	Position    r3.Vec
	Orientation float64
	Speed       float64
	Output      steering.Output // applied on the last tick
	Behavior    steering.Kind
	Wraps       int
}

// Game holds the complete simulation state.
type Game struct {
	cfg  *config.Config
	opts Options

	world    *ecs.World
	agentMap *ecs.Map4[components.Agent, components.Kinematic, components.Motion, components.Behaviors]
	steering *systems.SteeringSystem
	registry *systems.SystemRegistry

	// agents maps slot to entity
	agents []ecs.Entity

	// Selections submitted from other goroutines
	pendingMu sync.Mutex
	pending   []Selection

	// State
	tick     int32
	simTime  float64
	paused   bool
	showHelp bool

	// Telemetry
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	hub       *stream.Hub
}

// New builds the world from the configured roster.
func New(cfg *config.Config, opts Options) (*Game, error) {
	if cfg == nil {
		return nil, fmt.Errorf("game: %w: nil config", config.ErrInvalid)
	}
	if err := cfg.Resolve(); err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:       cfg,
		opts:      opts,
		world:     world,
		agentMap:  ecs.NewMap4[components.Agent, components.Kinematic, components.Motion, components.Behaviors](world),
		steering:  systems.NewSteeringSystem(world, steering.World{Size: cfg.World.Size}),
		registry:  systems.NewSystemRegistry(),
		showHelp:  true,
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfLogInterval),
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Physics.DT),
	}

	if err := g.spawnRoster(rand.New(rand.NewSource(opts.Seed))); err != nil {
		return nil, err
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.output = output
	if err := g.output.WriteConfig(cfg); err != nil {
		g.output.Close()
		return nil, err
	}

	if opts.Stream {
		g.hub = stream.NewHub(g.SubmitRequest)
	}

	slog.Info("simulation ready",
		"agents", len(g.agents),
		"world_size", cfg.World.Size,
		"seed", opts.Seed,
		"output_dir", g.output.Dir(),
	)
	return g, nil
}

// spawnRoster creates one entity per configured agent and binds targets.
func (g *Game) spawnRoster(rng *rand.Rand) error {
	s := g.cfg.Steering
	for i, a := range g.cfg.Agents {
		beh := components.Behaviors{Active: g.cfg.Derived.Behaviors[i]}

		var err error
		if beh.Seek, err = steering.NewSeek(s.MaxSpeed); err != nil {
			return fmt.Errorf("agent %s: %w", a.Name, err)
		}
		if beh.Flee, err = steering.NewFlee(s.MaxSpeed); err != nil {
			return fmt.Errorf("agent %s: %w", a.Name, err)
		}
		if beh.Arrive, err = steering.NewArrive(s.MaxSpeed, s.TimeToTarget, s.Radius); err != nil {
			return fmt.Errorf("agent %s: %w", a.Name, err)
		}
		wanderRNG := rand.New(rand.NewSource(rng.Int63()))
		if beh.Wander, err = steering.NewWander(g.cfg.WanderParams(), wanderRNG); err != nil {
			return fmt.Errorf("agent %s: %w", a.Name, err)
		}

		agent := components.Agent{Slot: i, Name: a.Name, Color: a.Color}
		kin := components.Kinematic{Kinematic: steering.Kinematic{
			Position:    r3.Vec{X: a.X, Z: a.Z},
			Orientation: steering.NormalizeAngle(a.Orientation),
		}}
		motion := components.Motion{}
		g.agents = append(g.agents, g.agentMap.NewEntity(&agent, &kin, &motion, &beh))
	}

	for i, target := range g.cfg.Derived.TargetIndex {
		if target < 0 {
			continue
		}
		_, _, _, beh := g.agentMap.Get(g.agents[i])
		beh.Target = g.agents[target]
		beh.HasTarget = true
	}
	return nil
}

// Step advances the simulation by dt seconds.
func (g *Game) Step(dt float64) {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseSelection)
	g.applyPending()

	g.perf.StartPhase(telemetry.PhaseSteering)
	g.steering.Update(g.world, dt)
	g.tick++
	if dt > 0 {
		g.simTime += dt
	}

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.recordTelemetry()

	g.perf.StartPhase(telemetry.PhaseStream)
	g.broadcastFrame()

	g.perf.EndTick()

	if g.opts.Headless && g.cfg.Telemetry.PerfLogInterval > 0 && g.tick%int32(g.cfg.Telemetry.PerfLogInterval) == 0 {
		g.perf.Stats().LogStats(g.tick)
	}
}

// UpdateHeadless runs one tick at the configured fixed timestep.
func (g *Game) UpdateHeadless() {
	if g.paused {
		return
	}
	g.Step(g.cfg.Physics.DT)
}

// Advance runs one tick with the measured frame time unless paused.
func (g *Game) Advance(frameTime float64) {
	g.perf.RecordFrame()
	if g.paused {
		return
	}
	g.Step(frameTime)
}

// Title returns the window title.
func (g *Game) Title() string {
	return title
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// SimTime returns the simulated seconds elapsed.
func (g *Game) SimTime() float64 {
	return g.simTime
}

// Config returns the configuration the game was built from.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Registry returns the system metadata used for perf display.
func (g *Game) Registry() *systems.SystemRegistry {
	return g.registry
}

// Perf returns the performance collector.
func (g *Game) Perf() *telemetry.PerfCollector {
	return g.perf
}

// Hub returns the websocket hub, or nil when streaming is disabled.
func (g *Game) Hub() *stream.Hub {
	return g.hub
}

// Bounds returns the world the agents are kept in.
func (g *Game) Bounds() steering.World {
	return g.steering.Bounds()
}

// Agents returns every agent in slot order.
func (g *Game) Agents() []AgentView {
	views := make([]AgentView, 0, len(g.agents))
	for _, e := range g.agents {
		views = append(views, g.view(e))
	}
	return views
}

func (g *Game) view(e ecs.Entity) AgentView {
	agent, kin, motion, beh := g.agentMap.Get(e)
	return AgentView{
		Slot:        agent.Slot,
		Name:        agent.Name,
		Color:       agent.Color,
		Position:    kin.Position,
		Orientation: kin.Orientation,
		Speed:       motion.Output.Speed(),
		Output:      motion.Output,
		Behavior:    beh.Active,
		Wraps:       motion.Wraps,
	}
}

// Status returns the display name of the agent's active behavior, or an
// empty string for an unknown slot.
func (g *Game) Status(slot int) string {
	if slot < 0 || slot >= len(g.agents) {
		return ""
	}
	_, _, _, beh := g.agentMap.Get(g.agents[slot])
	return beh.Active.String()
}

// StatusCount returns the number of status lines, one per agent.
func (g *Game) StatusCount() int {
	return len(g.agents)
}

// Paused reports whether ticks are suspended.
func (g *Game) Paused() bool {
	return g.paused
}

// ShowHelp reports whether the help overlay is visible.
func (g *Game) ShowHelp() bool {
	return g.showHelp
}

// Unload flushes output and disconnects stream clients.
func (g *Game) Unload() {
	if g.hub != nil {
		g.hub.Close()
	}
	if err := g.output.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
}
