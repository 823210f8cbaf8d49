// Package systems contains ECS systems for the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/kinematic/components"
	"github.com/pthm-cable/kinematic/steering"
)

// SteeringSystem runs one simulation step for every agent: it asks the
// active behavior for an output, integrates it, turns the agent to face
// its velocity and keeps it inside the world.
type SteeringSystem struct {
	filter   *ecs.Filter4[components.Agent, components.Kinematic, components.Motion, components.Behaviors]
	bounds   steering.World
	snapshot map[ecs.Entity]r3.Vec
}

// NewSteeringSystem creates a new steering system.
func NewSteeringSystem(w *ecs.World, bounds steering.World) *SteeringSystem {
	return &SteeringSystem{
		filter:   ecs.NewFilter4[components.Agent, components.Kinematic, components.Motion, components.Behaviors](w),
		bounds:   bounds,
		snapshot: make(map[ecs.Entity]r3.Vec),
	}
}

// Bounds returns the world the system trims agents to.
func (s *SteeringSystem) Bounds() steering.World {
	return s.bounds
}

// Update advances every agent by dt seconds. Target positions are read
// from a snapshot taken before any agent moves, so the result does not
// depend on iteration order.
func (s *SteeringSystem) Update(w *ecs.World, dt float64) {
	clear(s.snapshot)
	query := s.filter.Query()
	for query.Next() {
		_, kin, _, _ := query.Get()
		s.snapshot[query.Entity()] = kin.Position
	}

	query = s.filter.Query()
	for query.Next() {
		_, kin, motion, beh := query.Get()

		s.steer(kin, beh, &motion.Output)
		if advance(&kin.Kinematic, motion.Output, beh.Active, dt, s.bounds) {
			motion.Wraps++
		}
	}
}

// steer writes the active behavior's output to out, or clears it when
// the agent is stationary or its target cannot be resolved.
func (s *SteeringSystem) steer(kin *components.Kinematic, beh *components.Behaviors, out *steering.Output) {
	out.Clear()
	b := beh.Current()
	if b == nil {
		return
	}

	ctx := steering.Context{Character: kin.Kinematic}
	if beh.Active.NeedsTarget() {
		if !beh.HasTarget {
			return
		}
		target, ok := s.snapshot[beh.Target]
		if !ok {
			return
		}
		ctx.Target = target
	}
	*out = b.Steering(ctx)
}

// advance applies out to k over dt and reports whether the world bounds
// relocated the agent. Wandering agents keep the orientation they build
// up from rotation; everyone else faces the direction they move.
func advance(k *steering.Kinematic, out steering.Output, active steering.Kind, dt float64, bounds steering.World) bool {
	k.Integrate(out, dt)
	k.IntegrateRotation(out, dt)
	if active != steering.KindWander {
		k.SetOrientationFromVelocity(out.Linear)
	}

	var wrapped bool
	k.Position, wrapped = bounds.TrimPosition(k.Position)
	return wrapped
}
