// Package components defines ECS components for the simulation.
package components

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/kinematic/steering"
)

// Agent holds identity and display data.
type Agent struct {
	Slot  int
	Name  string
	Color [3]uint8
}

// Behaviors holds an agent's configured behaviors and which one is active.
// Every behavior is bound to the owning agent for its lifetime.
type Behaviors struct {
	Active steering.Kind

	// Target is the agent Seek, Flee and Arrive steer relative to.
	// It is resolved against the current tick's snapshot.
	Target    ecs.Entity
	HasTarget bool

	Seek   *steering.Seek
	Flee   *steering.Flee
	Arrive *steering.Arrive
	Wander *steering.Wander
}

// Current returns the active behavior, or nil when the agent is stationary.
func (b *Behaviors) Current() steering.Behavior {
	switch b.Active {
	case steering.KindSeek:
		return b.Seek
	case steering.KindFlee:
		return b.Flee
	case steering.KindArrive:
		return b.Arrive
	case steering.KindWander:
		return b.Wander
	}
	return nil
}
