package components

import "github.com/pthm-cable/kinematic/steering"

// Kinematic is an agent's authoritative position and orientation.
type Kinematic struct {
	steering.Kinematic
}

// Motion holds the steering output applied on the last tick. It is
// written by the steering system for readers and never fed back into
// steering.
type Motion struct {
	Output steering.Output
	Wraps  int // times the agent was relocated by the world bounds
}
