package components

import (
	"math"

	"github.com/pthm-cable/kinematic/steering"
)

// FieldDescriptor describes an agent field for UI display.
type FieldDescriptor struct {
	ID         string  // Unique identifier
	Label      string  // Display name
	Format     string  // Printf format (e.g., "%.2f")
	Min        float32 // Minimum value (for bars)
	Max        float32 // Maximum value (for bars)
	IsCentered bool    // True for centered bar display
	IsBar      bool    // True to render as progress bar
	Group      string  // Logical grouping
}

// AgentFieldDescriptors returns metadata for the per-agent status panel.
func AgentFieldDescriptors(maxSpeed float64) []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "x", Label: "X", Format: "%.1f", Group: "position"},
		{ID: "z", Label: "Z", Format: "%.1f", Group: "position"},
		{ID: "heading", Label: "Heading", Format: "%.2f", Min: -math.Pi, Max: math.Pi, IsCentered: true, IsBar: true, Group: "motion"},
		{ID: "speed", Label: "Speed", Format: "%.2f", Min: 0, Max: float32(maxSpeed), IsBar: true, Group: "motion"},
		{ID: "rotation", Label: "Turn", Format: "%.2f", Group: "motion"},
	}
}

// FieldValue returns the value of a described field for one agent.
func FieldValue(id string, k steering.Kinematic, out steering.Output) (float32, bool) {
	switch id {
	case "x":
		return float32(k.Position.X), true
	case "z":
		return float32(k.Position.Z), true
	case "heading":
		return float32(k.Orientation), true
	case "speed":
		return float32(out.Speed()), true
	case "rotation":
		return float32(out.Rotation), true
	}
	return 0, false
}
