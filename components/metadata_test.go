package components

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/kinematic/steering"
)

func TestFieldValue(t *testing.T) {
	k := steering.Kinematic{Position: r3.Vec{X: 3, Z: -4}, Orientation: 0.5}
	out := steering.Output{Linear: r3.Vec{X: 6, Z: 8}, Rotation: -1}

	tests := []struct {
		id   string
		want float32
	}{
		{"x", 3},
		{"z", -4},
		{"heading", 0.5},
		{"speed", 10},
		{"rotation", -1},
	}
	for _, tt := range tests {
		got, ok := FieldValue(tt.id, k, out)
		if !ok || got != tt.want {
			t.Errorf("FieldValue(%q) = %v, %v; want %v", tt.id, got, ok, tt.want)
		}
	}
	if _, ok := FieldValue("energy", k, out); ok {
		t.Error("expected unknown field to be rejected")
	}
}

func TestAgentFieldDescriptorsResolve(t *testing.T) {
	fields := AgentFieldDescriptors(10)
	for _, fd := range fields {
		if _, ok := FieldValue(fd.ID, steering.Kinematic{}, steering.Output{}); !ok {
			t.Errorf("descriptor %q has no value", fd.ID)
		}
		if fd.IsBar && fd.Max <= fd.Min {
			t.Errorf("descriptor %q has empty range [%v, %v]", fd.ID, fd.Min, fd.Max)
		}
	}
	if fields[3].ID != "speed" || fields[3].Max != 10 {
		t.Errorf("speed descriptor = %+v", fields[3])
	}
}
