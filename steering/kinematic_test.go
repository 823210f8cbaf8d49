package steering

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestIntegrate(t *testing.T) {
	k := Kinematic{Position: r3.Vec{X: 1, Y: 3, Z: 2}, Orientation: 0.4}
	k.Integrate(Output{Linear: r3.Vec{X: 2, Z: -4}, Rotation: 5}, 0.5)

	want := r3.Vec{X: 2, Y: 3, Z: 0}
	if k.Position != want {
		t.Errorf("position = %v, want %v", k.Position, want)
	}
	if k.Orientation != 0.4 {
		t.Errorf("Integrate changed orientation to %v", k.Orientation)
	}
}

func TestIntegrateDegenerateDuration(t *testing.T) {
	out := Output{Linear: r3.Vec{X: 3, Z: 3}, Rotation: 1}
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		k := Kinematic{Position: r3.Vec{X: 7, Z: -7}, Orientation: 1}
		k.Integrate(out, dt)
		k.IntegrateRotation(out, dt)
		if k.Position != (r3.Vec{X: 7, Z: -7}) || k.Orientation != 1 {
			t.Errorf("dt=%v changed state to %+v", dt, k)
		}
	}
}

func TestIntegrateRotationWraps(t *testing.T) {
	k := Kinematic{Orientation: 3}
	k.IntegrateRotation(Output{Rotation: 1}, 0.5)

	want := 3.5 - 2*math.Pi
	if math.Abs(k.Orientation-want) > 1e-12 {
		t.Errorf("orientation = %v, want %v", k.Orientation, want)
	}
}

func TestSetOrientationFromVelocity(t *testing.T) {
	tests := []struct {
		name string
		v    r3.Vec
		want float64
	}{
		{"plus x", r3.Vec{X: 1}, math.Pi / 2},
		{"plus z", r3.Vec{Z: 2}, 0},
		{"minus z", r3.Vec{Z: -2}, math.Pi},
		{"minus x", r3.Vec{X: -3}, -math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := Kinematic{Orientation: 1.234}
			k.SetOrientationFromVelocity(tt.v)
			if math.Abs(k.Orientation-tt.want) > 1e-12 {
				t.Errorf("orientation = %v, want %v", k.Orientation, tt.want)
			}
			h := k.Heading()
			if r3.Norm(r3.Sub(h, r3.Unit(tt.v))) > 1e-12 {
				t.Errorf("heading %v does not match velocity %v", h, tt.v)
			}
		})
	}
}

func TestSetOrientationFromVelocityAtRest(t *testing.T) {
	for _, v := range []r3.Vec{{}, {X: 1e-5}, {X: -1e-4, Z: 1e-4}, {Y: 50}} {
		k := Kinematic{Orientation: 2.1}
		k.SetOrientationFromVelocity(v)
		if k.Orientation != 2.1 {
			t.Errorf("v=%v: orientation changed to %v", v, k.Orientation)
		}
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{1, 1},
		{2.1, 2.1},
		{-0.75, -0.75},
		{-math.Pi, -math.Pi},
		{math.Pi, -math.Pi},
		{2*math.Pi + 0.5, 0.5},
		{-math.Pi - 0.5, math.Pi - 0.5},
		{7 * math.Pi / 2, -math.Pi / 2},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// Angles already in range come back bit-for-bit.
func TestNormalizeAngleInRangeIdentity(t *testing.T) {
	for _, a := range []float64{2.1, 0.75, -3.1, 3.14159, -math.Pi, 1e-300} {
		if got := NormalizeAngle(a); got != a {
			t.Errorf("NormalizeAngle(%v) = %v, want unchanged", a, got)
		}
	}
}

// Leaving past one edge relocates the coordinate to the opposite edge.
func TestWorldTrimOppositeEdge(t *testing.T) {
	w := World{Size: 50}
	tests := []struct {
		in      float64
		want    float64
		wrapped bool
	}{
		{50.1, -50, true},
		{-50.1, 50, true},
		{120, -50, true},
		{49.9, 49.9, false},
		{50, 50, false},
		{-50, -50, false},
	}
	for _, tt := range tests {
		got, wrapped := w.Trim(tt.in)
		if got != tt.want || wrapped != tt.wrapped {
			t.Errorf("Trim(%v) = %v, %v; want %v, %v", tt.in, got, wrapped, tt.want, tt.wrapped)
		}
	}
}

func TestWorldTrimPosition(t *testing.T) {
	w := World{Size: 50}
	p, wrapped := w.TrimPosition(r3.Vec{X: 51, Y: 4, Z: -10})

	if !wrapped {
		t.Error("expected wrap")
	}
	if p != (r3.Vec{X: -50, Y: 4, Z: -10}) {
		t.Errorf("position = %v", p)
	}
	if !w.Contains(p) {
		t.Errorf("trimmed position %v outside world", p)
	}
}
