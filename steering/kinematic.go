// Package steering implements kinematic steering behaviors and the
// integration step that applies them to an agent's position and heading.
//
// Motion happens in the horizontal X/Z plane. The Y component of every
// vector is carried along untouched.
package steering

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// headingEpsilon is the squared speed below which an agent keeps its
// current orientation instead of facing its velocity.
const headingEpsilon = 1e-6

// Kinematic is the authoritative state of one agent.
type Kinematic struct {
	Position    r3.Vec
	Orientation float64 // radians, 0 faces +Z
}

// Integrate advances the position by out.Linear over dt seconds.
// Orientation is left alone; see IntegrateRotation.
func (k *Kinematic) Integrate(out Output, dt float64) {
	if !validDuration(dt) {
		return
	}
	k.Position = r3.Add(k.Position, r3.Scale(dt, out.Linear))
}

// IntegrateRotation advances the orientation by out.Rotation over dt
// seconds and wraps the result to [-Pi, Pi).
func (k *Kinematic) IntegrateRotation(out Output, dt float64) {
	if !validDuration(dt) || out.Rotation == 0 {
		return
	}
	k.Orientation = NormalizeAngle(k.Orientation + out.Rotation*dt)
}

// SetOrientationFromVelocity turns the agent to face v. Near-zero
// velocities leave the orientation unchanged so a resting agent keeps
// its last heading.
func (k *Kinematic) SetOrientationFromVelocity(v r3.Vec) {
	if v.X*v.X+v.Z*v.Z <= headingEpsilon {
		return
	}
	k.Orientation = math.Atan2(v.X, v.Z)
}

// Heading returns the unit forward vector for the current orientation.
func (k Kinematic) Heading() r3.Vec {
	return headingVector(k.Orientation)
}

func headingVector(orientation float64) r3.Vec {
	return r3.Vec{X: math.Sin(orientation), Z: math.Cos(orientation)}
}

// NormalizeAngle wraps an angle to [-Pi, Pi).
func NormalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	if a >= -math.Pi && a < math.Pi {
		return a
	}
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// validDuration reports whether dt is a usable elapsed time.
// Negative and non-finite durations integrate as zero.
func validDuration(dt float64) bool {
	return dt > 0 && !math.IsInf(dt, 0)
}
