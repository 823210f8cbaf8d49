package steering

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Arrive approaches the target and slows down as it closes in, stopping
// once within Radius.
type Arrive struct {
	MaxSpeed     float64
	TimeToTarget float64 // seconds to cover the remaining distance
	Radius       float64 // satisfaction radius
}

// NewArrive returns an Arrive behavior. timeToTarget must be positive.
func NewArrive(maxSpeed, timeToTarget, radius float64) (*Arrive, error) {
	if err := checkNonNegative("max speed", maxSpeed); err != nil {
		return nil, err
	}
	if err := checkPositive("time to target", timeToTarget); err != nil {
		return nil, err
	}
	if err := checkNonNegative("radius", radius); err != nil {
		return nil, err
	}
	return &Arrive{MaxSpeed: maxSpeed, TimeToTarget: timeToTarget, Radius: radius}, nil
}

// Steering implements Behavior.
func (a *Arrive) Steering(ctx Context) Output {
	dir := r3.Sub(ctx.Target, ctx.Character.Position)
	dir.Y = 0
	distance := r3.Norm(dir)
	if distance < a.Radius || distance == 0 {
		return Output{}
	}
	speed := math.Min(distance/a.TimeToTarget, a.MaxSpeed)
	return Output{Linear: towards(dir, speed)}
}
