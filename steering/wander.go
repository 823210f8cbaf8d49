package steering

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// WanderParams configures a Wander behavior.
type WanderParams struct {
	MaxSpeed    float64
	MaxRotation float64 // radians per second
	Rate        float64 // largest change of the wander orientation per call, radians
	Offset      float64 // distance of the projected target ahead of the agent
}

// Wander drifts the character along a smoothly varying path. It keeps a
// wander orientation of its own that takes a small random step on every
// call; the agent seeks a point projected ahead along its facing plus
// that orientation.
type Wander struct {
	params      WanderParams
	rng         *rand.Rand
	orientation float64
}

// NewWander returns a Wander behavior drawing from rng. The same seed and
// call sequence always produce the same outputs.
func NewWander(p WanderParams, rng *rand.Rand) (*Wander, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: wander needs a random source", ErrInvalidParameter)
	}
	if err := checkNonNegative("max speed", p.MaxSpeed); err != nil {
		return nil, err
	}
	if err := checkNonNegative("max rotation", p.MaxRotation); err != nil {
		return nil, err
	}
	if err := checkNonNegative("wander rate", p.Rate); err != nil {
		return nil, err
	}
	if err := checkPositive("wander offset", p.Offset); err != nil {
		return nil, err
	}
	return &Wander{params: p, rng: rng}, nil
}

// Orientation returns the current wander orientation.
func (w *Wander) Orientation() float64 {
	return w.orientation
}

// Reset clears the accumulated wander orientation so the next call
// starts straight ahead of the agent.
func (w *Wander) Reset() {
	w.orientation = 0
}

// Steering implements Behavior. It advances the wander orientation.
func (w *Wander) Steering(ctx Context) Output {
	delta := w.params.Rate * w.binomial()
	w.orientation = NormalizeAngle(w.orientation + delta)

	pos := ctx.Character.Position
	ahead := headingVector(ctx.Character.Orientation + w.orientation)
	target := r3.Add(pos, r3.Scale(w.params.Offset, ahead))

	out := Output{Linear: towards(r3.Sub(target, pos), w.params.MaxSpeed)}
	if w.params.Rate > 0 {
		rot := w.params.MaxRotation * delta / w.params.Rate
		out.Rotation = math.Max(-w.params.MaxRotation, math.Min(w.params.MaxRotation, rot))
	}
	return out
}

// binomial returns a value in (-1, 1) weighted towards zero.
func (w *Wander) binomial() float64 {
	return w.rng.Float64() - w.rng.Float64()
}
