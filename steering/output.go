package steering

import "gonum.org/v1/gonum/spatial/r3"

// Output is the desired instantaneous motion produced by a behavior.
// The zero value is the cleared output: no movement, no turning.
type Output struct {
	Linear   r3.Vec  // desired velocity, world units per second
	Rotation float64 // desired angular velocity, radians per second
}

// Clear resets the output to zero motion.
func (o *Output) Clear() {
	*o = Output{}
}

// Speed returns the magnitude of the linear component.
func (o Output) Speed() float64 {
	return r3.Norm(o.Linear)
}

// IsZero reports whether the output requests no motion at all.
func (o Output) IsZero() bool {
	return o.Linear == (r3.Vec{}) && o.Rotation == 0
}
