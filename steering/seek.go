package steering

import "gonum.org/v1/gonum/spatial/r3"

// Seek moves the character straight at the target at full speed.
type Seek struct {
	MaxSpeed float64
}

// NewSeek returns a Seek behavior limited to maxSpeed.
func NewSeek(maxSpeed float64) (*Seek, error) {
	if err := checkNonNegative("max speed", maxSpeed); err != nil {
		return nil, err
	}
	return &Seek{MaxSpeed: maxSpeed}, nil
}

// Steering implements Behavior.
func (s *Seek) Steering(ctx Context) Output {
	return Output{Linear: towards(r3.Sub(ctx.Target, ctx.Character.Position), s.MaxSpeed)}
}

// Flee moves the character straight away from the target at full speed.
type Flee struct {
	MaxSpeed float64
}

// NewFlee returns a Flee behavior limited to maxSpeed.
func NewFlee(maxSpeed float64) (*Flee, error) {
	if err := checkNonNegative("max speed", maxSpeed); err != nil {
		return nil, err
	}
	return &Flee{MaxSpeed: maxSpeed}, nil
}

// Steering implements Behavior.
func (f *Flee) Steering(ctx Context) Output {
	return Output{Linear: towards(r3.Sub(ctx.Character.Position, ctx.Target), f.MaxSpeed)}
}
