package steering

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidParameter is returned when a behavior is configured with
// values that cannot produce sensible motion.
var ErrInvalidParameter = errors.New("steering: invalid parameter")

// Context is the resolved input for one steering request.
type Context struct {
	Character Kinematic // controlled agent, as of the start of the tick
	Target    r3.Vec    // target position, ignored by Wander
}

// Behavior produces a desired motion for the controlled agent.
type Behavior interface {
	Steering(ctx Context) Output
}

// Kind identifies which behavior an agent is running.
type Kind uint8

const (
	KindNone Kind = iota
	KindSeek
	KindFlee
	KindArrive
	KindWander
)

// Kinds lists every kind in selection order.
var Kinds = []Kind{KindNone, KindSeek, KindFlee, KindArrive, KindWander}

var kindNames = [...]string{
	KindNone:   "Stationary",
	KindSeek:   "Seek",
	KindFlee:   "Flee",
	KindArrive: "Arrive",
	KindWander: "Wander",
}

// String returns the display name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// NeedsTarget reports whether the kind steers relative to a target.
func (k Kind) NeedsTarget() bool {
	return k == KindSeek || k == KindFlee || k == KindArrive
}

// ParseKind maps a configuration name to a Kind. Matching ignores case;
// "none" and "stationary" both select KindNone.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "stationary":
		return KindNone, nil
	case "seek":
		return KindSeek, nil
	case "flee":
		return KindFlee, nil
	case "arrive":
		return KindArrive, nil
	case "wander":
		return KindWander, nil
	}
	return KindNone, fmt.Errorf("steering: unknown behavior %q", s)
}

// checkNonNegative rejects negative and non-finite values.
func checkNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s must be a finite non-negative number, got %v", ErrInvalidParameter, name, v)
	}
	return nil
}

// checkPositive rejects zero, negative and non-finite values.
func checkPositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s must be a finite positive number, got %v", ErrInvalidParameter, name, v)
	}
	return nil
}

// towards returns a velocity of the given speed pointing along dir.
// A zero-length direction yields zero velocity.
func towards(dir r3.Vec, speed float64) r3.Vec {
	dir.Y = 0
	length := r3.Norm(dir)
	if length == 0 {
		return r3.Vec{}
	}
	return r3.Scale(speed/length, dir)
}
