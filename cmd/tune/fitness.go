package main

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/kinematic/config"
	"github.com/pthm-cable/kinematic/game"
)

// Objective weights.
const (
	distanceWeight = 2.0 // per world unit left between chaser and goal
	brakingWeight  = 1.0 // per unit of peak deceleration relative to max speed
	missPenalty    = 2.0 // multiple of the run length charged when the chaser never stops
)

// Evaluator runs headless arrival scenarios and scores Arrive parameters.
// A chaser starts at a seeded position and arrives at a stationary goal at
// the origin; a run ends when the chaser comes to rest.
type Evaluator struct {
	params   *ParamVector
	base     *config.Config
	starts   []r3.Vec
	maxTicks int32

	last runResult
}

// runResult holds the outcome of a single scenario run.
type runResult struct {
	arrived    bool
	arrivalSec float64 // simulated time until the chaser stopped
	finalDist  float64
	peakDecel  float64 // largest speed drop per second
}

// NewEvaluator creates an evaluator with one start position per seed.
func NewEvaluator(params *ParamVector, base *config.Config, seeds []int64, maxTicks int32) *Evaluator {
	starts := make([]r3.Vec, len(seeds))
	for i, seed := range seeds {
		rng := rand.New(rand.NewSource(seed))
		angle := rng.Float64() * 2 * math.Pi
		dist := (0.3 + 0.6*rng.Float64()) * base.World.Size
		starts[i] = r3.Vec{X: dist * math.Sin(angle), Z: dist * math.Cos(angle)}
	}
	return &Evaluator{
		params:   params,
		base:     base,
		starts:   starts,
		maxTicks: maxTicks,
	}
}

// Evaluate returns the mean score over all start positions (lower = better).
func (e *Evaluator) Evaluate(raw []float64) (float64, error) {
	var total float64
	for _, start := range e.starts {
		res, err := e.run(raw, start)
		if err != nil {
			return 0, err
		}
		e.last = res
		total += e.score(res)
	}
	return total / float64(len(e.starts)), nil
}

// Last returns the result of the most recent run.
func (e *Evaluator) Last() runResult {
	return e.last
}

func (e *Evaluator) score(r runResult) float64 {
	if !r.arrived {
		return missPenalty * float64(e.maxTicks) * e.base.Physics.DT
	}
	return r.arrivalSec + distanceWeight*r.finalDist + brakingWeight*r.peakDecel/e.base.Steering.MaxSpeed
}

// scenario builds a two-agent config from the base with the given
// parameters applied.
func (e *Evaluator) scenario(raw []float64, start r3.Vec) *config.Config {
	cfg := *e.base
	cfg.Agents = []config.AgentConfig{
		{Name: "Chaser", X: start.X, Z: start.Z, Behavior: "arrive", Target: "Goal", Color: [3]uint8{153, 0, 0}},
		{Name: "Goal", Behavior: "stationary", Color: [3]uint8{0, 153, 0}},
	}
	cfg.Derived = config.DerivedConfig{}
	e.params.ApplyToConfig(&cfg, raw)
	return &cfg
}

func (e *Evaluator) run(raw []float64, start r3.Vec) (runResult, error) {
	g, err := game.New(e.scenario(raw, start), game.Options{})
	if err != nil {
		return runResult{}, fmt.Errorf("building scenario: %w", err)
	}
	defer g.Unload()

	dt := e.base.Physics.DT
	var res runResult
	prevSpeed := 0.0
	for g.Tick() < e.maxTicks {
		g.UpdateHeadless()
		agents := g.Agents()
		chaser, goal := agents[0], agents[1]

		if g.Tick() > 1 {
			if decel := (prevSpeed - chaser.Speed) / dt; decel > res.peakDecel {
				res.peakDecel = decel
			}
		}
		prevSpeed = chaser.Speed

		if chaser.Speed == 0 {
			res.arrived = true
			res.arrivalSec = g.SimTime()
			res.finalDist = r3.Norm(r3.Sub(chaser.Position, goal.Position))
			break
		}
	}
	return res, nil
}
