package telemetry

import "math"

// Collector accumulates per-agent samples within time windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32
	agents          []*agentWindow // indexed by slot
}

type agentWindow struct {
	name     string
	behavior string
	speeds   []float64
	distance float64
	wraps    int

	lastX, lastZ float64
	lastWraps    int
	seen         bool
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record adds one agent sample to the current window.
func (c *Collector) Record(s Sample) {
	for len(c.agents) <= s.Slot {
		c.agents = append(c.agents, &agentWindow{})
	}
	a := c.agents[s.Slot]
	a.name = s.Agent
	a.behavior = s.Behavior
	a.speeds = append(a.speeds, s.Speed)

	// Wraps is a running count from the start of the run.
	switch {
	case !a.seen:
		a.wraps += s.Wraps
	case s.Wraps == a.lastWraps:
		a.distance += math.Hypot(s.X-a.lastX, s.Z-a.lastZ)
	default:
		// A relocation by the world bounds is a jump, not travel.
		a.wraps += s.Wraps - a.lastWraps
	}
	a.lastX, a.lastZ, a.lastWraps = s.X, s.Z, s.Wraps
	a.seen = true
}

// ShouldFlush returns true if the current window is complete.
func (c *Collector) ShouldFlush(tick int32) bool {
	return tick-c.windowStartTick >= c.windowDurationTicks
}

// Flush returns one WindowStats per agent and starts a new window.
func (c *Collector) Flush(tick int32) []WindowStats {
	out := make([]WindowStats, 0, len(c.agents))
	for _, a := range c.agents {
		if len(a.speeds) == 0 {
			continue
		}
		mean, std, median, peak := ComputeSpeedStats(a.speeds)
		out = append(out, WindowStats{
			WindowStartTick: c.windowStartTick,
			WindowEndTick:   tick,
			SimTimeSec:      float64(tick) * c.dt,
			Agent:           a.name,
			Behavior:        a.behavior,
			MeanSpeed:       mean,
			SpeedStd:        std,
			MedianSpeed:     median,
			MaxSpeed:        peak,
			Distance:        a.distance,
			Wraps:           a.wraps,
		})
		a.speeds = a.speeds[:0]
		a.distance = 0
		a.wraps = 0
	}
	c.windowStartTick = tick
	return out
}

// WindowDurationTicks returns the window length in ticks.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
