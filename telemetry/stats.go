// Package telemetry records agent trajectories and windowed motion
// statistics, and writes them as CSV.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Sample is one agent's state after a tick.
type Sample struct {
	Tick        int32
	Slot        int
	Agent       string
	Behavior    string
	X, Z        float64
	Orientation float64
	Speed       float64
	Wraps       int
}

// TrajectoryRecord is one row of trajectory.csv.
type TrajectoryRecord struct {
	Tick        int32   `csv:"tick"`
	Agent       string  `csv:"agent"`
	Behavior    string  `csv:"behavior"`
	X           float64 `csv:"x"`
	Z           float64 `csv:"z"`
	Orientation float64 `csv:"orientation"`
	Speed       float64 `csv:"speed"`
}

// Record converts a sample to a trajectory row.
func (s Sample) Record() TrajectoryRecord {
	return TrajectoryRecord{
		Tick:        s.Tick,
		Agent:       s.Agent,
		Behavior:    s.Behavior,
		X:           s.X,
		Z:           s.Z,
		Orientation: s.Orientation,
		Speed:       s.Speed,
	}
}

// WindowStats holds one agent's motion statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	Agent           string  `csv:"agent"`
	Behavior        string  `csv:"behavior"` // active at window end
	MeanSpeed       float64 `csv:"mean_speed"`
	SpeedStd        float64 `csv:"speed_stddev"`
	MedianSpeed     float64 `csv:"median_speed"`
	MaxSpeed        float64 `csv:"max_speed"`
	Distance        float64 `csv:"distance"`
	Wraps           int     `csv:"wraps"`
}

// ComputeSpeedStats returns the mean, standard deviation, median and
// maximum of speed values. An empty slice yields zeros.
func ComputeSpeedStats(values []float64) (mean, std, median, peak float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean, std = stat.MeanStdDev(values, nil)
	if n < 2 {
		std = 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	peak = sorted[n-1]

	return mean, std, median, peak
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("agent", s.Agent),
		slog.String("behavior", s.Behavior),
		slog.Float64("mean_speed", s.MeanSpeed),
		slog.Float64("speed_stddev", s.SpeedStd),
		slog.Float64("median_speed", s.MedianSpeed),
		slog.Float64("max_speed", s.MaxSpeed),
		slog.Float64("distance", s.Distance),
		slog.Int("wraps", s.Wraps),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
