package game

import (
	"log/slog"

	"github.com/pthm-cable/kinematic/stream"
	"github.com/pthm-cable/kinematic/telemetry"
)

// recordTelemetry samples every agent into the stats window and, every
// sample interval, into the trajectory log.
func (g *Game) recordTelemetry() {
	interval := g.cfg.Telemetry.SampleInterval
	sampleTrajectory := g.output != nil && interval > 0 && g.tick%int32(interval) == 0

	var rows []telemetry.TrajectoryRecord
	for _, a := range g.Agents() {
		s := telemetry.Sample{
			Tick:        g.tick,
			Slot:        a.Slot,
			Agent:       a.Name,
			Behavior:    a.Behavior.String(),
			X:           a.Position.X,
			Z:           a.Position.Z,
			Orientation: a.Orientation,
			Speed:       a.Speed,
			Wraps:       a.Wraps,
		}
		g.collector.Record(s)
		if sampleTrajectory {
			rows = append(rows, s.Record())
		}
	}

	if err := g.output.WriteTrajectory(rows); err != nil {
		slog.Error("writing trajectory", "tick", g.tick, "error", err)
	}

	if !g.collector.ShouldFlush(g.tick) {
		return
	}
	stats := g.collector.Flush(g.tick)
	if g.opts.LogStats {
		for _, s := range stats {
			s.LogStats()
		}
	}
	if err := g.output.WriteStats(stats); err != nil {
		slog.Error("writing stats", "tick", g.tick, "error", err)
	}
}

// Frame returns the current state of every agent in wire form.
func (g *Game) Frame() stream.Frame {
	agents := g.Agents()
	f := stream.Frame{Tick: uint64(g.tick), Agents: make([]stream.AgentState, len(agents))}
	for i, a := range agents {
		f.Agents[i] = stream.AgentState{
			Slot:        uint32(a.Slot),
			Name:        a.Name,
			X:           a.Position.X,
			Z:           a.Position.Z,
			Orientation: a.Orientation,
			Speed:       a.Speed,
			Behavior:    a.Behavior.String(),
		}
	}
	return f
}

// broadcastFrame sends a frame to stream clients every broadcast interval.
func (g *Game) broadcastFrame() {
	interval := g.cfg.Stream.BroadcastInterval
	if g.hub == nil || interval <= 0 || g.tick%int32(interval) != 0 {
		return
	}
	g.hub.Broadcast(g.Frame())
}
