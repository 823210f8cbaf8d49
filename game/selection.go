package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/kinematic/steering"
	"github.com/pthm-cable/kinematic/stream"
)

// ErrUnknownAgent is returned when a selection names a slot that does not exist.
var ErrUnknownAgent = errors.New("game: unknown agent")

// Selection changes one agent's active behavior.
type Selection struct {
	Slot int
	Kind steering.Kind
}

// Select makes kind the active behavior of the agent in slot. The agent's
// configured target and parameters stay bound; switching to Wander starts
// a fresh wander orientation. It must be called from the
// goroutine that steps the game.
func (g *Game) Select(slot int, kind steering.Kind) error {
	if slot < 0 || slot >= len(g.agents) {
		return fmt.Errorf("%w: slot %d", ErrUnknownAgent, slot)
	}
	if int(kind) >= len(steering.Kinds) {
		return fmt.Errorf("%w: behavior %v", steering.ErrInvalidParameter, kind)
	}

	agent, _, _, beh := g.agentMap.Get(g.agents[slot])
	if beh.Active == kind {
		return nil
	}
	prev := beh.Active
	beh.Active = kind
	if kind == steering.KindWander {
		beh.Wander.Reset()
	}

	slog.Info("behavior selected",
		"tick", g.tick,
		"agent", agent.Name,
		"from", prev.String(),
		"behavior", kind.String(),
	)
	return nil
}

// Submit queues a selection to be applied at the start of the next tick.
// It is safe to call from any goroutine.
func (g *Game) Submit(sel Selection) {
	g.pendingMu.Lock()
	g.pending = append(g.pending, sel)
	g.pendingMu.Unlock()
}

// SubmitRequest queues a selection received from a stream client.
func (g *Game) SubmitRequest(req stream.SelectRequest) {
	kind, err := steering.ParseKind(req.Behavior)
	if err != nil {
		slog.Warn("rejected stream selection", "slot", req.Slot, "error", err)
		return
	}
	g.Submit(Selection{Slot: int(req.Slot), Kind: kind})
}

// applyPending applies queued selections in submission order.
func (g *Game) applyPending() {
	g.pendingMu.Lock()
	pending := g.pending
	g.pending = nil
	g.pendingMu.Unlock()

	for _, sel := range pending {
		if err := g.Select(sel.Slot, sel.Kind); err != nil {
			slog.Warn("dropped selection", "slot", sel.Slot, "behavior", sel.Kind.String(), "error", err)
		}
	}
}
