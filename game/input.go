package game

import (
	"fmt"

	"github.com/pthm-cable/kinematic/steering"
)

// Key is an input key, named by its upper-case character.
type Key rune

// Control keys.
const (
	KeyHelp  Key = 'H'
	KeyPause Key = ' '
)

// slotKeys holds the selection row for each keyboard-controlled slot, in
// steering.Kinds order.
var slotKeys = [][]Key{
	{'Q', 'W', 'E', 'R', 'T'},
	{'A', 'S', 'D', 'F', 'G'},
}

// Keys returns every key the game responds to.
func (g *Game) Keys() []Key {
	keys := []Key{KeyHelp, KeyPause}
	for slot, row := range slotKeys {
		if slot >= len(g.agents) {
			break
		}
		keys = append(keys, row...)
	}
	return keys
}

// HandleKey applies the action bound to key and reports whether one was.
func (g *Game) HandleKey(key Key) bool {
	switch key {
	case KeyHelp:
		g.showHelp = !g.showHelp
		return true
	case KeyPause:
		g.paused = !g.paused
		return true
	}

	for slot, row := range slotKeys {
		for i, k := range row {
			if k != key {
				continue
			}
			if err := g.Select(slot, steering.Kinds[i]); err != nil {
				return false
			}
			return true
		}
	}
	return false
}

// HelpText returns the help overlay lines.
func (g *Game) HelpText() []string {
	lines := []string{title, fmt.Sprintf("%c - Toggle help.", KeyHelp), "Space - Pause."}
	for slot, row := range slotKeys {
		if slot >= len(g.agents) {
			break
		}
		agent, _, _, _ := g.agentMap.Get(g.agents[slot])
		lines = append(lines, "", agent.Name+" character:")
		for i, k := range row {
			lines = append(lines, fmt.Sprintf("%c - %s", k, steering.Kinds[i]))
		}
	}
	return lines
}
