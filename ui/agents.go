package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kinematic/components"
	"github.com/pthm-cable/kinematic/game"
	"github.com/pthm-cable/kinematic/steering"
)

// AgentPanel shows one agent's motion fields and a row of behavior
// buttons. The active behavior's button is marked.
type AgentPanel struct {
	renderer *Renderer
	fields   []components.FieldDescriptor
	width    int32
}

// NewAgentPanel creates a panel for agents with the given speed cap.
func NewAgentPanel(maxSpeed float64, width int32) *AgentPanel {
	return &AgentPanel{
		renderer: NewRenderer(),
		fields:   components.AgentFieldDescriptors(maxSpeed),
		width:    width,
	}
}

// Height returns the panel height in pixels.
func (p *AgentPanel) Height() int32 {
	t := p.renderer.Theme
	return t.Padding*2 + t.LineHeight + int32(len(p.fields))*(t.LineHeight+2) + 28
}

// Draw renders the panel at (x, y) and returns the behavior picked this
// frame, if any.
func (p *AgentPanel) Draw(x, y int32, a game.AgentView) (steering.Kind, bool) {
	r := p.renderer
	r.DrawPanel(x, y, p.width, p.Height())
	x += r.Theme.Padding
	y += r.Theme.Padding

	y = r.DrawSectionHeader(x, y, a.Name+" - "+a.Behavior.String(), agentColor(a.Color))

	k := steering.Kinematic{Position: a.Position, Orientation: a.Orientation}
	for _, fd := range p.fields {
		v, ok := components.FieldValue(fd.ID, k, a.Output)
		if !ok {
			continue
		}
		y = r.DrawField(x, y, fd, v, p.width-2*r.Theme.Padding)
	}

	picked, ok := steering.KindNone, false
	buttonW := float32(p.width-2*r.Theme.Padding) / float32(len(steering.Kinds))
	for i, kind := range steering.Kinds {
		label := kind.String()
		if kind == steering.KindNone {
			label = "Stop"
		}
		if kind == a.Behavior {
			label = "[" + label + "]"
		}
		bounds := rl.Rectangle{X: float32(x) + float32(i)*buttonW, Y: float32(y) + 4, Width: buttonW - 2, Height: 22}
		if gui.Button(bounds, label) {
			picked, ok = kind, true
		}
	}
	return picked, ok
}
