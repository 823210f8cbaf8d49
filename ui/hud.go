package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kinematic/systems"
	"github.com/pthm-cable/kinematic/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Tick         int32
	SimTime      float64
	FPS          int32
	Paused       bool
	Clients      int
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the title line and simulation info at the top right.
func (h *HUD) Draw(data HUDData) {
	info := fmt.Sprintf("Tick: %d | Time: %.1fs | FPS: %d", data.Tick, data.SimTime, data.FPS)
	if data.Clients > 0 {
		info += fmt.Sprintf(" | Clients: %d", data.Clients)
	}
	w := rl.MeasureText(info, 16)
	rl.DrawText(info, data.ScreenWidth-w-10, 10, 16, rl.DarkGray)

	if data.Paused {
		w = rl.MeasureText("PAUSED", 20)
		rl.DrawText("PAUSED", data.ScreenWidth-w-10, 30, 20, rl.Orange)
	}
}

// DrawHelp renders the help lines at the top left. The first line is
// drawn as a heading.
func (h *HUD) DrawHelp(lines []string) {
	y := int32(10)
	for i, line := range lines {
		size := int32(14)
		if i == 0 {
			size = 20
		}
		rl.DrawText(line, 10, y, size, h.renderer.Theme.HelpColor)
		y += size + 2
	}
}

// DrawStatus renders one status line per agent at the bottom left, each
// in the agent's color.
func (h *HUD) DrawStatus(screenHeight int32, names, status []string, colors [][3]uint8) {
	lineHeight := int32(20)
	y := screenHeight - lineHeight*int32(len(status)) - 10
	for i, s := range status {
		rl.DrawText(fmt.Sprintf("%s: %s", names[i], s), 10, y, 18, agentColor(colors[i]))
		y += lineHeight
	}
}

// PerfPanel renders the per-phase step timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, registry *systems.SystemRegistry) {
	x := p.x
	y := p.y
	r := p.renderer

	height := r.Theme.Padding*2 + 36 + int32(len(telemetry.Phases))*14
	r.DrawPanel(x, y, 240, height)
	x += r.Theme.Padding
	y += r.Theme.Padding

	rl.DrawText("Step Performance", x, y, 14, rl.White)
	y += 18

	rl.DrawText(fmt.Sprintf("Tick: %s (max %s)",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond)), x, y, 12, rl.Yellow)
	y += 18

	for _, phase := range telemetry.Phases {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		name := phase
		if registry != nil {
			name = registry.GetName(phase)
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
