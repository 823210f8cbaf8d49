// Package renderer draws the world and its agents with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kinematic/camera"
	"github.com/pthm-cable/kinematic/game"
)

// AgentRadius is the drawn agent size in world units.
const AgentRadius = 1.0

// trailLength is the number of past positions drawn behind each agent.
const trailLength = 90

// SceneRenderer draws the ground grid, world border and agents.
type SceneRenderer struct {
	GridColor   rl.Color
	BorderColor rl.Color
	Background  rl.Color

	gridSpacing float32
	trails      [][]rl.Vector2 // per slot, world XZ
}

// NewSceneRenderer creates a scene renderer with grid lines every spacing
// world units.
func NewSceneRenderer(gridSpacing float64) *SceneRenderer {
	return &SceneRenderer{
		GridColor:   rl.Color{R: 60, G: 60, B: 60, A: 255},
		BorderColor: rl.Color{R: 120, G: 120, B: 120, A: 255},
		Background:  rl.Color{R: 230, G: 230, B: 230, A: 255},
		gridSpacing: float32(gridSpacing),
	}
}

// Record appends the agents' current positions to their trails.
func (s *SceneRenderer) Record(agents []game.AgentView) {
	for len(s.trails) < len(agents) {
		s.trails = append(s.trails, nil)
	}
	for _, a := range agents {
		trail := s.trails[a.Slot]
		p := rl.Vector2{X: float32(a.Position.X), Y: float32(a.Position.Z)}
		if n := len(trail); n > 0 {
			last := trail[n-1]
			// A bounds relocation starts a new trail.
			if absf(p.X-last.X) > 10 || absf(p.Y-last.Y) > 10 {
				trail = trail[:0]
			}
		}
		trail = append(trail, p)
		if len(trail) > trailLength {
			trail = trail[1:]
		}
		s.trails[a.Slot] = trail
	}
}

// Draw renders the grid and every agent through cam.
func (s *SceneRenderer) Draw(cam *camera.Camera, agents []game.AgentView) {
	rl.ClearBackground(s.Background)
	s.drawGrid(cam)
	for _, a := range agents {
		color := rl.Color{R: a.Color[0], G: a.Color[1], B: a.Color[2], A: 255}
		s.drawTrail(cam, a.Slot, color)

		x, y := cam.WorldToScreen(float32(a.Position.X), float32(a.Position.Z))
		if !cam.IsVisible(float32(a.Position.X), float32(a.Position.Z), AgentRadius*2) {
			continue
		}
		drawOrientedTriangle(x, y, float32(a.Orientation), AgentRadius*cam.Zoom, color)
	}
}

// drawGrid draws the ground grid clipped to the world.
func (s *SceneRenderer) drawGrid(cam *camera.Camera) {
	size := cam.WorldSize
	for _, v := range cam.GridLines(s.gridSpacing) {
		color := s.GridColor
		if v == -size || v == size {
			color = s.BorderColor
		}

		x0, y0 := cam.WorldToScreen(v, -size)
		x1, y1 := cam.WorldToScreen(v, size)
		rl.DrawLineV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, color)

		x0, y0 = cam.WorldToScreen(-size, v)
		x1, y1 = cam.WorldToScreen(size, v)
		rl.DrawLineV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, color)
	}
}

// drawTrail draws the agent's recent path as a fading line.
func (s *SceneRenderer) drawTrail(cam *camera.Camera, slot int, color rl.Color) {
	if slot >= len(s.trails) {
		return
	}
	trail := s.trails[slot]
	for i := 1; i < len(trail); i++ {
		x0, y0 := cam.WorldToScreen(trail[i-1].X, trail[i-1].Y)
		x1, y1 := cam.WorldToScreen(trail[i].X, trail[i].Y)
		c := color
		c.A = uint8(20 + 160*i/len(trail))
		rl.DrawLineEx(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, 2, c)
	}
}

// drawOrientedTriangle draws a triangle pointing along orientation, where
// orientation 0 faces +Z (screen down) and pi/2 faces +X (screen right).
func drawOrientedTriangle(x, y, orientation, radius float32, color rl.Color) {
	sin := float32(math.Sin(float64(orientation)))
	cos := float32(math.Cos(float64(orientation)))

	// Front point
	frontX := x + sin*radius*1.5
	frontY := y + cos*radius*1.5

	// Back left
	backAngle := float64(orientation) + math.Pi*0.8
	backLeftX := x + float32(math.Sin(backAngle))*radius
	backLeftY := y + float32(math.Cos(backAngle))*radius

	// Back right
	backAngle = float64(orientation) - math.Pi*0.8
	backRightX := x + float32(math.Sin(backAngle))*radius
	backRightY := y + float32(math.Cos(backAngle))*radius

	v1 := rl.Vector2{X: frontX, Y: frontY}
	v2 := rl.Vector2{X: backLeftX, Y: backLeftY}
	v3 := rl.Vector2{X: backRightX, Y: backRightY}

	// The (sin, cos) mapping mirrors the screen, so v1, v2, v3 is already
	// counter-clockwise.
	rl.DrawTriangle(v1, v2, v3, color)
	rl.DrawTriangleLines(v1, v2, v3, rl.Black)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
