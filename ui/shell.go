package ui

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kinematic/camera"
	"github.com/pthm-cable/kinematic/game"
	"github.com/pthm-cable/kinematic/renderer"
)

// Shell runs a Game inside a raylib window: it reads frame time and
// keyboard input, and draws the scene and HUD.
type Shell struct {
	game   *game.Game
	camera *camera.Camera
	scene  *renderer.SceneRenderer
	hud    *HUD
	perf   *PerfPanel
	agents *AgentPanel

	showPerf                  bool
	screenWidth, screenHeight float32
}

// NewShell creates a shell for g. The raylib window must already be open.
func NewShell(g *game.Game) *Shell {
	cfg := g.Config()
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	return &Shell{
		game:         g,
		camera:       camera.New(w, h, float32(cfg.World.Size)),
		scene:        renderer.NewSceneRenderer(cfg.World.GridSpacing),
		hud:          NewHUD(),
		perf:         NewPerfPanel(int32(w)-250, 60),
		agents:       NewAgentPanel(cfg.Steering.MaxSpeed, 300),
		screenWidth:  w,
		screenHeight: h,
	}
}

// Update handles input and advances the game by the last frame time.
func (s *Shell) Update() {
	s.handleInput()
	s.game.Advance(float64(rl.GetFrameTime()))
	s.scene.Record(s.game.Agents())
}

// handleInput processes keyboard input.
func (s *Shell) handleInput() {
	s.handleResize()

	for _, k := range s.game.Keys() {
		if rl.IsKeyPressed(int32(k)) {
			s.game.HandleKey(k)
		}
	}
	if rl.IsKeyPressed(rl.KeyP) {
		s.showPerf = !s.showPerf
	}

	s.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (s *Shell) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == s.screenWidth && h == s.screenHeight {
		return
	}
	s.screenWidth = w
	s.screenHeight = h
	s.camera.Resize(w, h)
	s.perf.SetPosition(int32(w)-250, 60)
}

// handleCameraInput processes camera pan/zoom controls.
func (s *Shell) handleCameraInput() {
	panSpeed := float32(8.0)

	if rl.IsKeyDown(rl.KeyRight) {
		s.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		s.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		s.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		s.camera.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		s.camera.ZoomBy(1 + wheel*0.1)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		s.camera.Reset()
	}
}

// Draw renders one frame.
func (s *Shell) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	agents := s.game.Agents()
	s.scene.Draw(s.camera, agents)

	clients := 0
	if hub := s.game.Hub(); hub != nil {
		clients = hub.ClientCount()
	}
	s.hud.Draw(HUDData{
		Tick:         s.game.Tick(),
		SimTime:      s.game.SimTime(),
		FPS:          rl.GetFPS(),
		Paused:       s.game.Paused(),
		Clients:      clients,
		ScreenWidth:  int32(s.screenWidth),
		ScreenHeight: int32(s.screenHeight),
	})

	if s.game.ShowHelp() {
		s.hud.DrawHelp(s.game.HelpText())
	}

	names := make([]string, s.game.StatusCount())
	status := make([]string, s.game.StatusCount())
	colors := make([][3]uint8, s.game.StatusCount())
	for i, a := range agents {
		names[i] = a.Name
		status[i] = s.game.Status(i)
		colors[i] = a.Color
	}
	s.hud.DrawStatus(int32(s.screenHeight), names, status, colors)

	// Agent panels stack upward from above the status lines.
	y := int32(s.screenHeight) - 20*int32(len(status)) - 20
	for i := len(agents) - 1; i >= 0; i-- {
		y -= s.agents.Height() + 6
		if kind, ok := s.agents.Draw(int32(s.screenWidth)-310, y, agents[i]); ok {
			if err := s.game.Select(agents[i].Slot, kind); err != nil {
				slog.Warn("selection failed", "slot", agents[i].Slot, "error", err)
			}
		}
	}

	if s.showPerf {
		s.perf.Draw(s.game.Perf().Stats(), s.game.Registry())
	}
}
