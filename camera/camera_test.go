package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 50)

	if cam.X != 0 || cam.Z != 0 {
		t.Errorf("expected camera at origin, got (%f, %f)", cam.X, cam.Z)
	}
	// 720 * 0.9 / 100
	if math.Abs(float64(cam.Zoom-6.48)) > 1e-4 {
		t.Errorf("expected zoom 6.48, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 50)

	sx, sy := cam.WorldToScreen(0, 0)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}

	// The whole world fits vertically.
	_, top := cam.WorldToScreen(0, -50)
	_, bottom := cam.WorldToScreen(0, 50)
	if top < 0 || bottom > 720 {
		t.Errorf("world does not fit: top=%f bottom=%f", top, bottom)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 50)
	cam.Pan(100, -40)
	cam.ZoomBy(1.5)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wz := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wz)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wz, sx, sy)
		}
	}
}

func TestPanStaysInWorld(t *testing.T) {
	cam := New(1280, 720, 50)
	cam.Pan(1e6, -1e6)

	if cam.X != 50 || cam.Z != -50 {
		t.Errorf("expected center clamped to (50, -50), got (%f, %f)", cam.X, cam.Z)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 50)

	cam.ZoomBy(1000)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected max zoom %f, got %f", cam.MaxZoom, cam.Zoom)
	}
	cam.ZoomBy(1e-6)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected min zoom %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.Pan(30, 30)
	cam.Reset()
	if cam.X != 0 || cam.Z != 0 || math.Abs(float64(cam.Zoom-6.48)) > 1e-4 {
		t.Errorf("reset failed: %+v", cam)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 50)
	cam.SetZoom(cam.MaxZoom)

	if !cam.IsVisible(0, 0, 1) {
		t.Error("origin should be visible")
	}
	if cam.IsVisible(49, 49, 1) {
		t.Error("far corner should be culled at max zoom")
	}
}

func TestGridLines(t *testing.T) {
	tests := []struct {
		name    string
		size    float32
		spacing float32
		want    int
	}{
		{"even", 50, 5, 21},
		{"uneven", 10, 3, 8}, // -10,-7,-4,-1,2,5,8 then edge 10
		{"invalid", 50, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(800, 600, tt.size)
			lines := cam.GridLines(tt.spacing)
			if len(lines) != tt.want {
				t.Fatalf("got %d lines, want %d: %v", len(lines), tt.want, lines)
			}
			if tt.want > 0 && (lines[0] != -tt.size || lines[len(lines)-1] != tt.size) {
				t.Errorf("lines do not span the world: %v", lines)
			}
		})
	}
}
