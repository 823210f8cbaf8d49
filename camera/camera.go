// Package camera provides a top-down camera over the bounded XZ plane.
package camera

import "math"

// Camera controls the viewport into the simulation world. World X maps to
// screen x and world Z maps to screen y; the world spans [-Size, Size] on
// both axes.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Z float32

	// Zoom is screen pixels per world unit
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// WorldSize is the half-extent the camera center is kept inside
	WorldSize float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	homeZoom float32
}

// margin is the share of the viewport left around the world at home zoom.
const margin = 0.9

// New creates a camera centered on the origin, zoomed so the whole world
// fits the viewport.
func New(viewportW, viewportH, worldSize float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldSize: worldSize,
	}
	c.fit()
	c.Zoom = c.homeZoom
	return c
}

// fit recomputes the home zoom and the zoom limits for the viewport.
func (c *Camera) fit() {
	side := c.ViewportW
	if c.ViewportH < side {
		side = c.ViewportH
	}
	c.homeZoom = side * margin / (2 * c.WorldSize)
	c.MinZoom = c.homeZoom / 4
	c.MaxZoom = c.homeZoom * 8
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wz float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wz-c.Z)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wz float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wz = c.Z + (sy-c.ViewportH/2)/c.Zoom
	return wx, wz
}

// IsVisible returns true if a circle at (wx, wz) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wz, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wz-c.Z) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.fit()
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels. The center
// stays inside the world.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, -c.WorldSize, c.WorldSize)
	c.Z = clamp(c.Z+dy/c.Zoom, -c.WorldSize, c.WorldSize)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = 0
	c.Z = 0
	c.Zoom = c.homeZoom
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minZ, maxX, maxZ float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minZ = c.Z - halfH
	maxZ = c.Z + halfH
	return
}

// GridLines returns the world coordinates of grid lines spaced by spacing
// across [-WorldSize, WorldSize], including both edges.
func (c *Camera) GridLines(spacing float32) []float32 {
	if spacing <= 0 {
		return nil
	}
	n := int(math.Floor(float64(2 * c.WorldSize / spacing)))
	lines := make([]float32, 0, n+2)
	for i := 0; i <= n; i++ {
		lines = append(lines, -c.WorldSize+float32(i)*spacing)
	}
	if last := lines[len(lines)-1]; c.WorldSize-last > 1e-4 {
		lines = append(lines, c.WorldSize)
	}
	return lines
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
