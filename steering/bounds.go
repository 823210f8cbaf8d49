package steering

import "gonum.org/v1/gonum/spatial/r3"

// World is a square region spanning [-Size, Size] on X and Z.
type World struct {
	Size float64
}

// Trim relocates a coordinate that left the world to the opposite edge:
// past +Size it reappears at -Size, past -Size at +Size. The second
// return reports whether a relocation happened.
func (w World) Trim(v float64) (float64, bool) {
	switch {
	case v < -w.Size:
		return w.Size, true
	case v > w.Size:
		return -w.Size, true
	}
	return v, false
}

// TrimPosition applies Trim to the X and Z components of p.
func (w World) TrimPosition(p r3.Vec) (r3.Vec, bool) {
	var wx, wz bool
	p.X, wx = w.Trim(p.X)
	p.Z, wz = w.Trim(p.Z)
	return p, wx || wz
}

// Contains reports whether p lies inside the world on X and Z.
func (w World) Contains(p r3.Vec) bool {
	return p.X >= -w.Size && p.X <= w.Size && p.Z >= -w.Size && p.Z <= w.Size
}
