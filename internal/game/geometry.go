package game

import "math"

// Rect is an axis-aligned bounding box in arena pixels. X,Y is the top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// Intersects reports whether two boxes overlap. Touching edges do not count.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W &&
		r.X+r.W > o.X &&
		r.Y < o.Y+o.H &&
		r.Y+r.H > o.Y
}

// Center returns the midpoint of the box.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Arena is the playfield extent. The origin is the top-left corner.
type Arena struct {
	Width  float64
	Height float64
}

// Contains reports whether a point lies within the arena bounds (edges inclusive).
func (a Arena) Contains(x, y float64) bool {
	return x >= 0 && x <= a.Width && y >= 0 && y <= a.Height
}

// Visible reports whether any part of r is inside the arena. The draw pass
// only hands entities to the renderer when this holds.
func (a Arena) Visible(r Rect) bool {
	return r.X < a.Width &&
		r.X+r.W > 0 &&
		r.Y < a.Height &&
		r.Y+r.H > 0
}

// Direction is one of the four cardinal headings. The numeric order matches
// a clockwise quarter-turn from up, which the renderer uses for rotation.
type Direction int

const (
	DirUp Direction = iota
	DirRight
	DirDown
	DirLeft
)

// directionCount is the number of cardinal directions.
const directionCount = 4

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Delta returns the unit step for the direction.
func (d Direction) Delta() (float64, float64) {
	switch d {
	case DirUp:
		return 0, -1
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	}
	return 0, 0
}

// DominantAxis picks the cardinal direction along whichever axis has the
// larger absolute displacement. Ties resolve to the vertical axis.
func DominantAxis(dx, dy float64) Direction {
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return DirRight
		}
		return DirLeft
	}
	if dy > 0 {
		return DirDown
	}
	return DirUp
}

// RNG is the subset of *rand.Rand the simulation draws from. Tests swap in
// scripted sources to force specific branches.
type RNG interface {
	Float64() float64
	Intn(n int) int
}

// randomInt returns a uniform integer in [lo, hi] inclusive.
func randomInt(rng RNG, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return rng.Intn(hi-lo+1) + lo
}

// randomRange returns a uniform float in [lo, hi).
func randomRange(rng RNG, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
