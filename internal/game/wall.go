package game

// Wall is a rectangular obstacle. Destructible walls fall to a single bullet;
// the rest are permanent.
type Wall struct {
	x, y, w, h   float64
	destructible bool
	health       int // ignored for permanent walls
	removed      bool
}

// NewWall creates a wall covering the given rectangle.
func NewWall(x, y, w, h float64, destructible bool) *Wall {
	wl := &Wall{x: x, y: y, w: w, h: h, destructible: destructible}
	if destructible {
		wl.health = 1
	}
	return wl
}

// Bounds returns the wall rectangle.
func (w *Wall) Bounds() Rect {
	return Rect{X: w.x, Y: w.y, W: w.w, H: w.h}
}

// Destructible reports whether bullets can remove the wall.
func (w *Wall) Destructible() bool { return w.destructible }

// Removed reports whether the wall has been destroyed.
func (w *Wall) Removed() bool { return w.removed }

// hit applies one bullet impact and reports whether the wall is now gone.
// Permanent walls ignore impacts.
func (w *Wall) hit() bool {
	if !w.destructible || w.removed {
		return false
	}
	w.health--
	if w.health <= 0 {
		w.removed = true
	}
	return w.removed
}

// Draw fills the wall and scores a hatch grid on it: brick for destructible
// tiles, stone for permanent walls.
func (w *Wall) Draw(r Renderer) {
	fill, line, step := colGray, colWallLine, 6.0
	if w.destructible {
		fill, line, step = colBrown, colDarkBrown, 4.0
	}
	b := w.Bounds()
	r.FillRect(b, fill)
	for i := 0.0; i < w.w; i += step {
		r.StrokeLine(w.x+i, w.y, w.x+i, w.y+w.h, 1, line)
	}
	for j := 0.0; j < w.h; j += step {
		r.StrokeLine(w.x, w.y+j, w.x+w.w, w.y+j, 1, line)
	}
}
