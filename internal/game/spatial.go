package game

import "math"

// spatialCellSize is the bucket edge length in pixels. Larger cells mean fewer
// buckets to visit per query but more false positives to re-check.
const spatialCellSize = 100.0

// ColliderKind tags the entity carried by a Collider.
type ColliderKind int

const (
	ColliderWall ColliderKind = iota
	ColliderTank
	ColliderBullet
	ColliderBonus
)

func (k ColliderKind) String() string {
	switch k {
	case ColliderWall:
		return "wall"
	case ColliderTank:
		return "tank"
	case ColliderBullet:
		return "bullet"
	case ColliderBonus:
		return "bonus"
	default:
		return "unknown"
	}
}

// Collider is a closed variant over everything the grid can hold. Exactly one
// pointer field is set, selected by Kind.
type Collider struct {
	Kind   ColliderKind
	Wall   *Wall
	Tank   *Tank
	Bullet *Bullet
	Bonus  *Bonus
}

func wallCollider(w *Wall) Collider     { return Collider{Kind: ColliderWall, Wall: w} }
func tankCollider(t *Tank) Collider     { return Collider{Kind: ColliderTank, Tank: t} }
func bulletCollider(b *Bullet) Collider { return Collider{Kind: ColliderBullet, Bullet: b} }
func bonusCollider(b *Bonus) Collider   { return Collider{Kind: ColliderBonus, Bonus: b} }

// Bounds returns the current bounding box of the wrapped entity.
func (c Collider) Bounds() Rect {
	switch c.Kind {
	case ColliderWall:
		return c.Wall.Bounds()
	case ColliderTank:
		return c.Tank.Bounds()
	case ColliderBullet:
		return c.Bullet.Bounds()
	case ColliderBonus:
		return c.Bonus.Bounds()
	}
	return Rect{}
}

// Alive is false once the wrapped entity has been removed earlier in the same
// tick. The grid is only rebuilt once per tick so stale entries must be skipped.
func (c Collider) Alive() bool {
	switch c.Kind {
	case ColliderWall:
		return c.Wall != nil && !c.Wall.removed
	case ColliderTank:
		return c.Tank != nil && c.Tank.Alive()
	case ColliderBullet:
		return c.Bullet != nil && c.Bullet.active
	case ColliderBonus:
		return c.Bonus != nil && c.Bonus.life > 0
	}
	return false
}

// identity returns the wrapped pointer for de-duplication.
func (c Collider) identity() any {
	switch c.Kind {
	case ColliderWall:
		return c.Wall
	case ColliderTank:
		return c.Tank
	case ColliderBullet:
		return c.Bullet
	case ColliderBonus:
		return c.Bonus
	}
	return nil
}

type cellKey struct{ cx, cy int }

// SpatialGrid buckets colliders by uniform cells for nearby queries. An entity
// is stored in every cell its bounding box touches, so long boundary walls are
// found from anywhere along their length.
type SpatialGrid struct {
	cellSize float64
	cells    map[cellKey][]Collider
}

// NewSpatialGrid creates an empty grid. A non-positive cell size falls back to
// spatialCellSize.
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = spatialCellSize
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]Collider),
	}
}

func (g *SpatialGrid) cellOf(x, y float64) cellKey {
	return cellKey{
		cx: int(math.Floor(x / g.cellSize)),
		cy: int(math.Floor(y / g.cellSize)),
	}
}

// Insert buckets c under every cell overlapped by its bounds.
func (g *SpatialGrid) Insert(c Collider) {
	b := c.Bounds()
	lo := g.cellOf(b.X, b.Y)
	hi := g.cellOf(b.X+b.W, b.Y+b.H)
	for cy := lo.cy; cy <= hi.cy; cy++ {
		for cx := lo.cx; cx <= hi.cx; cx++ {
			k := cellKey{cx, cy}
			g.cells[k] = append(g.cells[k], c)
		}
	}
}

// Query returns every collider bucketed in a cell that overlaps the square of
// half-size radius around (x,y). Results are unique and may include entities
// that do not actually overlap; callers re-check exact intersection.
func (g *SpatialGrid) Query(x, y, radius float64) []Collider {
	lo := g.cellOf(x-radius, y-radius)
	hi := g.cellOf(x+radius, y+radius)
	var out []Collider
	seen := make(map[any]struct{})
	for cx := lo.cx; cx <= hi.cx; cx++ {
		for cy := lo.cy; cy <= hi.cy; cy++ {
			for _, c := range g.cells[cellKey{cx, cy}] {
				id := c.identity()
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, c)
			}
		}
	}
	return out
}

// Clear empties every bucket.
func (g *SpatialGrid) Clear() {
	clear(g.cells)
}

// CellCount returns the number of non-empty buckets.
func (g *SpatialGrid) CellCount() int {
	return len(g.cells)
}
