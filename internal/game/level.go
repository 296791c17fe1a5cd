package game

import (
	"math"

	"github.com/charmbracelet/log"
)

// Level layout constants. Positions are for the 800x600 arena; the boundary
// frame and spawn bands scale with the arena, the interior pattern does not.
const (
	boundaryThickness   = 20.0
	obstacleSize        = 40.0
	destructibleSize    = 30.0
	destructibleCount   = 25
	destructibleMargin  = 50.0
	destructibleTries   = 100 // per tile
	safeZoneHalf        = 150.0
	playerStartX        = 100.0
	enemySpawnAttempts  = 50
	enemySpawnEdge      = 70.0
	bonusSpawnAttempts  = 30
	bonusSpawnEdge      = 20.0
	enemyHalfGap        = 50.0 // keeps enemies clear of the centre line
	enemySpawnBottomGap = 140.0
)

// interiorObstacles is the fixed layout of permanent blocks.
var interiorObstacles = [][2]float64{
	{200, 150}, {400, 100}, {600, 200},
	{100, 400}, {300, 350}, {500, 450},
	{150, 250}, {350, 300}, {550, 150},
}

// LevelGenerator lays out walls and places enemies and bonuses by rejection
// sampling. Placement that runs out of attempts is dropped, never fatal.
type LevelGenerator struct {
	arena  Arena
	rng    RNG
	logger *log.Logger

	// Omitted counts placements dropped by the most recent call.
	Omitted int
}

// NewLevelGenerator creates a generator for arena drawing from rng.
func NewLevelGenerator(arena Arena, rng RNG, logger *log.Logger) *LevelGenerator {
	if logger == nil {
		logger = log.Default().WithPrefix("level")
	}
	return &LevelGenerator{arena: arena, rng: rng, logger: logger}
}

// PlayerStart is the fixed spawn point on the left edge, vertically centred.
func (g *LevelGenerator) PlayerStart() (float64, float64) {
	return playerStartX, g.arena.Height / 2
}

// inSafeZone reports whether (x,y) is within the per-axis safe distance of
// the player spawn point.
func (g *LevelGenerator) inSafeZone(x, y float64) bool {
	sx, sy := g.PlayerStart()
	return math.Abs(x-sx) <= safeZoneHalf && math.Abs(y-sy) <= safeZoneHalf
}

// CreateLevel returns the boundary frame, the fixed interior obstacles and a
// fresh batch of destructible tiles kept out of the spawn safe zone.
func (g *LevelGenerator) CreateLevel() []*Wall {
	w, h := g.arena.Width, g.arena.Height
	walls := []*Wall{
		NewWall(0, 0, w, boundaryThickness, false),
		NewWall(0, h-boundaryThickness, w, boundaryThickness, false),
		NewWall(0, 0, boundaryThickness, h, false),
		NewWall(w-boundaryThickness, 0, boundaryThickness, h, false),
	}
	for _, p := range interiorObstacles {
		walls = append(walls, NewWall(p[0], p[1], obstacleSize, obstacleSize, false))
	}

	g.Omitted = 0
	for i := 0; i < destructibleCount; i++ {
		placed := false
		for try := 0; try < destructibleTries; try++ {
			x := randomRange(g.rng, destructibleMargin, w-destructibleMargin-destructibleSize)
			y := randomRange(g.rng, destructibleMargin, h-destructibleMargin-destructibleSize)
			if g.inSafeZone(x, y) {
				continue
			}
			walls = append(walls, NewWall(x, y, destructibleSize, destructibleSize, true))
			placed = true
			break
		}
		if !placed {
			g.Omitted++
		}
	}
	if g.Omitted > 0 {
		g.logger.Debug("destructible placement exhausted", "omitted", g.Omitted)
	}
	return walls
}

// overlapsWall reports whether r intersects any standing wall.
func overlapsWall(r Rect, walls []*Wall) bool {
	for _, w := range walls {
		if !w.removed && r.Intersects(w.Bounds()) {
			return true
		}
	}
	return false
}

// SpawnEnemies places up to count enemies in the half of the arena opposite
// the player spawn. An enemy that finds no free spot is left out.
func (g *LevelGenerator) SpawnEnemies(count int, walls []*Wall, speed float64) []*Tank {
	w, h := g.arena.Width, g.arena.Height
	enemies := make([]*Tank, 0, count)
	g.Omitted = 0
	for i := 0; i < count; i++ {
		var spawned *Tank
		for try := 0; try < enemySpawnAttempts; try++ {
			x := randomRange(g.rng, w/2+enemyHalfGap, w-enemySpawnEdge)
			y := randomRange(g.rng, enemySpawnEdge, h-enemySpawnBottomGap)
			r := Rect{X: x, Y: y, W: tankSize, H: tankSize}
			if overlapsWall(r, walls) {
				continue
			}
			spawned = NewEnemyTank(x, y, speed)
			break
		}
		if spawned == nil {
			g.Omitted++
			continue
		}
		enemies = append(enemies, spawned)
	}
	if g.Omitted > 0 {
		g.logger.Debug("enemy placement exhausted", "requested", count, "omitted", g.Omitted)
	}
	return enemies
}

// SpawnBonus places a random bonus clear of every wall, or returns nil when
// no spot is found.
func (g *LevelGenerator) SpawnBonus(walls []*Wall) *Bonus {
	w, h := g.arena.Width, g.arena.Height
	g.Omitted = 0
	for try := 0; try < bonusSpawnAttempts; try++ {
		x := randomRange(g.rng, bonusSpawnEdge, w-bonusSpawnEdge-bonusSize)
		y := randomRange(g.rng, bonusSpawnEdge, h-bonusSpawnEdge-bonusSize)
		r := Rect{X: x, Y: y, W: bonusSize, H: bonusSize}
		if overlapsWall(r, walls) {
			continue
		}
		return NewBonus(x, y, randomBonusKind(g.rng))
	}
	g.Omitted = 1
	g.logger.Debug("bonus placement exhausted", "attempts", bonusSpawnAttempts)
	return nil
}
