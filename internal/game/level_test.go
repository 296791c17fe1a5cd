package game

import (
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestGenerator(seed int64) *LevelGenerator {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- test
	return NewLevelGenerator(Arena{Width: arenaWidth, Height: arenaHeight}, rng, log.New(io.Discard))
}

func TestLevel_BoundaryAndObstacles(t *testing.T) {
	g := newTestGenerator(1)
	walls := g.CreateLevel()
	permanent := 0
	for _, w := range walls {
		if !w.Destructible() {
			permanent++
		}
	}
	if permanent != 4+len(interiorObstacles) {
		t.Fatalf("permanent walls = %d, want %d", permanent, 4+len(interiorObstacles))
	}
	frame := []Rect{
		{X: 0, Y: 0, W: arenaWidth, H: boundaryThickness},
		{X: 0, Y: arenaHeight - boundaryThickness, W: arenaWidth, H: boundaryThickness},
		{X: 0, Y: 0, W: boundaryThickness, H: arenaHeight},
		{X: arenaWidth - boundaryThickness, Y: 0, W: boundaryThickness, H: arenaHeight},
	}
	for i, want := range frame {
		if got := walls[i].Bounds(); got != want {
			t.Errorf("boundary %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestLevel_DestructiblesAvoidSafeZone(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		g := newTestGenerator(seed)
		walls := g.CreateLevel()
		tiles := 0
		for _, w := range walls {
			if !w.Destructible() {
				continue
			}
			tiles++
			b := w.Bounds()
			if g.inSafeZone(b.X, b.Y) {
				t.Fatalf("seed %d: tile at (%.0f,%.0f) inside the safe zone", seed, b.X, b.Y)
			}
			if b.X < destructibleMargin || b.X > arenaWidth-destructibleMargin-destructibleSize ||
				b.Y < destructibleMargin || b.Y > arenaHeight-destructibleMargin-destructibleSize {
				t.Fatalf("seed %d: tile at (%.0f,%.0f) outside the placement band", seed, b.X, b.Y)
			}
		}
		if tiles+g.Omitted != destructibleCount {
			t.Fatalf("seed %d: %d tiles + %d omitted != %d", seed, tiles, g.Omitted, destructibleCount)
		}
	}
}

func TestLevel_PlayerSpawnIsClear(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		g := newTestGenerator(seed)
		walls := g.CreateLevel()
		px, py := g.PlayerStart()
		if overlapsWall(Rect{X: px, Y: py, W: tankSize, H: tankSize}, walls) {
			t.Fatalf("seed %d: player spawn overlaps a wall", seed)
		}
	}
}

func TestLevel_EnemiesInFarHalfClearOfWalls(t *testing.T) {
	g := newTestGenerator(9)
	walls := g.CreateLevel()
	enemies := g.SpawnEnemies(10, walls, 1.5)
	if len(enemies)+g.Omitted != 10 {
		t.Fatalf("%d enemies + %d omitted != 10", len(enemies), g.Omitted)
	}
	for _, e := range enemies {
		x, y := e.Position()
		if x < arenaWidth/2+enemyHalfGap || x > arenaWidth-enemySpawnEdge ||
			y < enemySpawnEdge || y > arenaHeight-enemySpawnBottomGap {
			t.Errorf("enemy at (%.0f,%.0f) outside the spawn band", x, y)
		}
		if overlapsWall(e.Bounds(), walls) {
			t.Errorf("enemy at (%.0f,%.0f) overlaps a wall", x, y)
		}
		if e.Speed() != 1.5 || e.IsPlayer() {
			t.Errorf("enemy speed %v player %v", e.Speed(), e.IsPlayer())
		}
	}
}

func TestLevel_PlacementExhaustionDegradesSilently(t *testing.T) {
	g := newTestGenerator(3)
	blocked := []*Wall{NewWall(0, 0, arenaWidth, arenaHeight, false)}
	if enemies := g.SpawnEnemies(4, blocked, 1); len(enemies) != 0 || g.Omitted != 4 {
		t.Fatalf("got %d enemies, %d omitted; want 0 and 4", len(enemies), g.Omitted)
	}
	if b := g.SpawnBonus(blocked); b != nil || g.Omitted != 1 {
		t.Fatalf("bonus %v omitted %d; want nil and 1", b, g.Omitted)
	}
}

func TestLevel_BonusClearOfWalls(t *testing.T) {
	g := newTestGenerator(4)
	walls := g.CreateLevel()
	for i := 0; i < 50; i++ {
		b := g.SpawnBonus(walls)
		if b == nil {
			continue
		}
		if overlapsWall(b.Bounds(), walls) {
			t.Fatalf("bonus at %+v overlaps a wall", b.Bounds())
		}
	}
}
