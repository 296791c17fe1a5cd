package game

import (
	"math/rand"
	"testing"
)

func TestBullet_StraightLineConstantSpeed(t *testing.T) {
	arena := Arena{Width: 800, Height: 600}
	b := NewBullet(100, 100, DirDown, true)
	for i := 1; i <= 10; i++ {
		if !b.update(arena) {
			t.Fatalf("bullet died at step %d", i)
		}
		x, y := b.Position()
		if x != 100 || y != 100+float64(i)*bulletSpeed {
			t.Fatalf("step %d: (%v,%v)", i, x, y)
		}
	}
}

func TestBullet_LeavingArenaDeactivates(t *testing.T) {
	arena := Arena{Width: 800, Height: 600}
	b := NewBullet(795, 300, DirRight, true)
	if b.update(arena) {
		t.Fatal("bullet past the right edge should be inactive")
	}
	if b.Active() {
		t.Fatal("Active should be false")
	}
}

func TestWall_DestructibleFallsToOneHit(t *testing.T) {
	w := NewWall(0, 0, 30, 30, true)
	if !w.hit() {
		t.Fatal("one hit should remove a destructible wall")
	}
	if !w.Removed() {
		t.Fatal("wall should be removed")
	}
	if w.hit() {
		t.Fatal("a removed wall cannot be removed again")
	}
}

func TestWall_PermanentNeverRemoved(t *testing.T) {
	w := NewWall(0, 0, 40, 40, false)
	for i := 0; i < 1000; i++ {
		if w.hit() || w.Removed() {
			t.Fatalf("permanent wall removed after %d hits", i+1)
		}
	}
}

func TestBonus_LifetimeAndBlink(t *testing.T) {
	b := NewBonus(100, 100, BonusSpeed)
	if b.Life() != bonusLifeTicks {
		t.Fatalf("life = %d, want %d", b.Life(), bonusLifeTicks)
	}
	hidden := 0
	ticks := 0
	for b.update() {
		ticks++
		if b.Life() >= bonusBlinkTicks && !b.Shown() {
			t.Fatalf("bonus hidden at life %d before the blink window", b.Life())
		}
		if !b.Shown() {
			hidden++
		}
	}
	if ticks != bonusLifeTicks-1 {
		t.Errorf("bonus lived %d ticks, want %d", ticks, bonusLifeTicks-1)
	}
	if hidden == 0 {
		t.Error("bonus never blinked before expiry")
	}
}

func TestBonus_KindsAreUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(5)) // #nosec G404 -- test
	counts := map[BonusKind]int{}
	for i := 0; i < 3000; i++ {
		counts[randomBonusKind(rng)]++
	}
	for k := BonusExtraLife; k < bonusKindCount; k++ {
		if counts[k] < 800 || counts[k] > 1200 {
			t.Errorf("%s drawn %d times out of 3000", k, counts[k])
		}
	}
}

func TestExplosion_ParticleBudget(t *testing.T) {
	rng := rand.New(rand.NewSource(2)) // #nosec G404 -- test
	low := GraphicsSettings{Explosions: true, ParticleDensity: DensityLow, ScreenShake: true}
	e := NewExplosion(100, 100, explosionSizeEnemy, low, rng)
	// debris min(18, 8) + fire min(12, 4)
	if e.ParticleCount() != 12 {
		t.Errorf("enemy explosion at low density has %d particles, want 12", e.ParticleCount())
	}
	small := NewExplosion(100, 100, explosionSizeWall, DefaultGraphics(), rng)
	if small.ParticleCount() != 10 {
		t.Errorf("wall explosion has %d particles, want 10", small.ParticleCount())
	}
	if small.flash != 0 || small.shake != 0 {
		t.Error("small explosions should not flash or shake")
	}
}

func TestExplosion_ShakeFollowsSetting(t *testing.T) {
	rng := rand.New(rand.NewSource(2)) // #nosec G404 -- test
	on := NewExplosion(0, 0, explosionSizePlayer, DefaultGraphics(), rng)
	if on.shake != 5*explosionSizePlayer {
		t.Errorf("shake = %v, want %v", on.shake, 5*explosionSizePlayer)
	}
	g := DefaultGraphics()
	g.ScreenShake = false
	if off := NewExplosion(0, 0, explosionSizePlayer, g, rng); off.shake != 0 {
		t.Errorf("shake = %v with screen shake off", off.shake)
	}
}

func TestExplosion_StagesThenDies(t *testing.T) {
	rng := rand.New(rand.NewSource(4)) // #nosec G404 -- test
	e := NewExplosion(100, 100, explosionSizeEnemy, DefaultGraphics(), rng)
	seen := map[ExplosionStage]bool{e.Stage(): true}
	alive := true
	ticks := 0
	for alive && ticks < 1000 {
		alive = e.update()
		seen[e.Stage()] = true
		ticks++
	}
	if alive {
		t.Fatal("explosion never finished")
	}
	for _, st := range []ExplosionStage{StageGrowing, StageSustain, StageDecay} {
		if !seen[st] {
			t.Errorf("stage %s never reached", st)
		}
	}
	if e.ParticleCount() != 0 {
		t.Errorf("%d particles left after death", e.ParticleCount())
	}
}

func TestNoticeLog_KeepsNewestFive(t *testing.T) {
	var nl NoticeLog
	for _, s := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		nl.Add(s, colWhite)
	}
	got := nl.Recent()
	if len(got) != maxNotices {
		t.Fatalf("len = %d, want %d", len(got), maxNotices)
	}
	if got[0].Text != "c" || got[4].Text != "g" {
		t.Fatalf("order = %v..%v, want c..g", got[0].Text, got[4].Text)
	}
}

func TestNoticeLog_Expires(t *testing.T) {
	var nl NoticeLog
	nl.Add("+1 LIFE", colRed)
	for i := 0; i < noticeLifeTicks-1; i++ {
		nl.update()
	}
	if nl.Len() != 1 {
		t.Fatalf("notice gone early after %d ticks", noticeLifeTicks-1)
	}
	nl.update()
	if nl.Len() != 0 {
		t.Fatal("notice should expire after its lifetime")
	}
}

func TestEventLog_FilterAndLimit(t *testing.T) {
	l := NewEventLog(3)
	l.Add(1, CatCombat, "enemy_destroyed", "a", 100)
	l.Add(2, CatWall, "destroyed", "b", 0)
	l.Add(3, CatCombat, "enemy_destroyed", "c", 200)
	l.Add(4, CatCombat, "player_destroyed", "d", 2)
	if l.Len() != 3 {
		t.Fatalf("len = %d, want 3", l.Len())
	}
	if l.Count(CatCombat, "enemy_destroyed") != 1 {
		t.Errorf("oldest event should have been dropped")
	}
	last, ok := l.LastOf(CatCombat, "")
	if !ok || last.Value != "d" {
		t.Errorf("LastOf = %+v", last)
	}
	if !l.Has(CatWall, "", "b") || l.Has(CatWall, "", "zzz") {
		t.Error("Has mismatched")
	}
	if len(l.FilterTickRange(3, 4)) != 2 {
		t.Error("tick range filter mismatched")
	}
}
