package game

import "testing"

func openEnv(rng RNG) *tankEnv {
	return &tankEnv{arena: Arena{Width: arenaWidth, Height: arenaHeight}, rng: rng}
}

func TestTank_ShootOnCooldownIsNoOp(t *testing.T) {
	tk := NewPlayerTank(100, 100, 3)
	if b := tk.Shoot(); b == nil {
		t.Fatal("first shot should fire")
	}
	before := *tk
	if b := tk.Shoot(); b != nil {
		t.Fatal("shot during cooldown should return nil")
	}
	if *tk != before {
		t.Fatalf("shot during cooldown mutated the tank:\n before %+v\n after  %+v", before, *tk)
	}
}

func TestTank_ShootSetsCooldownAndRecoil(t *testing.T) {
	tk := NewPlayerTank(100, 100, 3)
	tk.Shoot()
	if tk.Cooldown() != shootCooldownTicks {
		t.Errorf("cooldown = %d, want %d", tk.Cooldown(), shootCooldownTicks)
	}
	if tk.recoil != cannonRecoil {
		t.Errorf("recoil = %v, want %v", tk.recoil, cannonRecoil)
	}
}

func TestTank_BulletLeavesFromMuzzle(t *testing.T) {
	cases := []struct {
		aim    Direction
		wx, wy float64
	}{
		{DirUp, 100 + 16 - 3, 100 - 6},
		{DirRight, 132, 100 + 16 - 3},
		{DirDown, 100 + 16 - 3, 132},
		{DirLeft, 94, 100 + 16 - 3},
	}
	for _, c := range cases {
		tk := NewEnemyTank(100, 100, 1)
		tk.aim = c.aim
		b := tk.Shoot()
		x, y := b.Position()
		if x != c.wx || y != c.wy {
			t.Errorf("aim %s: bullet at (%v,%v), want (%v,%v)", c.aim, x, y, c.wx, c.wy)
		}
		if b.Direction() != c.aim || b.PlayerOwned() {
			t.Errorf("aim %s: bullet dir %s owned %v", c.aim, b.Direction(), b.PlayerOwned())
		}
		if b.Bounds().Intersects(tk.Bounds()) {
			t.Errorf("aim %s: bullet spawned inside its own tank", c.aim)
		}
	}
}

func TestTank_CooldownAndRecoilDecay(t *testing.T) {
	tk := NewPlayerTank(100, 100, 3)
	tk.Shoot()
	env := openEnv(quietRNG)
	for i := 0; i < 40; i++ {
		tk.update(env)
		if tk.recoil < 0 {
			t.Fatalf("recoil went negative at tick %d", i)
		}
	}
	if tk.Cooldown() != 0 || tk.recoil != 0 {
		t.Fatalf("cooldown %d recoil %v after 40 ticks, want 0 and 0", tk.Cooldown(), tk.recoil)
	}
	if tk.Shoot() == nil {
		t.Fatal("cannon should be ready again")
	}
}

func TestTank_InvulnerableIgnoresDamage(t *testing.T) {
	tk := NewPlayerTank(100, 100, 3)
	tk.invulnerable = 50
	for i := 0; i < 5; i++ {
		if out := tk.TakeDamage(); out.Destroyed() || out != DamageBlocked {
			t.Fatalf("hit %d while invulnerable returned %s", i, out)
		}
	}
	if tk.health != 1 {
		t.Fatalf("health changed while invulnerable: %d", tk.health)
	}
}

func TestTank_SingleHitIsLethal(t *testing.T) {
	tk := NewEnemyTank(100, 100, 1)
	if out := tk.TakeDamage(); out != DamageLethal {
		t.Fatalf("outcome = %s, want lethal", out)
	}
	if tk.Alive() {
		t.Fatal("tank should be dead")
	}
}

func TestTank_MultiHitPlayerGainsImmunity(t *testing.T) {
	tk := NewPlayerTank(100, 100, 3)
	tk.health, tk.maxHealth = 2, 2
	if out := tk.TakeDamage(); out != DamageTaken {
		t.Fatalf("outcome = %s, want taken", out)
	}
	if tk.Invulnerable() != invulnerableTicks {
		t.Fatalf("invulnerable = %d, want %d", tk.Invulnerable(), invulnerableTicks)
	}
}

func TestTank_DiagonalIntent(t *testing.T) {
	tk := NewPlayerTank(100, 100, 3)
	env := openEnv(quietRNG)
	env.intent = MoveIntent(DirRight, DirDown)
	tk.update(env)
	x, y := tk.Position()
	if x != 103 || y != 103 {
		t.Fatalf("position (%v,%v), want (103,103)", x, y)
	}
}

func TestTank_OpposingIntentsCancel(t *testing.T) {
	tk := NewPlayerTank(100, 100, 3)
	env := openEnv(quietRNG)
	env.intent = MoveIntent(DirLeft, DirRight, DirUp, DirDown)
	tk.update(env)
	x, y := tk.Position()
	if x != 100 || y != 100 {
		t.Fatalf("position (%v,%v), want unchanged", x, y)
	}
}

func TestTank_AimIndependentOfFacing(t *testing.T) {
	tk := NewPlayerTank(100, 100, 3)
	env := openEnv(quietRNG)
	env.intent = MoveIntent(DirDown)
	env.intent.Aim[DirLeft] = true
	tk.update(env)
	if tk.Facing() != DirDown || tk.Aim() != DirLeft {
		t.Fatalf("facing %s aim %s, want down/left", tk.Facing(), tk.Aim())
	}
}

func TestTank_AimFollowsMoveOnlyWhileMoving(t *testing.T) {
	tk := NewPlayerTank(100, 100, 3)
	env := openEnv(quietRNG)

	env.intent = MoveIntent(DirDown)
	env.intent.AimFollowsMove = true
	tk.update(env)
	if tk.Aim() != DirDown {
		t.Fatalf("aim %s, want down while the pad moves down", tk.Aim())
	}

	env.intent = Intent{AimFollowsMove: true}
	env.intent.Aim[DirLeft] = true
	tk.update(env)
	if tk.Aim() != DirLeft {
		t.Fatalf("aim %s; with nothing moving the aim flags should win", tk.Aim())
	}

	env.intent = Intent{AimFollowsMove: true}
	tk.update(env)
	if tk.Aim() != DirLeft || tk.Facing() != DirDown {
		t.Fatalf("facing %s aim %s; an idle intent must not snap the cannon to the facing", tk.Facing(), tk.Aim())
	}
}

func TestTank_WallRollback(t *testing.T) {
	tk := NewPlayerTank(104, 100, 3)
	env := openEnv(quietRNG)
	env.walls = []*Wall{NewWall(136, 90, 40, 40, false)}
	env.intent = MoveIntent(DirRight)
	step := tk.update(env)
	if !step.blocked {
		t.Fatal("move into wall should be blocked")
	}
	if x, y := tk.Position(); x != 104 || y != 100 {
		t.Fatalf("position (%v,%v), want full rollback to (104,100)", x, y)
	}
}

func TestTank_RemovedWallDoesNotBlock(t *testing.T) {
	tk := NewPlayerTank(104, 100, 3)
	w := NewWall(136, 90, 40, 40, true)
	w.hit()
	env := openEnv(quietRNG)
	env.walls = []*Wall{w}
	env.intent = MoveIntent(DirRight)
	if step := tk.update(env); step.blocked {
		t.Fatal("a destroyed wall should not block movement")
	}
}

func TestTank_BoundaryMargin(t *testing.T) {
	tk := NewPlayerTank(boundaryMargin+1, 300, 3)
	env := openEnv(quietRNG)
	env.intent = MoveIntent(DirLeft)
	tk.update(env)
	if x, _ := tk.Position(); x != boundaryMargin+1 {
		t.Fatalf("x = %v, want rollback to %v", x, boundaryMargin+1)
	}
}

func TestEnemy_BlockedMoveForcesRethink(t *testing.T) {
	e := NewEnemyTank(21, 100, 1.5)
	e.facing = DirLeft
	e.moveCooldown = 50
	env := openEnv(fixedRNG{f: 0.99, n: 2})
	env.shootProb = 0.02
	e.update(env)
	if x, _ := e.Position(); x != 21 {
		t.Fatalf("x = %v, want rollback to 21", x)
	}
	if e.Facing() != DirDown {
		t.Errorf("facing = %s, want the rng's pick (down)", e.Facing())
	}
	if e.moveCooldown != enemyBlockedRethink {
		t.Errorf("moveCooldown = %d, want %d", e.moveCooldown, enemyBlockedRethink)
	}
}

func TestEnemy_DecisionFollowsDominantAxis(t *testing.T) {
	e := NewEnemyTank(300, 300, 1.5)
	// Chase roll passes, decision interval draw, shot roll fails.
	env := openEnv(&scriptedRNG{floats: []float64{0.0, 0.99}, ints: []int{0}})
	env.hasTarget = true
	env.targetX, env.targetY = 500, 310 // dx=200, dy=10
	env.shootProb = 0.5
	step := e.update(env)
	if e.Facing() != DirRight {
		t.Fatalf("facing = %s, want right (toward the player on x)", e.Facing())
	}
	if x, _ := e.Position(); x != 301.5 {
		t.Errorf("x = %v, want 301.5", x)
	}
	if e.Aim() != DirRight {
		t.Errorf("aim = %s, want right", e.Aim())
	}
	if step.shot != nil {
		t.Error("failed shot roll should not fire")
	}
	if e.moveCooldown != enemyDecisionMin {
		t.Errorf("moveCooldown = %d, want %d", e.moveCooldown, enemyDecisionMin)
	}
}

func TestEnemy_DecisionRandomBranch(t *testing.T) {
	e := NewEnemyTank(300, 300, 1.5)
	env := openEnv(&scriptedRNG{floats: []float64{0.9, 0.99}, ints: []int{int(DirLeft), 0}})
	env.hasTarget = true
	env.targetX, env.targetY = 500, 310
	e.update(env)
	if e.Facing() != DirLeft {
		t.Fatalf("facing = %s, want the random pick (left)", e.Facing())
	}
	// Aim keeps tracking the player even while driving away.
	if e.Aim() != DirRight {
		t.Fatalf("aim = %s, want right", e.Aim())
	}
}

func TestEnemy_ShootsOnSuccessfulRoll(t *testing.T) {
	e := NewEnemyTank(300, 300, 1.5)
	e.moveCooldown = 50
	env := openEnv(&scriptedRNG{floats: []float64{0.0}})
	env.shootProb = 0.02
	if step := e.update(env); step.shot == nil {
		t.Fatal("roll under shoot probability should fire")
	}
	// Cooldown blocks the next successful roll silently.
	env.rng = &scriptedRNG{floats: []float64{0.0}}
	if step := e.update(env); step.shot != nil {
		t.Fatal("enemy fired through its cooldown")
	}
}

func TestTank_RespawnRestoresHealthAndImmunity(t *testing.T) {
	tk := NewPlayerTank(300, 300, 3)
	tk.TakeDamage()
	tk.respawn(100, 284)
	if !tk.Alive() || tk.Invulnerable() != invulnerableTicks {
		t.Fatalf("alive=%v invulnerable=%d after respawn", tk.Alive(), tk.Invulnerable())
	}
	if x, y := tk.Position(); x != 100 || y != 284 {
		t.Fatalf("position (%v,%v), want (100,284)", x, y)
	}
}
