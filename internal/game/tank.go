package game

import "image/color"

// DamageOutcome is the result of a hit on a tank.
type DamageOutcome int

const (
	DamageBlocked DamageOutcome = iota // invulnerable, nothing changed
	DamageTaken                        // health lost but still alive
	DamageLethal                       // health exhausted
)

func (d DamageOutcome) String() string {
	switch d {
	case DamageBlocked:
		return "blocked"
	case DamageTaken:
		return "taken"
	case DamageLethal:
		return "lethal"
	default:
		return "unknown"
	}
}

// Destroyed reports whether the hit killed the tank.
func (d DamageOutcome) Destroyed() bool { return d == DamageLethal }

// Tank is either the player or an AI enemy. Facing (movement) and aim
// (cannon) are independent.
type Tank struct {
	x, y      float64
	prevX     float64
	prevY     float64
	facing    Direction
	aim       Direction
	speed     float64
	baseSpeed float64
	isPlayer  bool

	cooldown     int     // ticks until the cannon may fire again
	recoil       float64 // visual cannon pull-back, decays to zero
	health       int
	maxHealth    int
	invulnerable int // ticks of damage immunity left

	// AI state (enemies only).
	targetX, targetY float64 // last known player position
	moveCooldown     int     // ticks until the next movement decision

	color color.RGBA
}

// NewPlayerTank creates the player at (x,y) with the given speed.
func NewPlayerTank(x, y, speed float64) *Tank {
	return &Tank{
		x: x, y: y, prevX: x, prevY: y,
		facing:    DirRight,
		aim:       DirRight,
		speed:     speed,
		baseSpeed: speed,
		isPlayer:  true,
		health:    1,
		maxHealth: 1,
		color:     colGreen,
	}
}

// NewEnemyTank creates an AI tank at (x,y).
func NewEnemyTank(x, y, speed float64) *Tank {
	return &Tank{
		x: x, y: y, prevX: x, prevY: y,
		facing:    DirUp,
		aim:       DirUp,
		speed:     speed,
		baseSpeed: speed,
		health:    1,
		maxHealth: 1,
		color:     colRed,
	}
}

// Bounds returns the fixed-size hitbox at the current position.
func (t *Tank) Bounds() Rect {
	return Rect{X: t.x, Y: t.y, W: tankSize, H: tankSize}
}

// Position returns the top-left corner.
func (t *Tank) Position() (float64, float64) { return t.x, t.y }

// Facing returns the movement heading.
func (t *Tank) Facing() Direction { return t.facing }

// Aim returns the cannon heading.
func (t *Tank) Aim() Direction { return t.aim }

// IsPlayer reports whether this is the player's tank.
func (t *Tank) IsPlayer() bool { return t.isPlayer }

// Alive is false once health is exhausted.
func (t *Tank) Alive() bool { return t.health > 0 }

// Invulnerable returns the remaining immunity ticks.
func (t *Tank) Invulnerable() int { return t.invulnerable }

// Cooldown returns the ticks until the cannon is ready.
func (t *Tank) Cooldown() int { return t.cooldown }

// Speed returns the current movement speed in pixels per tick.
func (t *Tank) Speed() float64 { return t.speed }

// tankEnv is what a tank needs from the world for one update.
type tankEnv struct {
	arena     Arena
	walls     []*Wall
	intent    Intent
	rng       RNG
	shootProb float64
	hasTarget bool
	targetX   float64
	targetY   float64
}

// tankStep reports what happened during one tank update.
type tankStep struct {
	moved   bool    // position changed before collision rollback
	blocked bool    // movement was rolled back
	shot    *Bullet // bullet fired by the AI this tick, if any
}

// update advances the tank one tick: immunity countdown, movement, wall
// rollback, then cooldown and recoil decay.
func (t *Tank) update(env *tankEnv) tankStep {
	var step tankStep
	if !t.Alive() {
		return step
	}
	if env.hasTarget {
		t.targetX, t.targetY = env.targetX, env.targetY
	}
	if t.invulnerable > 0 {
		t.invulnerable--
	}

	t.prevX, t.prevY = t.x, t.y

	if t.isPlayer {
		t.applyIntent(env.intent)
	} else {
		step.shot = t.think(env)
	}
	step.moved = t.x != t.prevX || t.y != t.prevY

	if t.collides(env) {
		t.x, t.y = t.prevX, t.prevY
		step.blocked = true
		if !t.isPlayer {
			t.facing = Direction(env.rng.Intn(directionCount))
			t.moveCooldown = enemyBlockedRethink
		}
	}

	if t.cooldown > 0 {
		t.cooldown--
	}
	if t.recoil > 0 {
		t.recoil -= cannonRecovery
		if t.recoil < 0 {
			t.recoil = 0
		}
	}
	return step
}

// applyIntent moves the player by each held direction independently, so two
// perpendicular flags produce diagonal motion. The last applied direction
// becomes the facing. With AimFollowsMove the cannon takes the facing, but only
// while something is held.
func (t *Tank) applyIntent(in Intent) {
	for _, d := range moveOrder {
		if !in.Move[d] {
			continue
		}
		dx, dy := d.Delta()
		t.x += dx * t.speed
		t.y += dy * t.speed
		t.facing = d
	}
	if in.AimFollowsMove && in.Moving() {
		t.aim = t.facing
		return
	}
	for _, d := range aimOrder {
		if in.Aim[d] {
			t.aim = d
		}
	}
}

// moveOrder is the order held movement flags are applied in.
var moveOrder = [directionCount]Direction{DirUp, DirDown, DirLeft, DirRight}

// aimOrder is the priority of held aim flags; later entries win.
var aimOrder = [directionCount]Direction{DirUp, DirRight, DirDown, DirLeft}

// think runs the enemy policy: periodic movement decision, continuous aim at
// the player, movement along the facing, and a random shot attempt.
func (t *Tank) think(env *tankEnv) *Bullet {
	t.moveCooldown--
	if t.moveCooldown <= 0 {
		t.decide(env.rng)
		t.moveCooldown = randomInt(env.rng, enemyDecisionMin, enemyDecisionMax)
	}

	dx, dy := t.facing.Delta()
	t.x += dx * t.speed
	t.y += dy * t.speed

	t.aim = DominantAxis(t.targetX-t.x, t.targetY-t.y)

	if env.rng.Float64() < env.shootProb {
		return t.Shoot()
	}
	return nil
}

// decide picks a new facing: usually along the dominant axis toward the last
// known player position, otherwise a random cardinal direction.
func (t *Tank) decide(rng RNG) {
	if rng.Float64() < enemyChaseChance {
		t.facing = DominantAxis(t.targetX-t.x, t.targetY-t.y)
		return
	}
	t.facing = Direction(rng.Intn(directionCount))
}

// collides reports whether the tank overlaps a wall or the boundary margin.
func (t *Tank) collides(env *tankEnv) bool {
	if t.x < boundaryMargin ||
		t.x > env.arena.Width-tankSize-boundaryMargin ||
		t.y < boundaryMargin ||
		t.y > env.arena.Height-tankSize-boundaryMargin {
		return true
	}
	b := t.Bounds()
	for _, w := range env.walls {
		if w.removed {
			continue
		}
		if b.Intersects(w.Bounds()) {
			return true
		}
	}
	return false
}

// Shoot fires along the aim direction if the cannon is ready. It returns nil
// and leaves the tank untouched while the cooldown is running.
func (t *Tank) Shoot() *Bullet {
	if t.cooldown > 0 || !t.Alive() {
		return nil
	}
	t.cooldown = shootCooldownTicks
	t.recoil = cannonRecoil

	var bx, by float64
	switch t.aim {
	case DirUp:
		bx = t.x + tankSize/2 - bulletSize/2
		by = t.y - bulletSize
	case DirRight:
		bx = t.x + tankSize
		by = t.y + tankSize/2 - bulletSize/2
	case DirDown:
		bx = t.x + tankSize/2 - bulletSize/2
		by = t.y + tankSize
	case DirLeft:
		bx = t.x - bulletSize
		by = t.y + tankSize/2 - bulletSize/2
	}
	return NewBullet(bx, by, t.aim, t.isPlayer)
}

// TakeDamage applies one point of damage unless the tank is invulnerable.
// A surviving player is granted a fresh immunity window. With single-point
// health every unblocked hit is lethal; the survival branch is kept for
// multi-hit tanks.
func (t *Tank) TakeDamage() DamageOutcome {
	if t.invulnerable > 0 {
		return DamageBlocked
	}
	t.health--
	if t.health <= 0 {
		return DamageLethal
	}
	if t.isPlayer {
		t.invulnerable = invulnerableTicks
	}
	return DamageTaken
}

// respawn puts the tank back at (x,y) with full health and immunity.
func (t *Tank) respawn(x, y float64) {
	t.x, t.y = x, y
	t.prevX, t.prevY = x, y
	t.health = t.maxHealth
	t.invulnerable = invulnerableTicks
	t.cooldown = 0
	t.recoil = 0
}

// Draw renders the hull along the facing and the cannon along the aim.
func (t *Tank) Draw(r Renderer) {
	alpha := 1.0
	if t.invulnerable > 0 && (t.invulnerable/5)%2 == 0 {
		alpha = 0.5
	}
	hull := t.color
	inner, cannon := colDarkRed, colCannonRed
	if t.isPlayer {
		inner, cannon = colDarkGreen, colDarkGreen
	}

	body := Rect{X: t.x + 4, Y: t.y + 4, W: tankSize - 8, H: tankSize - 8}
	r.FillRect(body, withAlpha(hull, alpha))
	r.StrokeRect(body, 2, withAlpha(colBlack, alpha))
	r.FillRect(Rect{X: t.x + 8, Y: t.y + 8, W: tankSize - 16, H: tankSize - 16}, withAlpha(inner, alpha))

	// Tracks sit on the two sides parallel to the facing.
	if t.facing == DirUp || t.facing == DirDown {
		r.FillRect(Rect{X: t.x, Y: t.y + 2, W: 4, H: tankSize - 4}, withAlpha(colGray, alpha))
		r.FillRect(Rect{X: t.x + tankSize - 4, Y: t.y + 2, W: 4, H: tankSize - 4}, withAlpha(colGray, alpha))
	} else {
		r.FillRect(Rect{X: t.x + 2, Y: t.y, W: tankSize - 4, H: 4}, withAlpha(colGray, alpha))
		r.FillRect(Rect{X: t.x + 2, Y: t.y + tankSize - 4, W: tankSize - 4, H: 4}, withAlpha(colGray, alpha))
	}

	r.FillRect(t.cannonRect(), withAlpha(cannon, alpha))
}

// cannonRect is the 4px barrel starting 8px from the hull centre, shortened
// by the current recoil.
func (t *Tank) cannonRect() Rect {
	const width = 4.0
	length := 16 - t.recoil
	cx, cy := t.Bounds().Center()
	switch t.aim {
	case DirUp:
		return Rect{X: cx - width/2, Y: cy - 8 - length, W: width, H: length}
	case DirDown:
		return Rect{X: cx - width/2, Y: cy + 8, W: width, H: length}
	case DirLeft:
		return Rect{X: cx - 8 - length, Y: cy - width/2, W: length, H: width}
	default:
		return Rect{X: cx + 8, Y: cy - width/2, W: length, H: width}
	}
}
