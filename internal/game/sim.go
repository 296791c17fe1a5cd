package game

import (
	"fmt"
	"time"
)

// Tick advances the simulation one step. It does nothing unless a game is
// being played. Update order: player, enemies, spatial index, bullets,
// bonuses and the timed bonus roll, effects, then the level-clear check.
func (s *Session) Tick() {
	if s.state != StatePlaying {
		return
	}
	s.tick++
	now := s.clock.Now()

	s.updatePlayer(now)
	s.updateEnemies()

	s.rebuildGrid()
	s.updateBullets(now)
	s.pruneEnemies()

	if s.state == StatePlaying {
		s.updateBonuses()
		s.trySpawnBonus(now)
	}
	s.updateEffects()

	if s.state == StatePlaying && len(s.enemies) == 0 {
		s.completeLevel()
	}
	s.publishHUD()
}

func (s *Session) updatePlayer(now time.Time) {
	if s.player == nil || !s.player.Alive() {
		return
	}
	step := s.player.update(&tankEnv{
		arena:  s.arena,
		walls:  s.walls,
		intent: s.intent,
		rng:    s.rng,
	})
	if step.moved && !step.blocked && s.moveSound.Allow(now) {
		s.play(SoundMove)
	}
}

func (s *Session) updateEnemies() {
	env := tankEnv{
		arena:     s.arena,
		walls:     s.walls,
		rng:       s.rng,
		shootProb: s.difficulty.EnemyShootProb,
	}
	if s.player != nil {
		env.hasTarget = true
		env.targetX, env.targetY = s.player.Position()
	}
	for _, e := range s.enemies {
		step := e.update(&env)
		if step.shot != nil {
			s.addBullet(step.shot)
		}
	}
}

// rebuildGrid re-buckets every live collidable. Positions change every tick,
// so the index is rebuilt rather than updated.
func (s *Session) rebuildGrid() {
	s.grid.Clear()
	for _, w := range s.walls {
		if !w.removed {
			s.grid.Insert(wallCollider(w))
		}
	}
	if s.player != nil && s.player.Alive() {
		s.grid.Insert(tankCollider(s.player))
	}
	for _, e := range s.enemies {
		if e.Alive() {
			s.grid.Insert(tankCollider(e))
		}
	}
	for _, b := range s.bonuses {
		s.grid.Insert(bonusCollider(b))
	}
}

// updateBullets moves each bullet and resolves at most one collision for it.
// Iteration runs backwards so removal in place is safe.
func (s *Session) updateBullets(now time.Time) {
	for i := len(s.bullets) - 1; i >= 0; i-- {
		b := s.bullets[i]
		if !b.update(s.arena) {
			s.removeBullet(i)
			continue
		}
		s.resolveBullet(b, now)
		if !b.active {
			s.removeBullet(i)
		}
		if s.state != StatePlaying {
			return
		}
	}
}

func (s *Session) removeBullet(i int) {
	s.bullets = append(s.bullets[:i], s.bullets[i+1:]...)
}

// resolveBullet applies the first true overlap found for b, if any.
func (s *Session) resolveBullet(b *Bullet, now time.Time) {
	box := b.Bounds()
	cx, cy := box.Center()
	for _, c := range s.grid.Query(cx, cy, bulletSize) {
		if !c.Alive() || !box.Intersects(c.Bounds()) {
			continue
		}
		if s.applyHit(b, c, now) {
			b.active = false
			return
		}
	}
}

// applyHit resolves b striking c and reports whether the bullet is consumed.
func (s *Session) applyHit(b *Bullet, c Collider, now time.Time) bool {
	switch c.Kind {
	case ColliderWall:
		w := c.Wall
		if w.hit() {
			wx, wy := w.Bounds().Center()
			s.spawnExplosion(wx, wy, explosionSizeWall)
			s.events.Add(s.tick, CatWall, "destroyed", fmt.Sprintf("at (%.0f,%.0f)", w.x, w.y), 0)
			s.logger.Debug("wall destroyed", "x", w.x, "y", w.y)
		} else {
			s.play(SoundHit)
		}
		return true
	case ColliderTank:
		t := c.Tank
		if t.isPlayer == b.fromUser {
			return false
		}
		if t.isPlayer {
			s.hitPlayer(t)
		} else {
			s.hitEnemy(t, now)
		}
		return true
	case ColliderBonus, ColliderBullet:
		return false
	}
	return false
}

func (s *Session) hitEnemy(t *Tank, now time.Time) {
	switch t.TakeDamage() {
	case DamageLethal:
		tx, ty := t.Bounds().Center()
		s.spawnExplosion(tx, ty, explosionSizeEnemy)
		s.score += enemyScore
		s.events.Add(s.tick, CatCombat, "enemy_destroyed", fmt.Sprintf("at (%.0f,%.0f)", t.x, t.y), float64(s.score))
		s.logger.Debug("enemy destroyed", "x", t.x, "y", t.y, "score", s.score)
		s.trySpawnBonus(now)
	case DamageTaken:
		s.play(SoundHit)
	case DamageBlocked:
	}
}

func (s *Session) hitPlayer(t *Tank) {
	outcome := t.TakeDamage()
	if outcome == DamageBlocked {
		s.events.Add(s.tick, CatCombat, "player_blocked", "invulnerable", float64(t.invulnerable))
		return
	}
	if !outcome.Destroyed() {
		s.play(SoundHit)
		return
	}
	px, py := t.Bounds().Center()
	s.spawnExplosion(px, py, explosionSizePlayer)
	s.lives--
	s.events.Add(s.tick, CatCombat, "player_destroyed", fmt.Sprintf("lives %d", s.lives), float64(s.lives))
	s.logger.Debug("player destroyed", "lives", s.lives)
	if s.lives <= 0 {
		s.gameOver()
		return
	}
	sx, sy := s.levels.PlayerStart()
	t.respawn(sx, sy)
}

// pruneEnemies drops destroyed enemies from the roster.
func (s *Session) pruneEnemies() {
	alive := s.enemies[:0]
	for _, e := range s.enemies {
		if e.Alive() {
			alive = append(alive, e)
		}
	}
	clear(s.enemies[len(alive):])
	s.enemies = alive
}

// trySpawnBonus rolls for a bonus. It runs every tick and again on each kill;
// rolls inside the minimum interval since the last spawn are skipped.
func (s *Session) trySpawnBonus(now time.Time) {
	if !s.lastBonus.IsZero() && now.Sub(s.lastBonus) < bonusSpawnInterval {
		return
	}
	if s.rng.Float64() >= s.difficulty.BonusChance {
		return
	}
	b := s.levels.SpawnBonus(s.walls)
	if b == nil {
		s.events.Add(s.tick, CatLevel, "bonus_omitted", "no free spot", 0)
		return
	}
	s.bonuses = append(s.bonuses, b)
	s.lastBonus = now
	s.events.Add(s.tick, CatBonus, "spawned", fmt.Sprintf("%s at (%.0f,%.0f)", b.kind, b.x, b.y), 0)
	s.logger.Debug("bonus spawned", "kind", b.kind, "x", b.x, "y", b.y)
}

// updateBonuses applies pickups by the player and expires old bonuses.
func (s *Session) updateBonuses() {
	kept := s.bonuses[:0]
	for _, b := range s.bonuses {
		if s.player != nil && s.player.Alive() && s.player.Bounds().Intersects(b.Bounds()) {
			s.applyBonus(b)
			b.life = 0
			continue
		}
		if !b.update() {
			s.events.Add(s.tick, CatBonus, "expired", b.kind.String(), 0)
			continue
		}
		kept = append(kept, b)
	}
	clear(s.bonuses[len(kept):])
	s.bonuses = kept
}

// applyBonus applies a pickup's effect once.
func (s *Session) applyBonus(b *Bonus) {
	switch b.kind {
	case BonusExtraLife:
		s.lives++
	case BonusSpeed:
		p := s.player
		p.speed += speedBoostAmount
		s.sched.After("speed-boost", speedBoostDuration, func() {
			if p.speed > p.baseSpeed {
				p.speed -= speedBoostAmount
			}
		})
	case BonusPower:
	}
	s.notices.Add(b.kind.Notice(), b.kind.color())
	s.play(SoundBonus)
	s.events.Add(s.tick, CatBonus, "collected", b.kind.String(), float64(s.lives))
	s.logger.Debug("bonus collected", "kind", b.kind)
}

func (s *Session) updateEffects() {
	kept := s.explosions[:0]
	for _, e := range s.explosions {
		if e.update() {
			kept = append(kept, e)
		}
	}
	clear(s.explosions[len(kept):])
	s.explosions = kept
	s.notices.update()
}

// addBullet appends b, dropping the oldest bullet beyond the cap.
func (s *Session) addBullet(b *Bullet) {
	s.bullets = append(s.bullets, b)
	if over := len(s.bullets) - maxBullets; over > 0 {
		s.bullets = append(s.bullets[:0], s.bullets[over:]...)
	}
}

// spawnExplosion adds a cosmetic explosion and plays its sound. With
// explosions turned off nothing is spawned and nothing is heard.
func (s *Session) spawnExplosion(x, y, size float64) {
	if !s.gfx.Explosions {
		return
	}
	s.explosions = append(s.explosions, NewExplosion(x, y, size, s.gfx, s.fxRng))
	if over := len(s.explosions) - maxExplosions; over > 0 {
		s.explosions = append(s.explosions[:0], s.explosions[over:]...)
	}
	s.play(SoundExplosion)
}

// ScreenShake returns the camera offset for this frame: the sum of every
// explosion's jitter, clamped per axis.
func (s *Session) ScreenShake() (float64, float64) {
	if !s.gfx.ScreenShake {
		return 0, 0
	}
	var dx, dy float64
	for _, e := range s.explosions {
		if e.shake <= 0.1 {
			continue
		}
		x, y := e.shakeOffset(s.fxRng)
		dx += x
		dy += y
	}
	return clamp(dx, -maxScreenShake, maxScreenShake), clamp(dy, -maxScreenShake, maxScreenShake)
}

// backgroundGrid is the spacing of the arena floor lines.
const backgroundGrid = 40.0

// Draw paints the arena and every visible entity. Overlays for menus and
// modal screens belong to the frontend.
func (s *Session) Draw(r Renderer) {
	r.FillRect(Rect{W: s.arena.Width, H: s.arena.Height}, colBlack)
	for x := 0.0; x <= s.arena.Width; x += backgroundGrid {
		r.StrokeLine(x, 0, x, s.arena.Height, 1, colGridLine)
	}
	for y := 0.0; y <= s.arena.Height; y += backgroundGrid {
		r.StrokeLine(0, y, s.arena.Width, y, 1, colGridLine)
	}

	for _, w := range s.walls {
		if !w.removed && s.arena.Visible(w.Bounds()) {
			w.Draw(r)
		}
	}
	for _, b := range s.bonuses {
		if s.arena.Visible(b.Bounds()) {
			b.Draw(r)
		}
	}
	if s.player != nil && s.player.Alive() && s.arena.Visible(s.player.Bounds()) {
		s.player.Draw(r)
	}
	for _, e := range s.enemies {
		if e.Alive() && s.arena.Visible(e.Bounds()) {
			e.Draw(r)
		}
	}
	for _, b := range s.bullets {
		if s.arena.Visible(b.Bounds()) {
			b.Draw(r)
		}
	}
	for _, e := range s.explosions {
		if s.arena.Visible(e.Bounds()) {
			e.Draw(r, s.arena)
		}
	}
	s.notices.Draw(r, s.arena)
}
