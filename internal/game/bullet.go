package game

// Bullet travels in a straight line at constant speed until it leaves the
// arena or hits something.
type Bullet struct {
	x, y     float64
	dir      Direction
	fromUser bool // fired by the player
	speed    float64
	active   bool
}

// NewBullet creates a bullet at (x,y) heading dir.
func NewBullet(x, y float64, dir Direction, playerOwned bool) *Bullet {
	return &Bullet{
		x:        x,
		y:        y,
		dir:      dir,
		fromUser: playerOwned,
		speed:    bulletSpeed,
		active:   true,
	}
}

// Bounds returns the 6x6 hitbox.
func (b *Bullet) Bounds() Rect {
	return Rect{X: b.x, Y: b.y, W: bulletSize, H: bulletSize}
}

// Position returns the top-left corner.
func (b *Bullet) Position() (float64, float64) { return b.x, b.y }

// Direction returns the travel heading.
func (b *Bullet) Direction() Direction { return b.dir }

// PlayerOwned reports whether the player fired this bullet.
func (b *Bullet) PlayerOwned() bool { return b.fromUser }

// Active is false once the bullet has been consumed.
func (b *Bullet) Active() bool { return b.active }

// update moves the bullet one step and deactivates it when it leaves the
// arena. It returns whether the bullet is still in flight.
func (b *Bullet) update(arena Arena) bool {
	dx, dy := b.dir.Delta()
	b.x += dx * b.speed
	b.y += dy * b.speed
	if !arena.Contains(b.x, b.y) {
		b.active = false
	}
	return b.active
}

// Draw renders a filled dot with a bright core.
func (b *Bullet) Draw(r Renderer) {
	outer, core := colRed, colOrange
	if b.fromUser {
		outer, core = colWhite, colYellow
	}
	cx, cy := b.Bounds().Center()
	r.FillCircle(cx, cy, bulletSize/2, outer)
	r.FillCircle(cx, cy, bulletSize/4, core)
}
