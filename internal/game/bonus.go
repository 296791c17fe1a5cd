package game

import "image/color"

// BonusKind is the effect a pickup applies.
type BonusKind int

const (
	BonusExtraLife BonusKind = iota
	BonusSpeed
	BonusPower
	bonusKindCount
)

func (k BonusKind) String() string {
	switch k {
	case BonusExtraLife:
		return "extra-life"
	case BonusSpeed:
		return "speed-boost"
	case BonusPower:
		return "power-boost"
	default:
		return "unknown"
	}
}

// Notice returns the on-screen message shown on pickup.
func (k BonusKind) Notice() string {
	switch k {
	case BonusExtraLife:
		return "+1 LIFE"
	case BonusSpeed:
		return "SPEED UP"
	case BonusPower:
		return "POWER UP"
	default:
		return ""
	}
}

func (k BonusKind) color() color.RGBA {
	switch k {
	case BonusExtraLife:
		return colRed
	case BonusSpeed:
		return colBlue
	case BonusPower:
		return colPurple
	default:
		return colYellow
	}
}

func (k BonusKind) symbol() string {
	switch k {
	case BonusExtraLife:
		return "+"
	case BonusSpeed:
		return "S"
	case BonusPower:
		return "*"
	default:
		return "?"
	}
}

// Bonus is a timed pickup lying in the arena.
type Bonus struct {
	x, y float64
	kind BonusKind
	life int // ticks until expiry
}

// NewBonus creates a pickup with a full lifetime.
func NewBonus(x, y float64, kind BonusKind) *Bonus {
	return &Bonus{x: x, y: y, kind: kind, life: bonusLifeTicks}
}

// randomBonusKind draws a kind uniformly.
func randomBonusKind(rng RNG) BonusKind {
	return BonusKind(rng.Intn(int(bonusKindCount)))
}

// Bounds returns the 20x20 hitbox.
func (b *Bonus) Bounds() Rect {
	return Rect{X: b.x, Y: b.y, W: bonusSize, H: bonusSize}
}

// Kind returns the pickup effect.
func (b *Bonus) Kind() BonusKind { return b.kind }

// Life returns the ticks until expiry.
func (b *Bonus) Life() int { return b.life }

// update counts the lifetime down and reports whether the bonus is still live.
func (b *Bonus) update() bool {
	b.life--
	return b.life > 0
}

// Shown is false during the off phase of the near-expiry blink.
func (b *Bonus) Shown() bool {
	if b.life < bonusBlinkTicks && (b.life/10)%2 == 0 {
		return false
	}
	return true
}

// Draw renders the pickup box and its symbol.
func (b *Bonus) Draw(r Renderer) {
	if !b.Shown() {
		return
	}
	box := b.Bounds()
	r.FillRect(box, b.kind.color())
	r.StrokeRect(box, 2, colWhite)
	r.Text(b.kind.symbol(), b.x+bonusSize/2-3, b.y+bonusSize/2+4, colWhite)
}
