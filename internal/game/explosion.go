package game

import (
	"image/color"
	"math"
)

// ExplosionStage is the phase of the fireball animation.
type ExplosionStage int

const (
	StageGrowing ExplosionStage = iota
	StageSustain
	StageDecay
)

func (s ExplosionStage) String() string {
	switch s {
	case StageGrowing:
		return "growing"
	case StageSustain:
		return "sustain"
	case StageDecay:
		return "decay"
	default:
		return "unknown"
	}
}

type particleKind int

const (
	particleDebris particleKind = iota
	particleFire
)

type particle struct {
	x, y    float64
	vx, vy  float64
	life    float64
	maxLife float64
	size    float64
	color   color.RGBA
	kind    particleKind
}

// Explosion is a purely cosmetic fireball with debris. It never affects
// collisions or scoring.
type Explosion struct {
	x, y      float64
	size      float64 // intensity multiplier
	stage     ExplosionStage
	life      float64
	radius    float64
	maxRadius float64
	particles []particle
	flash     float64 // full-screen light flash strength
	shake     float64 // screen shake magnitude
}

var debrisColors = []color.RGBA{
	{R: 255, G: 165, A: 255},
	{R: 255, G: 69, A: 255},
	{R: 255, G: 255, A: 255},
	{R: 255, G: 99, B: 71, A: 255},
}

var fireColors = []color.RGBA{
	{R: 255, A: 255},
	{R: 255, G: 140, A: 255},
	{R: 220, G: 20, B: 60, A: 255},
	{R: 178, G: 34, B: 34, A: 255},
}

// NewExplosion spawns an explosion centred on (x,y). The particle budget comes
// from the graphics settings; large blasts add fire, a flash and screen shake.
func NewExplosion(x, y, size float64, gfx GraphicsSettings, rng RNG) *Explosion {
	e := &Explosion{
		x:         x,
		y:         y,
		size:      size,
		life:      1.0,
		radius:    10 * size,
		maxRadius: 40 * size,
	}
	limit := float64(gfx.ParticleDensity.ParticleLimit())

	debris := int(math.Min(15*size, limit))
	for i := 0; i < debris; i++ {
		angle := rng.Float64() * math.Pi * 2
		speed := 2 + rng.Float64()*4
		life := 0.8 + rng.Float64()*0.4
		e.particles = append(e.particles, particle{
			x: x, y: y,
			vx:      math.Cos(angle) * speed,
			vy:      math.Sin(angle) * speed,
			life:    life,
			maxLife: life,
			size:    1 + rng.Float64()*3,
			color:   debrisColors[rng.Intn(len(debrisColors))],
			kind:    particleDebris,
		})
	}

	if size > 1 {
		e.flash = 1.0
		if gfx.ScreenShake {
			e.shake = 5 * size
		}
		fire := int(math.Min(10*size, limit/2))
		for i := 0; i < fire; i++ {
			life := 1.2 + rng.Float64()*0.8
			e.particles = append(e.particles, particle{
				x: x, y: y,
				vx:      (rng.Float64() - 0.5) * 8,
				vy:      (rng.Float64() - 0.5) * 8,
				life:    life,
				maxLife: life,
				size:    2 + rng.Float64()*4,
				color:   fireColors[rng.Intn(len(fireColors))],
				kind:    particleFire,
			})
		}
	}
	return e
}

// Stage returns the current animation phase.
func (e *Explosion) Stage() ExplosionStage { return e.stage }

// ParticleCount returns the number of live particles.
func (e *Explosion) ParticleCount() int { return len(e.particles) }

// Bounds covers the fireball at its current radius.
func (e *Explosion) Bounds() Rect {
	r := math.Max(e.radius, 1)
	return Rect{X: e.x - r, Y: e.y - r, W: 2 * r, H: 2 * r}
}

// update advances the animation and reports whether anything is still visible.
func (e *Explosion) update() bool {
	switch e.stage {
	case StageGrowing:
		e.radius += 3
		if e.radius >= e.maxRadius {
			e.stage = StageSustain
		}
	case StageSustain:
		e.life -= 0.02
		if e.life <= 0.7 {
			e.stage = StageDecay
		}
	case StageDecay:
		e.life -= 0.03
	}

	kept := e.particles[:0]
	for _, p := range e.particles {
		p.x += p.vx
		p.y += p.vy
		p.vy += 0.1
		p.life -= 0.02
		p.vx *= 0.97
		p.vy *= 0.97
		p.size *= 0.98
		if p.life <= 0 || p.size < 0.1 {
			continue
		}
		kept = append(kept, p)
	}
	e.particles = kept

	e.flash *= 0.9
	e.shake *= 0.8

	return e.life > 0 || len(e.particles) > 0 || e.shake > 0.1
}

// shakeOffset returns a random jitter within the current shake magnitude.
func (e *Explosion) shakeOffset(rng RNG) (float64, float64) {
	return (rng.Float64() - 0.5) * e.shake, (rng.Float64() - 0.5) * e.shake
}

// Draw renders the fireball as concentric rings, then the particles, then the flash.
func (e *Explosion) Draw(r Renderer, arena Arena) {
	if e.life > 0 {
		alpha := e.life
		r.FillCircle(e.x, e.y, e.radius, withAlpha(color.RGBA{R: 255, A: 255}, alpha*0.3))
		r.FillCircle(e.x, e.y, e.radius*0.6, withAlpha(color.RGBA{R: 255, G: 69, A: 255}, alpha*0.4))
		r.FillCircle(e.x, e.y, e.radius*0.3, withAlpha(color.RGBA{R: 255, G: 165, A: 255}, alpha*0.6))
		r.FillCircle(e.x, e.y, e.radius*0.1, withAlpha(color.RGBA{R: 255, G: 255, A: 255}, alpha*0.8))
	}
	for _, p := range e.particles {
		a := p.life / p.maxLife
		if p.kind == particleFire {
			r.FillCircle(p.x, p.y, p.size, withAlpha(color.RGBA{R: 255, G: 69, A: 255}, a*0.7))
			r.FillCircle(p.x, p.y, p.size*0.5, withAlpha(colYellow, a))
			continue
		}
		r.FillCircle(p.x, p.y, p.size, withAlpha(p.color, a))
	}
	if e.flash > 0.01 && e.size > 1 {
		r.FillRect(Rect{W: arena.Width, H: arena.Height}, withAlpha(color.RGBA{R: 255, G: 255, B: 200, A: 255}, e.flash*0.3))
	}
}
