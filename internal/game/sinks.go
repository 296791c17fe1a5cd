package game

import (
	"image/color"
	"time"
)

// Renderer is the drawing surface entities paint onto. Coordinates are arena
// pixels; frontends scale them to their own output.
type Renderer interface {
	FillRect(r Rect, clr color.RGBA)
	StrokeRect(r Rect, width float64, clr color.RGBA)
	StrokeLine(x0, y0, x1, y1, width float64, clr color.RGBA)
	FillCircle(cx, cy, radius float64, clr color.RGBA)
	Text(s string, x, y float64, clr color.RGBA)
}

// SoundEvent names a sound the core asks the audio sink to play.
type SoundEvent string

const (
	SoundShoot     SoundEvent = "shoot"
	SoundExplosion SoundEvent = "explosion"
	SoundBonus     SoundEvent = "bonus"
	SoundHit       SoundEvent = "hit"
	SoundMove      SoundEvent = "move"
)

// AudioSink plays named sound events. Errors are reported back but the
// session only logs them.
type AudioSink interface {
	Play(ev SoundEvent) error
	// ToggleMute flips the mute flag and reports whether sound is now enabled.
	ToggleMute() bool
}

// HUD is the per-tick status snapshot shown alongside the arena.
type HUD struct {
	Score      int
	Lives      int
	Level      int
	Enemies    int
	Difficulty string
	State      State
}

// LevelSummary is published when a level is cleared.
type LevelSummary struct {
	Level int
	Bonus int
	Score int
}

// GameOverSummary is published when the last life is lost.
type GameOverSummary struct {
	FinalScore int
	Level      int
}

// HUDSink receives status updates from the session.
type HUDSink interface {
	UpdateHUD(h HUD)
	LevelComplete(s LevelSummary)
	GameOver(s GameOverSummary)
}

// NopAudio discards every sound. Used when no audio device is available.
type NopAudio struct {
	muted bool
}

func (n *NopAudio) Play(SoundEvent) error { return nil }

func (n *NopAudio) ToggleMute() bool {
	n.muted = !n.muted
	return !n.muted
}

// NopHUD ignores all HUD traffic.
type NopHUD struct{}

func (NopHUD) UpdateHUD(HUD)              {}
func (NopHUD) LevelComplete(LevelSummary) {}
func (NopHUD) GameOver(GameOverSummary)   {}

// Clock supplies wall-clock time for the throttles and timers that are not
// tick based.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a controllable clock for tests and the headless runner.
type ManualClock struct {
	now time.Time
}

// NewManualClock starts a manual clock at t.
func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{now: t}
}

func (m *ManualClock) Now() time.Time { return m.now }

// Advance moves the clock forward by d.
func (m *ManualClock) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}

// withAlpha scales the alpha channel of c by a in [0,1]. Channels are
// premultiplied, so the colour channels scale too.
func withAlpha(c color.RGBA, a float64) color.RGBA {
	a = clamp(a, 0, 1)
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

// Palette.
var (
	colBlack     = color.RGBA{A: 255}
	colWhite     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colGreen     = color.RGBA{G: 255, A: 255}
	colRed       = color.RGBA{R: 255, A: 255}
	colBlue      = color.RGBA{B: 255, A: 255}
	colGray      = color.RGBA{R: 136, G: 136, B: 136, A: 255}
	colWallLine  = color.RGBA{R: 102, G: 102, B: 102, A: 255}
	colBrown     = color.RGBA{R: 139, G: 69, B: 19, A: 255}
	colDarkBrown = color.RGBA{R: 100, G: 50, A: 255}
	colDarkGreen = color.RGBA{G: 100, A: 255}
	colDarkRed   = color.RGBA{R: 102, A: 255}
	colCannonRed = color.RGBA{R: 153, A: 255}
	colYellow    = color.RGBA{R: 255, G: 255, A: 255}
	colOrange    = color.RGBA{R: 255, G: 165, A: 255}
	colPurple    = color.RGBA{R: 128, B: 128, A: 255}
	colGridLine  = color.RGBA{R: 17, G: 17, B: 17, A: 255}
)
