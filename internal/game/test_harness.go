package game

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// TestSession is a headless session harness used by tests and the headless
// report. It drives the simulation with a manual clock and records sink
// traffic instead of playing or displaying it.
type TestSession struct {
	*Session
	Clock *ManualClock
	Audio *RecordingAudio
	HUDs  *RecordingHUD

	cfg          Config
	walls        []*Wall
	wallsSet     bool
	enemies      []*Tank
	enemiesSet   bool
	playerAt     *[2]float64
	tickDuration time.Duration
}

// harnessEpoch is the fixed start time of every manual clock.
var harnessEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// sessionOptionKind controls the pass in which an option is applied.
type sessionOptionKind int

const (
	sessOptConfig sessionOptionKind = iota // seed, difficulty, clock, graphics: before the session exists
	sessOptLayout                          // walls: after StartGame generated the level
	sessOptEntity                          // tanks: after the layout is final
)

// SessionOption is a builder function applied to a TestSession during construction.
type SessionOption struct {
	kind sessionOptionKind
	fn   func(*TestSession)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SessionOption {
	return SessionOption{sessOptConfig, func(ts *TestSession) {
		ts.cfg.Seed = seed
		ts.cfg.RNG = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithRNG replaces the gameplay random source, e.g. with a scripted one.
func WithRNG(rng RNG) SessionOption {
	return SessionOption{sessOptConfig, func(ts *TestSession) {
		ts.cfg.RNG = rng
	}}
}

// WithDifficulty selects the tier by key. Unknown keys keep normal.
func WithDifficulty(key string) SessionOption {
	return SessionOption{sessOptConfig, func(ts *TestSession) {
		if d, err := LookupDifficulty(key); err == nil {
			ts.cfg.Difficulty = d
		}
	}}
}

// WithGraphics overrides the graphics settings.
func WithGraphics(g GraphicsSettings) SessionOption {
	return SessionOption{sessOptConfig, func(ts *TestSession) {
		ts.cfg.Graphics = g
	}}
}

// WithClock starts the manual clock at t.
func WithClock(t time.Time) SessionOption {
	return SessionOption{sessOptConfig, func(ts *TestSession) {
		ts.Clock = NewManualClock(t)
	}}
}

// WithTickDuration sets how far the clock moves per simulated tick.
func WithTickDuration(d time.Duration) SessionOption {
	return SessionOption{sessOptConfig, func(ts *TestSession) {
		ts.tickDuration = d
	}}
}

// WithTouchMode enables the touch control profile.
func WithTouchMode() SessionOption {
	return SessionOption{sessOptConfig, func(ts *TestSession) {
		ts.cfg.TouchMode = true
	}}
}

// WithWalls replaces the generated layout with exactly these walls.
// WithWalls() with no arguments leaves an empty arena.
func WithWalls(walls ...*Wall) SessionOption {
	return SessionOption{sessOptLayout, func(ts *TestSession) {
		ts.walls = append(ts.walls, walls...)
		ts.wallsSet = true
	}}
}

// WithEnemyAt replaces the generated enemies; every WithEnemyAt adds one.
func WithEnemyAt(x, y float64) SessionOption {
	return SessionOption{sessOptEntity, func(ts *TestSession) {
		ts.enemies = append(ts.enemies, NewEnemyTank(x, y, ts.cfg.Difficulty.EnemySpeed))
		ts.enemiesSet = true
	}}
}

// WithoutEnemies leaves the roster empty.
func WithoutEnemies() SessionOption {
	return SessionOption{sessOptEntity, func(ts *TestSession) {
		ts.enemiesSet = true
	}}
}

// WithPlayerAt moves the player tank to (x,y) with no immunity.
func WithPlayerAt(x, y float64) SessionOption {
	return SessionOption{sessOptEntity, func(ts *TestSession) {
		ts.playerAt = &[2]float64{x, y}
	}}
}

// NewTestSession builds a started game from the given options in ordered
// passes: config, session + StartGame, layout, entities.
func NewTestSession(opts ...SessionOption) *TestSession {
	ts := &TestSession{
		Audio:        &RecordingAudio{},
		HUDs:         &RecordingHUD{},
		tickDuration: time.Second / 60,
	}
	ts.cfg = DefaultConfig()
	ts.cfg.Seed = 1
	ts.cfg.RNG = rand.New(rand.NewSource(1)) // #nosec G404 -- test harness default
	for _, o := range opts {
		if o.kind == sessOptConfig {
			o.fn(ts)
		}
	}
	if ts.Clock == nil {
		ts.Clock = NewManualClock(harnessEpoch)
	}
	ts.cfg.Clock = ts.Clock
	ts.cfg.Audio = ts.Audio
	ts.cfg.HUD = ts.HUDs
	ts.cfg.Logger = log.New(io.Discard)

	ts.Session = NewSession(ts.cfg)
	ts.StartGame(ts.cfg.Difficulty)

	for _, o := range opts {
		if o.kind == sessOptLayout {
			o.fn(ts)
		}
	}
	if ts.wallsSet {
		ts.Session.walls = ts.walls
	}
	for _, o := range opts {
		if o.kind == sessOptEntity {
			o.fn(ts)
		}
	}
	if ts.enemiesSet {
		ts.Session.enemies = ts.enemies
	}
	if ts.playerAt != nil && ts.player != nil {
		ts.player.x, ts.player.y = ts.playerAt[0], ts.playerAt[1]
		ts.player.prevX, ts.player.prevY = ts.player.x, ts.player.y
	}
	return ts
}

// Step advances the clock by one tick duration, runs due timers and one
// simulation tick.
func (ts *TestSession) Step() {
	ts.Clock.Advance(ts.tickDuration)
	ts.sched.Advance(ts.Clock.Now())
	ts.Tick()
}

// RunTicks advances the simulation n ticks.
func (ts *TestSession) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.Step()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the number of ticks run when the predicate was
// satisfied, or -1.
func (ts *TestSession) RunUntil(predicate func(*TestSession) bool, maxTicks int) int {
	for i := 1; i <= maxTicks; i++ {
		ts.Step()
		if predicate(ts) {
			return i
		}
	}
	return -1
}

// AddBullet injects a bullet as if a tank had fired it.
func (ts *TestSession) AddBullet(b *Bullet) {
	ts.addBullet(b)
}

// AddBonus drops a bonus into the arena.
func (ts *TestSession) AddBonus(b *Bonus) {
	ts.bonuses = append(ts.bonuses, b)
}

// SetPlayerInvulnerable overrides the player's immunity counter.
func (ts *TestSession) SetPlayerInvulnerable(ticks int) {
	if ts.player != nil {
		ts.player.invulnerable = ticks
	}
}

// RecordingAudio is an AudioSink that remembers every event. Set Err to make
// every Play fail.
type RecordingAudio struct {
	Played []SoundEvent
	Err    error
	Muted  bool
}

func (r *RecordingAudio) Play(ev SoundEvent) error {
	if r.Err != nil {
		return r.Err
	}
	if !r.Muted {
		r.Played = append(r.Played, ev)
	}
	return nil
}

func (r *RecordingAudio) ToggleMute() bool {
	r.Muted = !r.Muted
	return !r.Muted
}

// Count returns how many times ev was played.
func (r *RecordingAudio) Count(ev SoundEvent) int {
	n := 0
	for _, p := range r.Played {
		if p == ev {
			n++
		}
	}
	return n
}

// RecordingHUD is a HUDSink that keeps the latest snapshot and every summary.
type RecordingHUD struct {
	Last      HUD
	Updates   int
	Levels    []LevelSummary
	GameOvers []GameOverSummary
}

func (r *RecordingHUD) UpdateHUD(h HUD) {
	r.Last = h
	r.Updates++
}

func (r *RecordingHUD) LevelComplete(s LevelSummary) {
	r.Levels = append(r.Levels, s)
}

func (r *RecordingHUD) GameOver(s GameOverSummary) {
	r.GameOvers = append(r.GameOvers, s)
}
