package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// State is the session's modal state.
type State int

const (
	StateMainMenu State = iota
	StatePlaying
	StatePaused
	StateLevelComplete
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateMainMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateLevelComplete:
		return "level-complete"
	case StateGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Session owns every piece of mutable game state: entities, score, lives,
// level and the modal state machine. All methods must be called from the
// goroutine that drives Frame.
type Session struct {
	arena      Arena
	difficulty Difficulty
	gfx        GraphicsSettings
	touch      bool

	logger *log.Logger
	rng    RNG
	fxRng  *rand.Rand // cosmetic randomness, kept apart from gameplay draws
	clock  Clock
	audio  AudioSink
	hud    HUDSink

	sched     *Scheduler
	throttle  *FrameThrottle
	moveSound *Throttle
	levels    *LevelGenerator
	grid      *SpatialGrid
	events    *EventLog
	notices   NoticeLog

	state      State
	tick       int
	score      int
	lives      int
	level      int
	enemyQuota int

	player     *Tank
	enemies    []*Tank
	walls      []*Wall
	bullets    []*Bullet
	bonuses    []*Bonus
	explosions []*Explosion

	intent    Intent
	lastBonus time.Time
	autoFire  TaskID
	soundOn   bool

	lastLevel    LevelSummary
	lastGameOver GameOverSummary
}

// NewSession builds an idle session in the main menu.
func NewSession(cfg Config) *Session {
	cfg = cfg.withDefaults()
	s := &Session{
		arena:      cfg.Arena,
		difficulty: cfg.Difficulty,
		gfx:        cfg.Graphics,
		touch:      cfg.TouchMode,
		logger:     cfg.Logger,
		rng:        cfg.RNG,
		fxRng:      rand.New(rand.NewSource(cfg.Seed + 1)), // #nosec G404 -- cosmetic only
		clock:      cfg.Clock,
		audio:      cfg.Audio,
		hud:        cfg.HUD,
		sched:      NewScheduler(cfg.Clock),
		throttle:   NewFrameThrottle(cfg.frameTarget()),
		moveSound:  NewThrottle(moveSoundInterval),
		grid:       NewSpatialGrid(spatialCellSize),
		events:     NewEventLog(0),
		state:      StateMainMenu,
		soundOn:    true,
	}
	s.levels = NewLevelGenerator(s.arena, s.rng, s.logger.WithPrefix("level"))
	return s
}

// --- Accessors ---

func (s *Session) State() State                  { return s.state }
func (s *Session) Ticks() int                    { return s.tick }
func (s *Session) Score() int                    { return s.score }
func (s *Session) Lives() int                    { return s.lives }
func (s *Session) Level() int                    { return s.level }
func (s *Session) EnemyQuota() int               { return s.enemyQuota }
func (s *Session) Difficulty() Difficulty        { return s.difficulty }
func (s *Session) Graphics() GraphicsSettings    { return s.gfx }
func (s *Session) Arena() Arena                  { return s.arena }
func (s *Session) Player() *Tank                 { return s.player }
func (s *Session) Enemies() []*Tank              { return s.enemies }
func (s *Session) Walls() []*Wall                { return s.walls }
func (s *Session) Bullets() []*Bullet            { return s.bullets }
func (s *Session) Bonuses() []*Bonus             { return s.bonuses }
func (s *Session) Explosions() []*Explosion      { return s.explosions }
func (s *Session) Events() *EventLog             { return s.events }
func (s *Session) Notices() []Notice             { return s.notices.Recent() }
func (s *Session) Scheduler() *Scheduler         { return s.sched }
func (s *Session) SoundOn() bool                 { return s.soundOn }
func (s *Session) TouchMode() bool               { return s.touch }
func (s *Session) LastLevel() LevelSummary       { return s.lastLevel }
func (s *Session) LastGameOver() GameOverSummary { return s.lastGameOver }
func (s *Session) Intent() Intent                { return s.intent }
func (s *Session) FrameInterval() time.Duration  { return s.throttle.Interval() }
func (s *Session) AutoFiring() bool              { return s.autoFire != 0 && s.sched.Has(s.autoFire) }

// HUD returns the current status snapshot.
func (s *Session) HUD() HUD {
	return HUD{
		Score:      s.score,
		Lives:      s.lives,
		Level:      s.level,
		Enemies:    len(s.enemies),
		Difficulty: s.difficulty.Name,
		State:      s.state,
	}
}

// Summary returns a one-line description of the current end-of-level or
// end-of-game screen, or "" when neither is showing.
func (s *Session) Summary() string {
	switch s.state {
	case StateLevelComplete:
		return fmt.Sprintf("Tank Arena [%s] level %d cleared, bonus %d, score %d",
			s.difficulty.Name, s.lastLevel.Level, s.lastLevel.Bonus, s.lastLevel.Score)
	case StateGameOver:
		return fmt.Sprintf("Tank Arena [%s] game over on level %d, final score %d",
			s.difficulty.Name, s.lastGameOver.Level, s.lastGameOver.FinalScore)
	default:
		return ""
	}
}

// --- State machine ---

// SelectDifficulty changes the tier used by the next StartGame. The tier is
// fixed for the whole of a running game, so it is refused mid-game.
func (s *Session) SelectDifficulty(key string) error {
	if s.state != StateMainMenu && s.state != StateGameOver {
		return fmt.Errorf("select difficulty while %s: %w", s.state, ErrInvalidTransition)
	}
	d, err := LookupDifficulty(key)
	if err != nil {
		return fmt.Errorf("select difficulty: %w", err)
	}
	s.difficulty = d
	s.logger.Debug("difficulty selected", "difficulty", d.Key)
	return nil
}

// StartGame begins a new game at level 1 with a fresh player tank. It is
// valid from any state and discards whatever was running.
func (s *Session) StartGame(d Difficulty) {
	s.sched.CancelAll()
	s.autoFire = 0
	s.difficulty = d
	s.score = 0
	s.lives = d.PlayerLives
	s.level = 1
	s.enemyQuota = d.EnemiesForLevel(1)
	s.lastBonus = time.Time{}
	s.lastLevel = LevelSummary{}
	s.lastGameOver = GameOverSummary{}
	s.intent = Intent{}
	s.moveSound.Reset()

	px, py := s.levels.PlayerStart()
	s.player = NewPlayerTank(px, py, d.PlayerSpeed)
	s.buildLevel()

	s.setState(StatePlaying)
	s.logger.Info("game started", "difficulty", d.Key, "lives", s.lives, "enemies", len(s.enemies))
	s.publishHUD()
}

// Restart starts a new game with the current difficulty.
func (s *Session) Restart() {
	s.StartGame(s.difficulty)
}

// buildLevel regenerates walls and enemies and clears transient entities.
func (s *Session) buildLevel() {
	s.walls = s.levels.CreateLevel()
	if n := s.levels.Omitted; n > 0 {
		s.events.Add(s.tick, CatLevel, "tiles_omitted", fmt.Sprintf("%d destructible tiles dropped", n), float64(n))
	}
	s.enemies = s.levels.SpawnEnemies(s.enemyQuota, s.walls, s.difficulty.EnemySpeed)
	if n := s.levels.Omitted; n > 0 {
		s.events.Add(s.tick, CatLevel, "enemies_omitted", fmt.Sprintf("%d of %d enemies dropped", n, s.enemyQuota), float64(n))
	}
	s.bullets = s.bullets[:0]
	s.bonuses = s.bonuses[:0]
	s.explosions = s.explosions[:0]
	s.notices.Clear()
	s.events.Add(s.tick, CatLevel, "generated",
		fmt.Sprintf("level %d: %d walls, %d enemies", s.level, len(s.walls), len(s.enemies)), float64(s.level))
}

// NextLevel advances from the level-complete screen: one more life, a larger
// enemy quota and a fresh layout. The player keeps its tank.
func (s *Session) NextLevel() error {
	if s.state != StateLevelComplete {
		return fmt.Errorf("next level while %s: %w", s.state, ErrInvalidTransition)
	}
	s.level++
	s.enemyQuota = s.difficulty.EnemiesForLevel(s.level)
	s.lives++
	s.buildLevel()
	if s.player != nil {
		px, py := s.levels.PlayerStart()
		s.player.respawn(px, py)
	}
	s.setState(StatePlaying)
	s.logger.Info("next level", "level", s.level, "enemies", len(s.enemies), "lives", s.lives)
	s.publishHUD()
	return nil
}

// TogglePause flips between playing and paused. It is refused on every other
// screen. Scheduled tasks are frozen while paused.
func (s *Session) TogglePause() error {
	switch s.state {
	case StatePlaying:
		s.EndAutoFire()
		s.sched.Suspend(s.clock.Now())
		s.setState(StatePaused)
		s.logger.Info("paused", "tick", s.tick)
	case StatePaused:
		// Wall-clock timers and the bonus interval skip the time spent paused.
		if d := s.sched.Resume(s.clock.Now()); !s.lastBonus.IsZero() {
			s.lastBonus = s.lastBonus.Add(d)
		}
		s.setState(StatePlaying)
		s.logger.Info("resumed", "tick", s.tick)
	default:
		return fmt.Errorf("toggle pause while %s: %w", s.state, ErrInvalidTransition)
	}
	s.publishHUD()
	return nil
}

// ReturnToMenu abandons the running game and stops every timer.
func (s *Session) ReturnToMenu() {
	s.sched.CancelAll()
	s.autoFire = 0
	s.intent = Intent{}
	s.player = nil
	s.enemies = nil
	s.walls = nil
	s.bullets = nil
	s.bonuses = nil
	s.explosions = nil
	s.notices.Clear()
	s.setState(StateMainMenu)
	s.logger.Info("returned to menu")
	s.publishHUD()
}

// completeLevel is entered once when the last enemy of a level falls.
func (s *Session) completeLevel() {
	s.EndAutoFire()
	s.score += levelClearBonus
	s.lastLevel = LevelSummary{Level: s.level, Bonus: levelClearBonus, Score: s.score}
	s.setState(StateLevelComplete)
	s.logger.Info("level complete", "level", s.level, "score", s.score)
	s.hud.LevelComplete(s.lastLevel)
}

// gameOver is entered when the last life is lost.
func (s *Session) gameOver() {
	s.sched.CancelAll()
	s.autoFire = 0
	s.intent = Intent{}
	s.lastGameOver = GameOverSummary{FinalScore: s.score, Level: s.level}
	s.setState(StateGameOver)
	s.logger.Info("game over", "level", s.level, "score", s.score)
	s.hud.GameOver(s.lastGameOver)
}

func (s *Session) setState(next State) {
	if next == s.state {
		return
	}
	s.events.Add(s.tick, CatState, "change", fmt.Sprintf("%s -> %s", s.state, next), 0)
	s.state = next
}

func (s *Session) publishHUD() {
	s.hud.UpdateHUD(s.HUD())
}

// --- Input ---

// SetIntent replaces the held directional flags. Frontends call it whenever
// their input state changes; the next tick applies it.
func (s *Session) SetIntent(in Intent) {
	s.intent = in
}

// RequestShoot fires the player's cannon along its current aim. Requests
// outside play, or while the cannon cools down, do nothing.
func (s *Session) RequestShoot() {
	if s.state != StatePlaying || s.player == nil || !s.player.Alive() {
		return
	}
	b := s.player.Shoot()
	if b == nil {
		return
	}
	s.addBullet(b)
	s.play(SoundShoot)
}

// AimAndShoot turns the cannon to d and fires. Keyboard aim keys call it on
// each press edge.
func (s *Session) AimAndShoot(d Direction) {
	if s.state != StatePlaying || s.player == nil {
		return
	}
	s.player.aim = d
	s.RequestShoot()
}

// BeginAutoFire starts a repeating fire task for a held fire control. It
// shoots once immediately. Calling it again while active does nothing.
func (s *Session) BeginAutoFire() {
	if s.state != StatePlaying || s.AutoFiring() {
		return
	}
	s.RequestShoot()
	s.autoFire = s.sched.Every("auto-fire", autoFireInterval, s.RequestShoot)
}

// EndAutoFire cancels the repeating fire task, if any.
func (s *Session) EndAutoFire() {
	if s.autoFire == 0 {
		return
	}
	s.sched.Cancel(s.autoFire)
	s.autoFire = 0
}

// ToggleMute flips the audio sink's mute flag.
func (s *Session) ToggleMute() bool {
	s.soundOn = s.audio.ToggleMute()
	s.logger.Debug("sound toggled", "on", s.soundOn)
	return s.soundOn
}

// play forwards a sound event. Sink failures are logged and never reach the
// simulation.
func (s *Session) play(ev SoundEvent) {
	if err := s.audio.Play(ev); err != nil {
		s.logger.Warn("audio sink failed", "event", ev, "err", err)
		s.events.Add(s.tick, CatAudio, "error", fmt.Sprintf("%s: %v", ev, err), 0)
	}
}

// --- Frame loop ---

// Frame is called by the frontend once per display frame. It runs due
// timers, then at most one tick if the frame throttle allows it, and reports
// whether a tick ran.
func (s *Session) Frame(now time.Time) bool {
	s.sched.Advance(now)
	if !s.throttle.Ready(now) {
		return false
	}
	s.Tick()
	return true
}
