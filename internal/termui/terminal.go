// Package termui runs the game in a terminal with tcell. Arena pixels are
// scaled onto character cells; key presses latch briefly because terminals
// do not report key releases.
package termui

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Tank-Arena/internal/game"
)

// framePeriod is the pump interval; the session's own throttle decides
// whether a tick actually runs.
const framePeriod = 16 * time.Millisecond

var (
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSelect = tcell.StyleDefault.Foreground(tcell.ColorYellow).Reverse(true)
)

// Options configure a Terminal.
type Options struct {
	// Demo lets the autopilot play and advances every modal screen by itself.
	Demo bool
	// MoveLatch is how long a movement key press stays held.
	MoveLatch time.Duration
}

// Terminal drives a session from a tcell screen. It is also the session's
// HUD sink.
type Terminal struct {
	screen  tcell.Screen
	session *game.Session
	logger  *log.Logger
	opts    Options

	move  *Latch
	aim   *Latch
	pilot *game.Autopilot

	hud    game.HUD
	status string
}

// New builds the session from cfg with the terminal installed as its HUD
// sink. The screen must already be initialised.
func New(screen tcell.Screen, cfg game.Config, opts Options, logger *log.Logger) *Terminal {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MoveLatch <= 0 {
		opts.MoveLatch = DefaultMoveLatch
	}
	t := &Terminal{
		screen: screen,
		logger: logger.WithPrefix("termui"),
		opts:   opts,
		move:   NewLatch(opts.MoveLatch),
		aim:    NewLatch(aimLatch),
	}
	cfg.HUD = t
	t.session = game.NewSession(cfg)
	if opts.Demo {
		t.pilot = game.NewAutopilot(rand.New(rand.NewSource(cfg.Seed + 2))) // #nosec G404 -- game only
	}
	return t
}

// Session exposes the driven session.
func (t *Terminal) Session() *game.Session { return t.session }

func (t *Terminal) UpdateHUD(h game.HUD) { t.hud = h }

func (t *Terminal) LevelComplete(s game.LevelSummary) {
	t.logger.Info("level complete", "level", s.Level, "bonus", s.Bonus, "score", s.Score)
}

func (t *Terminal) GameOver(s game.GameOverSummary) {
	t.logger.Info("game over", "level", s.Level, "score", s.FinalScore)
}

// Run pumps events and frames until ctx is cancelled or the player quits.
func (t *Terminal) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	go t.screen.ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(framePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if t.HandleEvent(ev, time.Now()) {
				return nil
			}
		case now := <-ticker.C:
			t.Step(now)
			t.Draw()
			t.screen.Show()
		}
	}
}

// HandleEvent applies one terminal event and reports whether the player
// asked to quit.
func (t *Terminal) HandleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventKey:
		return t.handleKey(ev, now)
	}
	return false
}

func (t *Terminal) handleKey(ev *tcell.EventKey, now time.Time) bool {
	s := t.session
	act, dir, tier := keyAction(ev)
	switch act {
	case actQuit:
		return true
	case actMute:
		if s.ToggleMute() {
			t.status = "sound on"
		} else {
			t.status = "sound off"
		}
	case actCopy:
		t.copySummary()
	case actMove:
		t.move.Press(dir, now)
	case actAim:
		t.aim.Press(dir, now)
		s.AimAndShoot(dir)
	case actFire:
		s.RequestShoot()
	case actPause:
		t.refuse(s.TogglePause())
		t.move.Release()
	case actMenu:
		if s.State() != game.StateMainMenu {
			s.ReturnToMenu()
		}
	case actDifficulty:
		if tier < len(game.DifficultyOrder) {
			t.refuse(s.SelectDifficulty(game.DifficultyOrder[tier]))
		}
	case actRestart:
		if s.State() == game.StateGameOver {
			s.Restart()
		}
	case actConfirm:
		t.confirm()
	}
	return false
}

// confirm advances whichever modal screen is showing.
func (t *Terminal) confirm() {
	s := t.session
	switch s.State() {
	case game.StateMainMenu:
		s.StartGame(s.Difficulty())
	case game.StateLevelComplete:
		t.refuse(s.NextLevel())
	case game.StateGameOver:
		s.Restart()
	}
	t.move.Release()
	t.aim.Release()
}

// Step feeds the latched input (or the autopilot) into the session and lets
// it run one frame.
func (t *Terminal) Step(now time.Time) bool {
	s := t.session
	if t.pilot != nil {
		if s.State() != game.StatePlaying && s.State() != game.StatePaused {
			t.confirm()
		}
		if s.State() == game.StatePlaying {
			t.pilot.Drive(s)
		}
	} else if s.State() == game.StatePlaying {
		s.SetIntent(game.Intent{Move: t.move.Held(now), Aim: t.aim.Held(now)})
	}
	return s.Frame(now)
}

func (t *Terminal) refuse(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, game.ErrInvalidTransition) {
		t.logger.Debug("ignored", "err", err)
		return
	}
	t.logger.Warn("input rejected", "err", err)
}

func (t *Terminal) copySummary() {
	summary := t.session.Summary()
	if summary == "" {
		return
	}
	if err := clipboard.WriteAll(summary); err != nil {
		t.logger.Warn("clipboard copy failed", "err", err)
		t.status = "copy failed"
		return
	}
	t.status = "copied"
}

// Draw paints the status line, the arena and any modal text.
func (t *Terminal) Draw() {
	s := t.session
	r := newCellRenderer(t.screen, s.Arena())
	r.clear()
	if s.State() != game.StateMainMenu {
		s.Draw(r)
	}
	t.drawHUD()
	t.drawOverlay(r)
}

func (t *Terminal) drawHUD() {
	h := t.hud
	line := fmt.Sprintf(" SCORE %d  LIVES %d  LEVEL %d  ENEMIES %d  %s  [%s]",
		h.Score, h.Lives, h.Level, h.Enemies, h.Difficulty, t.session.State())
	if !t.session.SoundOn() {
		line += "  MUTED"
	}
	if t.opts.Demo {
		line += "  DEMO"
	}
	if t.status != "" {
		line += "  " + t.status
	}
	printLine(t.screen, 0, line, styleHUD)
}

func (t *Terminal) drawOverlay(r cellRenderer) {
	s := t.session
	mid := hudRows + r.rows/2

	switch s.State() {
	case game.StateMainMenu:
		printCentered(t.screen, mid-6, "TANK ARENA", styleTitle)
		printCentered(t.screen, mid-4, "select difficulty", styleText)
		current := s.Difficulty().Key
		for i, key := range game.DifficultyOrder {
			d := game.MustDifficulty(key)
			style := styleDim
			if key == current {
				style = styleSelect
			}
			line := fmt.Sprintf(" %d  %-6s  lives %d  enemies %d ", i+1, d.Name, d.PlayerLives, d.InitialEnemies)
			printCentered(t.screen, mid-2+i, line, style)
		}
		printCentered(t.screen, mid+3, "enter to start, q to quit", styleText)
		printCentered(t.screen, mid+4, "wasd move  arrows aim+fire  space fire  p pause  m mute", styleDim)
	case game.StatePaused:
		printCentered(t.screen, mid, " PAUSED ", styleTitle)
		printCentered(t.screen, mid+1, " p to resume, esc for menu ", styleDim)
	case game.StateLevelComplete:
		sum := s.LastLevel()
		printCentered(t.screen, mid-1, fmt.Sprintf(" LEVEL %d COMPLETE ", sum.Level), styleTitle)
		printCentered(t.screen, mid, fmt.Sprintf(" bonus +%d  score %d ", sum.Bonus, sum.Score), styleText)
		printCentered(t.screen, mid+1, " enter for next level, c to copy ", styleDim)
	case game.StateGameOver:
		sum := s.LastGameOver()
		printCentered(t.screen, mid-1, " GAME OVER ", styleTitle)
		printCentered(t.screen, mid, fmt.Sprintf(" final score %d on level %d ", sum.FinalScore, sum.Level), styleText)
		printCentered(t.screen, mid+1, " r to restart, esc for menu, c to copy ", styleDim)
	}
}
