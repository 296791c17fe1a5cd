// Package ebitenui is the windowed frontend: it feeds keyboard and touch
// input into a game session and draws the arena, HUD and modal screens.
package ebitenui

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Tank-Arena/internal/game"
)

// toastLife is how long a frontend message stays on screen. Update runs once
// per display frame, so this is wall-clock time rather than a frame count.
const toastLife = 2 * time.Second

// TPS is the update rate to hand to ebiten.SetTPS. Updates follow the display
// and the session's frame throttle alone decides when a tick runs.
const TPS = ebiten.SyncWithFPS

var (
	colHUD     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colDim     = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	colAccent  = color.RGBA{R: 255, G: 215, A: 255}
	colShade   = color.RGBA{A: 180}
	colPad     = color.RGBA{R: 255, G: 255, B: 255, A: 60}
	colPadEdge = color.RGBA{R: 255, G: 255, B: 255, A: 140}
	colFire    = color.RGBA{R: 200, G: 40, B: 40, A: 110}
)

// App implements ebiten.Game around a game session. It is also the
// session's HUD sink.
type App struct {
	session *game.Session
	logger  *log.Logger
	arena   game.Arena
	touch   bool
	layout  touchLayout

	world    *ebiten.Image
	aimEdges game.EdgeDetector
	touchBuf []ebiten.TouchID
	pointBuf [][2]float64
	fireHeld bool

	hud       game.HUD
	toast      string
	toastUntil time.Time
}

// New builds the session from cfg with the app installed as its HUD sink.
// The session opens on the main menu.
func New(cfg game.Config, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	a := &App{
		logger: logger.WithPrefix("ebitenui"),
		touch:  cfg.TouchMode,
	}
	cfg.HUD = a
	a.session = game.NewSession(cfg)
	a.arena = a.session.Arena()
	a.layout = newTouchLayout(a.arena)
	a.world = ebiten.NewImage(int(a.arena.Width), int(a.arena.Height))
	return a
}

// Session exposes the driven session.
func (a *App) Session() *game.Session { return a.session }

// --- HUD sink ---

func (a *App) UpdateHUD(h game.HUD) { a.hud = h }

func (a *App) LevelComplete(s game.LevelSummary) {
	a.logger.Info("level complete", "level", s.Level, "bonus", s.Bonus, "score", s.Score)
}

func (a *App) GameOver(s game.GameOverSummary) {
	a.logger.Info("game over", "level", s.Level, "score", s.FinalScore)
}

// --- ebiten.Game ---

// Update handles input, then lets the session decide whether a tick is due.
func (a *App) Update() error {
	a.handleKeys()
	if a.touch {
		a.handleTouch()
	}
	a.session.Frame(time.Now())
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	a.world.Clear()
	a.session.Draw(imageRenderer{dst: a.world})

	sx, sy := a.session.ScreenShake()
	var opt ebiten.DrawImageOptions
	opt.GeoM.Translate(sx, sy)
	screen.DrawImage(a.world, &opt)

	a.drawHUD(screen)
	if a.touch && a.session.State() == game.StatePlaying {
		a.drawTouchControls(screen)
	}
	a.drawOverlay(screen)
	if time.Now().Before(a.toastUntil) {
		drawCentered(screen, a.toast, int(a.arena.Width)/2, int(a.arena.Height)-20, colAccent)
	}
}

func (a *App) Layout(_, _ int) (int, int) {
	return int(a.arena.Width), int(a.arena.Height)
}

// --- Input ---

func (a *App) handleKeys() {
	s := a.session

	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		if s.ToggleMute() {
			a.say("SOUND ON")
		} else {
			a.say("SOUND OFF")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.copySummary()
	}

	switch s.State() {
	case game.StateMainMenu:
		for i, k := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4} {
			if inpututil.IsKeyJustPressed(k) && i < len(game.DifficultyOrder) {
				a.refuse(s.SelectDifficulty(game.DifficultyOrder[i]))
			}
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			s.StartGame(s.Difficulty())
			a.aimEdges.Reset()
		}

	case game.StatePlaying:
		in := keyboardIntent()
		s.SetIntent(in)
		for _, d := range a.aimEdges.Pressed(in) {
			s.AimAndShoot(d)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			s.RequestShoot()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyP) {
			a.refuse(s.TogglePause())
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			s.ReturnToMenu()
		}

	case game.StatePaused:
		if inpututil.IsKeyJustPressed(ebiten.KeyP) {
			a.refuse(s.TogglePause())
			a.aimEdges.Reset()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			s.ReturnToMenu()
		}

	case game.StateLevelComplete:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			a.refuse(s.NextLevel())
			a.aimEdges.Reset()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			s.ReturnToMenu()
		}

	case game.StateGameOver:
		for i, k := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4} {
			if inpututil.IsKeyJustPressed(k) && i < len(game.DifficultyOrder) {
				a.refuse(s.SelectDifficulty(game.DifficultyOrder[i]))
			}
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyR) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			s.Restart()
			a.aimEdges.Reset()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			s.ReturnToMenu()
		}
	}
}

// handleTouch maps the on-screen pad to movement and the fire button to
// auto-fire. A tap on a modal screen advances it.
func (a *App) handleTouch() {
	s := a.session
	if s.State() != game.StatePlaying {
		if a.fireHeld {
			s.EndAutoFire()
			a.fireHeld = false
		}
		if !tapped(a.touchBuf) {
			return
		}
		switch s.State() {
		case game.StateMainMenu:
			s.StartGame(s.Difficulty())
		case game.StatePaused:
			a.refuse(s.TogglePause())
		case game.StateLevelComplete:
			a.refuse(s.NextLevel())
		case game.StateGameOver:
			s.Restart()
		}
		return
	}

	a.touchBuf = ebiten.AppendTouchIDs(a.touchBuf[:0])
	if len(a.touchBuf) == 0 && !a.fireHeld {
		// Leave keyboard intent alone when nothing touches the screen.
		return
	}
	a.pointBuf = touchPoints(a.touchBuf, a.pointBuf)
	in, fire := a.layout.touchState(a.pointBuf)
	s.SetIntent(withKeyboard(in, s.Intent()))
	switch {
	case fire && !a.fireHeld:
		s.BeginAutoFire()
	case !fire && a.fireHeld:
		s.EndAutoFire()
	}
	a.fireHeld = fire
}

// refuse logs a state-machine call the session turned down.
func (a *App) refuse(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, game.ErrInvalidTransition) {
		a.logger.Debug("ignored", "err", err)
		return
	}
	a.logger.Warn("input rejected", "err", err)
}

func (a *App) copySummary() {
	summary := a.session.Summary()
	if summary == "" {
		return
	}
	if err := clipboard.WriteAll(summary); err != nil {
		a.logger.Warn("clipboard copy failed", "err", err)
		a.say("COPY FAILED")
		return
	}
	a.say("COPIED TO CLIPBOARD")
}

func (a *App) say(msg string) {
	a.toast = msg
	a.toastUntil = time.Now().Add(toastLife)
}

// --- Drawing ---

func (a *App) drawHUD(screen *ebiten.Image) {
	if a.session.State() == game.StateMainMenu {
		return
	}
	h := a.hud
	drawText(screen, fmt.Sprintf("SCORE %d", h.Score), 28, 40, colHUD)
	drawText(screen, fmt.Sprintf("LIVES %d", h.Lives), 28, 56, colHUD)
	drawText(screen, fmt.Sprintf("LEVEL %d", h.Level), 28, 72, colHUD)
	drawText(screen, fmt.Sprintf("ENEMIES %d", h.Enemies), 28, 88, colHUD)

	right := int(a.arena.Width) - 28
	drawText(screen, h.Difficulty, right-textWidth(h.Difficulty), 40, colDim)
	sound := "SOUND ON"
	if !a.session.SoundOn() {
		sound = "MUTED"
	}
	drawText(screen, sound, right-textWidth(sound), 56, colDim)
}

func (a *App) drawTouchControls(screen *ebiten.Image) {
	l := a.layout
	for _, d := range []game.Direction{game.DirUp, game.DirRight, game.DirDown, game.DirLeft} {
		bx, by := l.button(d)
		x, y := float32(bx-l.padButton), float32(by-l.padButton)
		size := float32(2 * l.padButton)
		vector.FillRect(screen, x, y, size, size, colPad, false)
		vector.StrokeRect(screen, x, y, size, size, 2, colPadEdge, false)
	}
	vector.FillCircle(screen, float32(l.fireX), float32(l.fireY), float32(l.fireRadius), colFire, true)
	vector.StrokeCircle(screen, float32(l.fireX), float32(l.fireY), float32(l.fireRadius), 2, colPadEdge, true)
	drawCentered(screen, "FIRE", int(l.fireX), int(l.fireY)+5, colHUD)
}

func (a *App) shade(screen *ebiten.Image) {
	vector.FillRect(screen, 0, 0, float32(a.arena.Width), float32(a.arena.Height), colShade, false)
}

func (a *App) drawOverlay(screen *ebiten.Image) {
	s := a.session
	cx := int(a.arena.Width) / 2
	cy := int(a.arena.Height) / 2
	prompt := "ENTER"
	if a.touch {
		prompt = "TAP"
	}

	switch s.State() {
	case game.StateMainMenu:
		a.shade(screen)
		drawCentered(screen, "TANK ARENA", cx, cy-110, colAccent)
		drawCentered(screen, "SELECT DIFFICULTY", cx, cy-70, colHUD)
		current := s.Difficulty().Key
		for i, key := range game.DifficultyOrder {
			d := game.MustDifficulty(key)
			clr := color.Color(colDim)
			marker := "  "
			if key == current {
				clr, marker = colAccent, "> "
			}
			line := fmt.Sprintf("%s%d  %-6s  lives %d  enemies %d", marker, i+1, d.Name, d.PlayerLives, d.InitialEnemies)
			drawCentered(screen, line, cx, cy-35+i*20, clr)
		}
		drawCentered(screen, prompt+" TO START", cx, cy+70, colHUD)
		drawCentered(screen, "WASD MOVE  ARROWS AIM+FIRE  P PAUSE  M MUTE", cx, cy+100, colDim)

	case game.StatePaused:
		a.shade(screen)
		drawCentered(screen, "PAUSED", cx, cy-10, colAccent)
		drawCentered(screen, "P TO RESUME  ESC FOR MENU", cx, cy+20, colDim)

	case game.StateLevelComplete:
		sum := s.LastLevel()
		a.shade(screen)
		drawCentered(screen, fmt.Sprintf("LEVEL %d COMPLETE", sum.Level), cx, cy-40, colAccent)
		drawCentered(screen, fmt.Sprintf("BONUS +%d", sum.Bonus), cx, cy-10, colHUD)
		drawCentered(screen, fmt.Sprintf("SCORE %d", sum.Score), cx, cy+10, colHUD)
		drawCentered(screen, prompt+" FOR NEXT LEVEL  C TO COPY", cx, cy+50, colDim)

	case game.StateGameOver:
		sum := s.LastGameOver()
		a.shade(screen)
		drawCentered(screen, "GAME OVER", cx, cy-40, colAccent)
		drawCentered(screen, fmt.Sprintf("FINAL SCORE %d", sum.FinalScore), cx, cy-10, colHUD)
		drawCentered(screen, fmt.Sprintf("REACHED LEVEL %d", sum.Level), cx, cy+10, colHUD)
		drawCentered(screen, "R TO RESTART  ESC FOR MENU  C TO COPY", cx, cy+50, colDim)
	}
}
