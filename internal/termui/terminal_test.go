package termui

import (
	"image/color"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Tank-Arena/internal/game"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	screen.SetSize(80, 31)
	t.Cleanup(screen.Fini)
	return screen
}

func newTerminal(t *testing.T, opts Options) (*Terminal, tcell.SimulationScreen, *game.ManualClock) {
	t.Helper()
	screen := newSimScreen(t)
	clock := game.NewManualClock(epoch)
	cfg := game.DefaultConfig()
	cfg.Seed = 7
	cfg.RNG = rand.New(rand.NewSource(7))
	cfg.Clock = clock
	cfg.Logger = log.New(io.Discard)
	return New(screen, cfg, opts, log.New(io.Discard)), screen, clock
}

func colorWhite() color.RGBA { return color.RGBA{R: 255, G: 255, B: 255, A: 255} }

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }

func runeKey(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func TestLatch_HoldsForWindow(t *testing.T) {
	l := NewLatch(100 * time.Millisecond)
	l.Press(game.DirLeft, epoch)
	if held := l.Held(epoch.Add(50 * time.Millisecond)); !held[game.DirLeft] || held[game.DirUp] {
		t.Fatalf("left should be held after 50ms, got %v", held)
	}
	if held := l.Held(epoch.Add(100 * time.Millisecond)); held[game.DirLeft] {
		t.Fatal("latch should expire after its window")
	}
	l.Press(game.DirLeft, epoch.Add(90*time.Millisecond))
	if held := l.Held(epoch.Add(150 * time.Millisecond)); !held[game.DirLeft] {
		t.Fatal("a repeat press should extend the latch")
	}
	l.Release()
	if held := l.Held(epoch.Add(150 * time.Millisecond)); held[game.DirLeft] {
		t.Fatal("Release should drop every direction")
	}
}

func TestKeyAction_Mapping(t *testing.T) {
	cases := []struct {
		ev   *tcell.EventKey
		act  action
		dir  game.Direction
		tier int
	}{
		{runeKey('w'), actMove, game.DirUp, 0},
		{runeKey('A'), actMove, game.DirLeft, 0},
		{key(tcell.KeyDown), actAim, game.DirDown, 0},
		{key(tcell.KeyRight), actAim, game.DirRight, 0},
		{runeKey('p'), actPause, 0, 0},
		{runeKey('m'), actMute, 0, 0},
		{runeKey('3'), actDifficulty, 0, 2},
		{key(tcell.KeyEnter), actConfirm, 0, 0},
		{key(tcell.KeyEscape), actMenu, 0, 0},
		{runeKey('q'), actQuit, 0, 0},
		{runeKey('x'), actNone, 0, 0},
	}
	for _, c := range cases {
		act, dir, tier := keyAction(c.ev)
		if act != c.act || (c.act == actMove || c.act == actAim) && dir != c.dir || tier != c.tier {
			t.Errorf("%v: got (%d,%s,%d) want (%d,%s,%d)", c.ev.Name(), act, dir, tier, c.act, c.dir, c.tier)
		}
	}
}

func TestTerminal_MenuToPlaying(t *testing.T) {
	term, _, clock := newTerminal(t, Options{})
	s := term.Session()
	if s.State() != game.StateMainMenu {
		t.Fatalf("expected main menu, got %s", s.State())
	}
	term.HandleEvent(runeKey('4'), clock.Now())
	if s.Difficulty().Key != "expert" {
		t.Fatalf("4 should pick expert, got %s", s.Difficulty().Key)
	}
	term.HandleEvent(key(tcell.KeyEnter), clock.Now())
	if s.State() != game.StatePlaying {
		t.Fatalf("enter should start the game, got %s", s.State())
	}
	if term.hud.Lives != game.MustDifficulty("expert").PlayerLives {
		t.Errorf("HUD sink should have received the start snapshot, got %+v", term.hud)
	}
}

func TestTerminal_LatchedMoveReachesSession(t *testing.T) {
	term, _, clock := newTerminal(t, Options{MoveLatch: 100 * time.Millisecond})
	s := term.Session()
	term.HandleEvent(key(tcell.KeyEnter), clock.Now())

	term.HandleEvent(runeKey('d'), clock.Now())
	clock.Advance(20 * time.Millisecond)
	term.Step(clock.Now())
	if !s.Intent().Move[game.DirRight] {
		t.Fatal("latched d should hold right")
	}

	clock.Advance(200 * time.Millisecond)
	term.Step(clock.Now())
	if s.Intent().Moving() {
		t.Fatal("intent should clear once the latch expires")
	}
}

func TestTerminal_ArrowAimsAndFires(t *testing.T) {
	term, _, clock := newTerminal(t, Options{})
	s := term.Session()
	term.HandleEvent(key(tcell.KeyEnter), clock.Now())

	term.HandleEvent(key(tcell.KeyUp), clock.Now())
	if s.Player().Aim() != game.DirUp {
		t.Errorf("arrow up should aim up, got %s", s.Player().Aim())
	}
	if len(s.Bullets()) != 1 {
		t.Errorf("arrow press should fire one bullet, got %d", len(s.Bullets()))
	}
}

func TestTerminal_PauseAndQuit(t *testing.T) {
	term, _, clock := newTerminal(t, Options{})
	s := term.Session()
	term.HandleEvent(runeKey('p'), clock.Now())
	if s.State() != game.StateMainMenu {
		t.Fatal("pause from the menu should be refused")
	}
	term.HandleEvent(key(tcell.KeyEnter), clock.Now())
	term.HandleEvent(runeKey('p'), clock.Now())
	if s.State() != game.StatePaused {
		t.Fatalf("expected paused, got %s", s.State())
	}
	if quit := term.HandleEvent(runeKey('q'), clock.Now()); !quit {
		t.Fatal("q should request quit")
	}
}

func TestTerminal_DrawShowsHUDAndWalls(t *testing.T) {
	term, screen, clock := newTerminal(t, Options{})
	term.HandleEvent(key(tcell.KeyEnter), clock.Now())
	term.Draw()
	screen.Show()

	cells, w, _ := screen.GetContents()
	hud := make([]rune, 0, w)
	for col := 0; col < w; col++ {
		if len(cells[col].Runes) > 0 {
			hud = append(hud, cells[col].Runes[0])
		}
	}
	if got := string(hud); !strings.Contains(got, "SCORE") || !strings.Contains(got, "LIVES") {
		t.Errorf("status line missing fields: %q", got)
	}

	// The top boundary wall covers the first arena row.
	_, _, style, _ := screen.GetContent(w/2, hudRows)
	fg, _, _ := style.Decompose()
	r, g, b := fg.RGB()
	if r != 136 || g != 136 || b != 136 {
		t.Errorf("expected the grey boundary wall on the first arena row, got rgb(%d,%d,%d)", r, g, b)
	}
}

func TestTerminal_DemoPlaysItself(t *testing.T) {
	term, _, clock := newTerminal(t, Options{Demo: true})
	s := term.Session()
	ran := 0
	for i := 0; i < 600; i++ {
		clock.Advance(time.Second / 60)
		if term.Step(clock.Now()) {
			ran++
		}
	}
	if s.State() == game.StateMainMenu {
		t.Fatal("demo mode should leave the menu by itself")
	}
	if ran == 0 || s.Ticks() == 0 {
		t.Fatalf("demo should run ticks, ran=%d ticks=%d", ran, s.Ticks())
	}
}

func TestCellRenderer_SmallRectTakesOneCell(t *testing.T) {
	screen := newSimScreen(t)
	r := newCellRenderer(screen, game.Arena{Width: 800, Height: 600})
	r.clear()
	r.FillRect(game.Rect{X: 400, Y: 300, W: 6, H: 6}, colorWhite())
	screen.Show()

	col, row := r.cell(403, 303)
	ch, _, _, _ := screen.GetContent(col, row+hudRows)
	if ch != '▪' {
		t.Errorf("expected a dot cell for a bullet-sized rect, got %q", ch)
	}
	painted := 0
	cells, _, _ := screen.GetContents()
	for _, c := range cells {
		if len(c.Runes) > 0 && c.Runes[0] != ' ' {
			painted++
		}
	}
	if painted != 1 {
		t.Errorf("expected exactly 1 painted cell, got %d", painted)
	}
}

func TestCellRenderer_TranslucentIgnored(t *testing.T) {
	screen := newSimScreen(t)
	r := newCellRenderer(screen, game.Arena{Width: 800, Height: 600})
	r.clear()
	c := colorWhite()
	c.A = 40
	r.FillRect(game.Rect{W: 800, H: 600}, c)
	screen.Show()
	ch, _, _, _ := screen.GetContent(10, 10)
	if ch != ' ' {
		t.Errorf("translucent fill should not paint, got %q", ch)
	}
}
