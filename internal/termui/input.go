package termui

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Tank-Arena/internal/game"
)

// Terminals report key presses and repeats but never releases, so a press
// holds its direction for a short latch window. Auto-repeat keeps it alive.
const (
	DefaultMoveLatch = 250 * time.Millisecond
	aimLatch         = 150 * time.Millisecond
)

// Latch turns press events into held flags that expire.
type Latch struct {
	window time.Duration
	until  [4]time.Time
}

// NewLatch holds each press for window.
func NewLatch(window time.Duration) *Latch {
	return &Latch{window: window}
}

// Press latches d from now.
func (l *Latch) Press(d game.Direction, now time.Time) {
	l.until[d] = now.Add(l.window)
}

// Held reports the directions still latched at now.
func (l *Latch) Held(now time.Time) [4]bool {
	var out [4]bool
	for d, t := range l.until {
		out[d] = now.Before(t)
	}
	return out
}

// Release drops every latched direction.
func (l *Latch) Release() {
	l.until = [4]time.Time{}
}

// action is what a key event asks the frontend to do.
type action int

const (
	actNone action = iota
	actMove
	actAim
	actFire
	actPause
	actMute
	actRestart
	actConfirm
	actMenu
	actDifficulty
	actCopy
	actQuit
)

// keyAction classifies a key event. dir is set for moves and aims, tier for
// difficulty picks (0-based).
func keyAction(ev *tcell.EventKey) (act action, dir game.Direction, tier int) {
	switch ev.Key() {
	case tcell.KeyUp:
		return actAim, game.DirUp, 0
	case tcell.KeyRight:
		return actAim, game.DirRight, 0
	case tcell.KeyDown:
		return actAim, game.DirDown, 0
	case tcell.KeyLeft:
		return actAim, game.DirLeft, 0
	case tcell.KeyEnter:
		return actConfirm, 0, 0
	case tcell.KeyEscape:
		return actMenu, 0, 0
	case tcell.KeyCtrlC:
		return actQuit, 0, 0
	case tcell.KeyRune:
	default:
		return actNone, 0, 0
	}

	switch r := ev.Rune(); r {
	case 'w', 'W':
		return actMove, game.DirUp, 0
	case 'd', 'D':
		return actMove, game.DirRight, 0
	case 's', 'S':
		return actMove, game.DirDown, 0
	case 'a', 'A':
		return actMove, game.DirLeft, 0
	case ' ':
		return actFire, 0, 0
	case 'p', 'P':
		return actPause, 0, 0
	case 'm', 'M':
		return actMute, 0, 0
	case 'r', 'R':
		return actRestart, 0, 0
	case 'c', 'C':
		return actCopy, 0, 0
	case 'q', 'Q':
		return actQuit, 0, 0
	case '1', '2', '3', '4':
		return actDifficulty, 0, int(r - '1')
	}
	return actNone, 0, 0
}
