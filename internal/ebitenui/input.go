package ebitenui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/Tank-Arena/internal/game"
)

var moveKeys = [...]struct {
	key ebiten.Key
	dir game.Direction
}{
	{ebiten.KeyW, game.DirUp},
	{ebiten.KeyD, game.DirRight},
	{ebiten.KeyS, game.DirDown},
	{ebiten.KeyA, game.DirLeft},
}

var aimKeys = [...]struct {
	key ebiten.Key
	dir game.Direction
}{
	{ebiten.KeyArrowUp, game.DirUp},
	{ebiten.KeyArrowRight, game.DirRight},
	{ebiten.KeyArrowDown, game.DirDown},
	{ebiten.KeyArrowLeft, game.DirLeft},
}

// keyboardIntent reads the held movement and aim keys.
func keyboardIntent() game.Intent {
	var in game.Intent
	for _, k := range moveKeys {
		if ebiten.IsKeyPressed(k.key) {
			in.Move[k.dir] = true
		}
	}
	for _, k := range aimKeys {
		if ebiten.IsKeyPressed(k.key) {
			in.Aim[k.dir] = true
		}
	}
	return in
}

// touchLayout places the on-screen pad in the bottom-left corner and the fire
// button in the bottom-right corner of the arena.
type touchLayout struct {
	padX, padY float64 // pad centre
	padButton  float64 // half size of each pad button
	padReach   float64 // distance from pad centre to each button centre
	fireX      float64
	fireY      float64
	fireRadius float64
}

func newTouchLayout(arena game.Arena) touchLayout {
	return touchLayout{
		padX:       100,
		padY:       arena.Height - 100,
		padButton:  25,
		padReach:   50,
		fireX:      arena.Width - 90,
		fireY:      arena.Height - 90,
		fireRadius: 45,
	}
}

// button returns the centre of the pad button for d.
func (l touchLayout) button(d game.Direction) (float64, float64) {
	dx, dy := d.Delta()
	return l.padX + dx*l.padReach, l.padY + dy*l.padReach
}

// hit classifies a touch point. It reports the pad direction under the point
// (onPad=false if none) and whether the point is on the fire button.
func (l touchLayout) hit(x, y float64) (dir game.Direction, onPad, onFire bool) {
	if math.Hypot(x-l.fireX, y-l.fireY) <= l.fireRadius {
		return 0, false, true
	}
	for _, d := range []game.Direction{game.DirUp, game.DirRight, game.DirDown, game.DirLeft} {
		bx, by := l.button(d)
		if math.Abs(x-bx) <= l.padButton && math.Abs(y-by) <= l.padButton {
			return d, true, false
		}
	}
	return 0, false, false
}

// touchPoints reads the positions of every active touch.
func touchPoints(ids []ebiten.TouchID, buf [][2]float64) [][2]float64 {
	buf = buf[:0]
	for _, id := range ids {
		x, y := ebiten.TouchPosition(id)
		buf = append(buf, [2]float64{float64(x), float64(y)})
	}
	return buf
}

// touchState reads touch points against the layout. The cannon follows the
// pad only while a pad button is held; fire alone leaves the aim as it was.
func (l touchLayout) touchState(points [][2]float64) (game.Intent, bool) {
	var in game.Intent
	fire := false
	for _, p := range points {
		d, onPad, onFire := l.hit(p[0], p[1])
		switch {
		case onFire:
			fire = true
		case onPad:
			in.Move[d] = true
		}
	}
	in.AimFollowsMove = in.Moving()
	return in, fire
}

// withKeyboard layers a touch intent over this frame's keyboard intent. Pad
// and keys both move; the keyboard aim stands unless the pad steers the cannon.
func withKeyboard(touch, kb game.Intent) game.Intent {
	for d, held := range kb.Move {
		if held {
			touch.Move[d] = true
		}
	}
	touch.Aim = kb.Aim
	return touch
}

// tapped reports whether any touch started this frame.
func tapped(buf []ebiten.TouchID) bool {
	return len(inpututil.AppendJustPressedTouchIDs(buf[:0])) > 0
}
