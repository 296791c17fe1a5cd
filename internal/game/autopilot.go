package game

import "math"

// Autopilot plays the player tank. It lines up with the nearest enemy on one
// axis, fires along the other, and detours sideways when a wall pins it.
// The headless report and the terminal attract mode drive sessions with it.
type Autopilot struct {
	rng RNG

	lastX, lastY float64
	moving       bool // the previous decision asked to move
	stuckTicks   int
	detour       Direction
	detourTicks  int
}

const (
	autopilotAlignSlack  = tankSize / 4 // close enough on an axis to fire
	autopilotStuckLimit  = 15           // ticks without progress before a detour
	autopilotDetourTicks = 25
)

// NewAutopilot creates an autopilot drawing detour choices from rng.
func NewAutopilot(rng RNG) *Autopilot {
	return &Autopilot{rng: rng}
}

// Decide returns the movement intent for this tick and whether to fire.
// It returns a zero intent unless the session is playing.
func (a *Autopilot) Decide(s *Session) (Intent, bool) {
	p := s.Player()
	if s.State() != StatePlaying || p == nil || !p.Alive() {
		return Intent{}, false
	}
	px, py := p.Bounds().Center()

	if a.moving && px == a.lastX && py == a.lastY {
		a.stuckTicks++
	} else {
		a.stuckTicks = 0
	}
	a.lastX, a.lastY = px, py

	if a.detourTicks > 0 {
		a.detourTicks--
		a.moving = true
		return a.aimAtNearest(s, px, py, MoveIntent(a.detour))
	}
	if a.stuckTicks >= autopilotStuckLimit {
		a.stuckTicks = 0
		a.detour = Direction(a.rng.Intn(directionCount))
		a.detourTicks = autopilotDetourTicks
		a.moving = true
		return a.aimAtNearest(s, px, py, MoveIntent(a.detour))
	}

	target := nearestEnemy(s.Enemies(), px, py)
	if target == nil {
		a.moving = false
		return Intent{}, false
	}
	tx, ty := target.Bounds().Center()
	dx, dy := tx-px, ty-py

	// Close the shorter gap so the longer one becomes a firing line.
	var in Intent
	switch {
	case math.Abs(dx) <= autopilotAlignSlack || math.Abs(dy) <= autopilotAlignSlack:
	case math.Abs(dx) < math.Abs(dy):
		in = MoveIntent(DominantAxis(dx, 0))
	default:
		in = MoveIntent(DominantAxis(0, dy))
	}
	a.moving = in.Moving()
	return a.aimAtNearest(s, px, py, in)
}

// aimAtNearest adds an aim flag toward an enemy that sits on a firing line.
func (a *Autopilot) aimAtNearest(s *Session, px, py float64, in Intent) (Intent, bool) {
	for _, e := range s.Enemies() {
		ex, ey := e.Bounds().Center()
		dx, dy := ex-px, ey-py
		if math.Abs(dx) <= autopilotAlignSlack || math.Abs(dy) <= autopilotAlignSlack {
			in.Aim[DominantAxis(dx, dy)] = true
			return in, true
		}
	}
	return in, false
}

func nearestEnemy(enemies []*Tank, x, y float64) *Tank {
	var best *Tank
	bestDist := math.Inf(1)
	for _, e := range enemies {
		if !e.Alive() {
			continue
		}
		ex, ey := e.Bounds().Center()
		d := math.Abs(ex-x) + math.Abs(ey-y)
		if d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}

// Drive applies one decision to s: the intent is held for the next tick and
// a firing line triggers an aimed shot.
func (a *Autopilot) Drive(s *Session) {
	in, shoot := a.Decide(s)
	s.SetIntent(in)
	if !shoot {
		return
	}
	if held := in.Held(); len(held) > 0 {
		s.AimAndShoot(held[len(held)-1])
	}
}
