package game

// Intent is the set of directional flags currently held by the player. Each
// movement flag is applied independently, so any combination is valid.
// Keyboard and touch frontends both produce this shape.
type Intent struct {
	Move [directionCount]bool
	Aim  [directionCount]bool

	// AimFollowsMove points the cannon along the last movement direction.
	// Touch joysticks set it because they have no separate aim control.
	AimFollowsMove bool
}

// MoveIntent returns an intent holding the given movement directions.
func MoveIntent(dirs ...Direction) Intent {
	var in Intent
	for _, d := range dirs {
		in.Move[d] = true
	}
	return in
}

// Moving reports whether any movement flag is held.
func (in Intent) Moving() bool {
	for _, m := range in.Move {
		if m {
			return true
		}
	}
	return false
}

// Held returns the held aim directions in priority order.
func (in Intent) Held() []Direction {
	var out []Direction
	for _, d := range aimOrder {
		if in.Aim[d] {
			out = append(out, d)
		}
	}
	return out
}

// EdgeDetector turns held aim flags into press edges. The keyboard frontend
// fires once per new press rather than while the key stays down.
type EdgeDetector struct {
	prev [directionCount]bool
}

// Pressed returns the aim directions held now that were not held on the
// previous call.
func (e *EdgeDetector) Pressed(in Intent) []Direction {
	var out []Direction
	for _, d := range aimOrder {
		if in.Aim[d] && !e.prev[d] {
			out = append(out, d)
		}
	}
	e.prev = in.Aim
	return out
}

// Reset forgets all held flags.
func (e *EdgeDetector) Reset() {
	e.prev = [directionCount]bool{}
}
