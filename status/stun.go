package status

import "image/color"

// StunTint is the overlay colour shown while stunned.
var StunTint = color.RGBA{R: 120, G: 120, B: 255, A: 255}

// Stun is a countdown overlay. Re-stunning resets the countdown; it never
// stacks.
type Stun struct {
	Remaining float64
}

func (s *Stun) Start(duration float64) {
	if s == nil || duration <= 0 {
		return
	}
	s.Remaining = duration
}

func (s *Stun) Active() bool {
	return s != nil && s.Remaining > 0
}

// Tick advances the countdown and reports true on the single tick the stun
// runs out.
func (s *Stun) Tick(dt float64) bool {
	if s == nil || s.Remaining <= 0 {
		return false
	}
	s.Remaining -= dt
	if s.Remaining <= 0 {
		s.Remaining = 0
		return true
	}
	return false
}

func (s *Stun) Clear() {
	if s == nil {
		return
	}
	s.Remaining = 0
}
