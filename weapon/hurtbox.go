package weapon

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/combat"
)

// Breakable is scenery with a plain health counter: no armor, shield or
// i-frames.
type Breakable interface {
	Damage(amount int) bool
	Broken() bool
}

// Hurtbox is one hittable circle returned by a spatial query. Exactly one of
// Target or Scenery is set.
type Hurtbox struct {
	Pos     cp.Vector
	Radius  float64
	Faction combat.Faction
	Target  combat.Damageable
	Stun    combat.Stunnable
	Scenery Breakable
}

func (h Hurtbox) key() any {
	if h.Target != nil {
		return h.Target
	}
	return h.Scenery
}

// Targets is the world as seen by weapons.
type Targets interface {
	Hurtboxes(center cp.Vector, radius float64) []Hurtbox
	// SweepWalls reports the first wall or breakable a circle of radius
	// moving from a to b touches. scenery is nil for plain walls.
	SweepWalls(a, b cp.Vector, radius float64) (point cp.Vector, scenery Breakable, hit bool)
}

// Strike routes evt to the hurtbox. Combatants go through the damage
// pipeline, scenery takes the raw amount. Landed hits flash the target.
func Strike(h Hurtbox, evt combat.AttackEvent) combat.Outcome {
	switch {
	case h.Target != nil:
		out := combat.ApplyDamage(h.Target, evt)
		if out.Landed() {
			if f, ok := h.Target.(combat.Flasher); ok {
				f.Flash()
			}
		}
		return out
	case h.Scenery != nil:
		return breakScenery(h.Scenery, evt.Amount)
	default:
		return combat.Outcome{Kind: combat.Ignored, Reason: combat.ReasonNoTarget}
	}
}

func breakScenery(s Breakable, amount int) combat.Outcome {
	if s == nil || s.Broken() {
		return combat.Outcome{Kind: combat.Ignored, Reason: combat.ReasonDead}
	}
	if amount <= 0 {
		return combat.Outcome{Kind: combat.Ignored, Reason: combat.ReasonNoEffect}
	}
	broke := s.Damage(amount)
	return combat.Outcome{Kind: combat.Applied, Amount: amount, Killed: broke}
}

// hitSet remembers who a single swing or projectile already struck.
type hitSet map[any]struct{}

func (s hitSet) has(h Hurtbox) bool {
	_, ok := s[h.key()]
	return ok
}

func (s hitSet) add(h Hurtbox) {
	s[h.key()] = struct{}{}
}
