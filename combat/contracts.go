package combat

import "github.com/jakecoffman/cp"

// Damageable is anything with hit points routed through ApplyDamage.
type Damageable interface {
	Vitals() *Vitals
	Position() cp.Vector
	// Die runs the owner's death or respawn transition. ApplyDamage calls it
	// at most once per life.
	Die(evt AttackEvent)
}

// Stunnable reports false when the owner is in a stun-immune state.
type Stunnable interface {
	Stun(duration float64) bool
}

// Shielded is implemented by combatants that can block directional hits.
type Shielded interface {
	Shield() *Shield
}

// Guarded lets a combatant refuse damage outright, e.g. while burrowed.
type Guarded interface {
	Vulnerable() bool
}

// Flasher is the presentation hook invoked after a landed hit.
type Flasher interface {
	Flash()
}
