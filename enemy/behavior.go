package enemy

import (
	"math/rand"
	"sort"

	"github.com/milk9111/rpgcore/ai"
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/prefabs"
)

// Behavior is the archetype-specific half of an enemy. Every enemy carries
// exactly one, so callers never type-assert optional capabilities.
type Behavior interface {
	// Think runs before the FSM each tick the enemy is not stunned.
	Think(e *Enemy, ctx *ai.Context)
	// Enter runs on every state change, including into stunned.
	Enter(e *Enemy, from, to ai.StateID)
	Died(e *Enemy, evt combat.AttackEvent)

	Shield(e *Enemy) *combat.Shield
	Vulnerable(e *Enemy) bool
	Detonates() bool
	// Touched runs when the player overlaps the enemy. Returning true
	// swallows the contact hit.
	Touched(e *Enemy) bool
	ContactEvent(e *Enemy, amount int) combat.AttackEvent
}

// Factory builds a fresh Behavior for one spawn.
type Factory func(spec prefabs.ArchetypeSpec, rng *rand.Rand) Behavior

// Base is the plain enemy: no shield, always vulnerable, directional contact
// damage and a loot roll on death. Archetypes embed it and override.
type Base struct{}

func (Base) Think(*Enemy, *ai.Context)    {}
func (Base) Shield(*Enemy) *combat.Shield { return nil }
func (Base) Vulnerable(*Enemy) bool       { return true }
func (Base) Detonates() bool              { return false }
func (Base) Touched(*Enemy) bool          { return false }

func (Base) Enter(*Enemy, ai.StateID, ai.StateID) {}

func (Base) Died(e *Enemy, _ combat.AttackEvent) {
	e.DropLoot()
}

func (Base) ContactEvent(e *Enemy, amount int) combat.AttackEvent {
	return combat.HitFrom(amount, combat.SourceContact, e.Body.Pos)
}

var factories = map[string]Factory{
	"":              basic,
	"basic":         basic,
	"splitter":      newSplitter,
	"boom_shroom":   newBoomShroom,
	"chief":         newChief,
	"archer":        newArcher,
	"maceman":       newMaceman,
	"shield_knight": newShieldKnight,
	"flying_skull":  newFlyingSkull,
	"mummy":         newMummy,
	"skeleton_mage": newSkeletonMage,
	"thief":         newThief,
}

func basic(prefabs.ArchetypeSpec, *rand.Rand) Behavior {
	return Base{}
}

// Behaviors lists the registered behavior names.
func Behaviors() []string {
	out := make([]string, 0, len(factories))
	for name := range factories {
		if name != "" {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
