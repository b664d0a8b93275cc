package combat

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

type Source int

const (
	SourceMelee Source = iota
	SourceProjectile
	SourceExplosion
	SourceContact
	// SourceEffect covers buffs and regen.
	SourceEffect
)

func (s Source) String() string {
	switch s {
	case SourceMelee:
		return "melee"
	case SourceProjectile:
		return "projectile"
	case SourceExplosion:
		return "explosion"
	case SourceContact:
		return "contact"
	case SourceEffect:
		return "effect"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// AttackEvent is built at the call site and consumed synchronously.
// A nil Origin is undirected damage and bypasses shields.
type AttackEvent struct {
	Amount int
	Origin *cp.Vector
	Source Source
}

func Hit(amount int, source Source) AttackEvent {
	return AttackEvent{Amount: amount, Source: source}
}

func HitFrom(amount int, source Source, origin cp.Vector) AttackEvent {
	o := origin
	return AttackEvent{Amount: amount, Source: source, Origin: &o}
}

func Heal(amount int) AttackEvent {
	return AttackEvent{Amount: -amount, Source: SourceEffect}
}

type OutcomeKind int

const (
	Ignored OutcomeKind = iota
	Blocked
	Applied
	Healed
)

func (k OutcomeKind) String() string {
	switch k {
	case Ignored:
		return "ignored"
	case Blocked:
		return "blocked"
	case Applied:
		return "applied"
	case Healed:
		return "healed"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

type IgnoreReason int

const (
	ReasonNone IgnoreReason = iota
	ReasonInvincible
	ReasonDead
	ReasonImmune
	ReasonNoEffect
	ReasonNoTarget
)

func (r IgnoreReason) String() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonInvincible:
		return "invincible"
	case ReasonDead:
		return "dead"
	case ReasonImmune:
		return "immune"
	case ReasonNoEffect:
		return "no_effect"
	case ReasonNoTarget:
		return "no_target"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Outcome is the only caller-visible result of ApplyDamage.
type Outcome struct {
	Kind   OutcomeKind
	Amount int
	Reason IgnoreReason
	Killed bool
}

func (o Outcome) Landed() bool {
	return o.Kind == Applied
}

func (o Outcome) String() string {
	switch o.Kind {
	case Applied:
		if o.Killed {
			return fmt.Sprintf("applied(%d, killed)", o.Amount)
		}
		return fmt.Sprintf("applied(%d)", o.Amount)
	case Healed:
		return fmt.Sprintf("healed(%d)", o.Amount)
	case Ignored:
		return fmt.Sprintf("ignored(%s)", o.Reason)
	default:
		return o.Kind.String()
	}
}
