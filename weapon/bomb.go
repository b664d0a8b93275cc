package weapon

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/combat"
)

const (
	BombFuse       = 2.5
	BombBlinkStart = 1.5
	BombRadius     = 2.0
	BombDamage     = 2
)

// Bomb is a placed fuse. Tick reports true exactly once, on the tick it
// goes off.
type Bomb struct {
	Pos      cp.Vector
	Fuse     float64
	Radius   float64
	Damage   int
	Faction  combat.Faction
	Exploded bool
}

func NewBomb(pos cp.Vector, faction combat.Faction) *Bomb {
	return &Bomb{Pos: pos, Fuse: BombFuse, Radius: BombRadius, Damage: BombDamage, Faction: faction}
}

func (b *Bomb) Tick(dt float64) bool {
	if b == nil || b.Exploded {
		return false
	}
	b.Fuse -= dt
	if b.Fuse <= 0 {
		b.Fuse = 0
		b.Exploded = true
		return true
	}
	return false
}

func (b *Bomb) Blinking() bool {
	return b != nil && !b.Exploded && b.Fuse <= BombBlinkStart
}

// Explode hits every valid target within radius of center exactly once.
// Explosions carry no origin, so shields do not help.
func Explode(center cp.Vector, radius float64, damage int, faction combat.Faction, targets Targets) []combat.Outcome {
	if targets == nil || radius <= 0 {
		return nil
	}
	seen := hitSet{}
	var outs []combat.Outcome
	for _, h := range targets.Hurtboxes(center, radius) {
		if seen.has(h) || !faction.CanHit(h.Faction) {
			continue
		}
		seen.add(h)
		outs = append(outs, Strike(h, combat.Hit(damage, combat.SourceExplosion)))
	}
	return outs
}
