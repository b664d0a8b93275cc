package weapon

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/combat"
)

const (
	FireTrailLifetime = 1.5
	FireTrailInterval = 0.5
	fireTrailRadius   = 0.3
	fireTrailDamage   = 1
)

// FireTrail is a burning patch left behind a fire bolt. Each target takes
// damage at most once per Interval while it stands in the patch.
type FireTrail struct {
	Pos      cp.Vector
	Radius   float64
	Damage   int
	Interval float64
	Faction  combat.Faction

	cooldowns map[any]float64
}

func NewFireTrail(pos cp.Vector, faction combat.Faction) *FireTrail {
	return &FireTrail{
		Pos:       pos,
		Radius:    fireTrailRadius,
		Damage:    fireTrailDamage,
		Interval:  FireTrailInterval,
		Faction:   faction,
		cooldowns: map[any]float64{},
	}
}

// Tick burns whatever overlaps the patch. Burns are undirected, so shields
// do not stop them.
func (f *FireTrail) Tick(dt float64, targets Targets) []combat.Outcome {
	if f == nil {
		return nil
	}
	if f.cooldowns == nil {
		f.cooldowns = map[any]float64{}
	}
	for k, left := range f.cooldowns {
		if left -= dt; left > 0 {
			f.cooldowns[k] = left
		} else {
			delete(f.cooldowns, k)
		}
	}
	if targets == nil {
		return nil
	}

	var outs []combat.Outcome
	for _, h := range targets.Hurtboxes(f.Pos, f.Radius) {
		if !f.Faction.CanHit(h.Faction) {
			continue
		}
		if h.Target == nil && (h.Scenery == nil || h.Radius <= 0) {
			// cracked walls have no radius and do not burn
			continue
		}
		if _, cooling := f.cooldowns[h.key()]; cooling {
			continue
		}
		out := Strike(h, combat.Hit(f.Damage, combat.SourceEffect))
		if out.Kind == combat.Ignored && out.Reason == combat.ReasonDead {
			continue
		}
		f.cooldowns[h.key()] = f.Interval
		outs = append(outs, out)
	}
	return outs
}
