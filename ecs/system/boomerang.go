package system

import (
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/ecs"
	"github.com/milk9111/rpgcore/weapon"
)

// BoomerangSystem flies thrown boomerangs and hands them back on catch.
type BoomerangSystem struct {
	report *Reporter
}

func NewBoomerangSystem(report *Reporter) *BoomerangSystem {
	return &BoomerangSystem{report: report}
}

func (s *BoomerangSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	step := dt(w)
	_, p, ok := FindPlayer(w)

	ecs.ForEach(w, BoomerangComponent.Kind(), func(e ecs.Entity, b *weapon.Boomerang) {
		if !ok || !p.Alive() || !p.BoomerangOut {
			// the thrower died or respawned; the boomerang is gone
			ecs.DestroyEntity(w, e)
			if ok {
				p.CatchBoomerang()
			}
			return
		}
		s.report.Report("boomerang", "", combat.SourceProjectile, b.Step(step, p.Body.Pos, NewTargets(w))...)
		if b.Caught {
			p.CatchBoomerang()
			ecs.DestroyEntity(w, e)
		}
	})
}
