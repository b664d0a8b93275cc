package system

import (
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/ecs"
	"github.com/milk9111/rpgcore/ecs/component"
	"github.com/milk9111/rpgcore/weapon"
	"github.com/sirupsen/logrus"
)

// BombSystem burns fuses, blinks lit bombs and detonates them.
type BombSystem struct {
	report *Reporter
}

func NewBombSystem(report *Reporter) *BombSystem {
	return &BombSystem{report: report}
}

func (s *BombSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	step := dt(w)

	ecs.ForEach(w, BombComponent.Kind(), func(e ecs.Entity, b *weapon.Bomb) {
		if b.Tick(step) {
			outs := Explode(w, b.Pos, b.Radius, b.Damage, b.Faction)
			s.report.Report("bomb", "", combat.SourceExplosion, outs...)
			s.report.debug("bomb: exploded", logrus.Fields{"x": b.Pos.X, "y": b.Pos.Y, "hits": len(outs)})
			ecs.DestroyEntity(w, e)
			return
		}
		if b.Blinking() && !ecs.Has(w, e, component.WhiteFlashComponent.Kind()) {
			_ = ecs.Add(w, e, component.WhiteFlashComponent.Kind(), &component.WhiteFlash{
				Remaining: b.Fuse,
				Interval:  bombBlinkInterval,
				On:        true,
			})
		}
	})
}
