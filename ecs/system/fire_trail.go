package system

import (
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/ecs"
	"github.com/milk9111/rpgcore/weapon"
)

// FireTrailSystem burns whatever stands in a fire patch. TTLSystem removes
// the patches.
type FireTrailSystem struct {
	report *Reporter
}

func NewFireTrailSystem(report *Reporter) *FireTrailSystem {
	return &FireTrailSystem{report: report}
}

func (s *FireTrailSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	step := dt(w)
	targets := NewTargets(w)

	ecs.ForEach(w, FireTrailComponent.Kind(), func(_ ecs.Entity, f *weapon.FireTrail) {
		s.report.Report("fire_trail", "", combat.SourceEffect, f.Tick(step, targets)...)
	})
}
