package system

import (
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/ecs"
	"github.com/milk9111/rpgcore/enemy"
	"github.com/sirupsen/logrus"
)

// ContactSystem applies touch damage from enemies overlapping the player.
type ContactSystem struct {
	report *Reporter
}

func NewContactSystem(report *Reporter) *ContactSystem {
	return &ContactSystem{report: report}
}

func (s *ContactSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	_, p, ok := FindPlayer(w)
	if !ok || !p.Alive() {
		return
	}
	ecs.ForEach(w, EnemyComponent.Kind(), func(_ ecs.Entity, en *enemy.Enemy) {
		if en == nil || !en.Alive() || !p.Alive() {
			return
		}
		if en.Body.Pos.Distance(p.Body.Pos) > en.Body.Radius+p.Body.Radius {
			return
		}
		out := en.Contact(p)
		if out.Kind == combat.Ignored {
			return
		}
		s.report.debug("combat: contact", logrus.Fields{"archetype": en.Archetype, "state": en.State()})
		s.report.Report(en.Archetype, attackerPlayer, combat.SourceContact, out)
	})
}
