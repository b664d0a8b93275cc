package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/ecs"
	"github.com/milk9111/rpgcore/weapon"
)

// ProjectileSystem flies every projectile and removes spent ones. Enemy
// bolts home on the player.
type ProjectileSystem struct {
	report *Reporter
}

func NewProjectileSystem(report *Reporter) *ProjectileSystem {
	return &ProjectileSystem{report: report}
}

func (s *ProjectileSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	step := dt(w)
	targets := NewTargets(w)

	var home *cp.Vector
	if _, p, ok := FindPlayer(w); ok && p.Alive() {
		pos := p.Body.Pos
		home = &pos
	}

	ecs.ForEach(w, ProjectileComponent.Kind(), func(e ecs.Entity, p *weapon.Projectile) {
		if p == nil || p.Dead {
			ecs.DestroyEntity(w, e)
			return
		}
		var target *cp.Vector
		if p.Faction == combat.FactionEnemy {
			target = home
		}
		s.report.Report(p.Kind.String(), "", combat.SourceProjectile, p.Step(step, targets, target)...)
		if p.DropTrail(step) {
			AddFireTrail(w, weapon.NewFireTrail(p.Pos, p.Faction))
		}
		if p.Dead {
			ecs.DestroyEntity(w, e)
		}
	})
}
