package system

import (
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/ecs"
	"github.com/milk9111/rpgcore/ecs/component"
	"github.com/milk9111/rpgcore/player"
)

// PlayerControllerSystem turns the player's Intent into movement, swings
// and spawned weapons, then resolves the active swing.
type PlayerControllerSystem struct {
	report *Reporter
}

func NewPlayerControllerSystem(report *Reporter) *PlayerControllerSystem {
	return &PlayerControllerSystem{report: report}
}

func (s *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	step := dt(w)
	targets := NewTargets(w)

	ecs.ForEach2(w, PlayerComponent.Kind(), component.IntentComponent.Kind(), func(_ ecs.Entity, p *player.Player, in *component.Intent) {
		defer in.ClearActions()
		p.Tick(step)
		if p.GameOver {
			p.Body.Stop()
			return
		}

		p.RaiseShield(in.Shield)
		p.Move(in.Move)

		if in.Upgrade {
			p.UpgradeClass()
		}
		if in.Swing {
			if ok, beam := p.Swing(in.Aim); ok && beam != nil {
				AddProjectile(w, beam)
			}
		}
		if in.Fire {
			if arrow := p.FireArrow(in.Aim); arrow != nil {
				AddProjectile(w, arrow)
			}
		}
		if in.Cast {
			if bolt := p.CastFireBolt(in.Aim); bolt != nil {
				AddProjectile(w, bolt)
			}
		}
		if in.Throw {
			if b := p.ThrowBoomerang(in.Aim); b != nil {
				AddBoomerang(w, b)
			}
		}
		if in.Bomb {
			if b := p.PlaceBomb(); b != nil {
				AddBomb(w, b)
			}
		}

		s.report.Report(attackerPlayer, "", combat.SourceMelee, p.Melee.Sweep(p.Body.Pos, targets)...)
	})
}
