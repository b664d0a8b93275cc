package system

import (
	"github.com/milk9111/rpgcore/ecs"
	"github.com/milk9111/rpgcore/ecs/component"
	"github.com/sirupsen/logrus"
)

// PickupCollectSystem hands overlapping pickups to the player. Pickups the
// player cannot use (a heart at full health) stay on the floor.
type PickupCollectSystem struct {
	report *Reporter
}

func NewPickupCollectSystem(report *Reporter) *PickupCollectSystem {
	return &PickupCollectSystem{report: report}
}

func (s *PickupCollectSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	_, p, ok := FindPlayer(w)
	if !ok || !p.Alive() {
		return
	}

	ecs.ForEach2(w, component.PickupComponent.Kind(), component.BodyComponent.Kind(), func(e ecs.Entity, pickup *component.Pickup, b *component.Body) {
		if b.Pos.Distance(p.Body.Pos) > b.Radius+p.Body.Radius {
			return
		}
		if !p.Collect(pickup.Kind, pickup.Amount) {
			return
		}
		s.report.debug("pickup: collected", logrus.Fields{"kind": pickup.Kind, "amount": pickup.Amount})
		ecs.DestroyEntity(w, e)
	})
}
