package system

import (
	"github.com/milk9111/rpgcore/ecs"
	"github.com/milk9111/rpgcore/ecs/component"
)

// TTLSystem counts down TTL components and destroys entities when the TTL
// reaches zero.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	step := dt(w)

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		if ttl == nil {
			return
		}
		ttl.Remaining -= step
		if ttl.Remaining > 0 {
			return
		}
		w.PhysicsWorld().RemoveActor(e)
		ecs.DestroyEntity(w, e)
	})
}
