package system

import (
	"github.com/milk9111/rpgcore/ecs"
	"github.com/milk9111/rpgcore/enemy"
	"github.com/milk9111/rpgcore/weapon"
)

// CleanupSystem removes dead enemies and broken scenery from the world and
// the physics index.
type CleanupSystem struct{}

func NewCleanupSystem() *CleanupSystem {
	return &CleanupSystem{}
}

func (s *CleanupSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	pw := w.PhysicsWorld()

	ecs.ForEach(w, EnemyComponent.Kind(), func(e ecs.Entity, en *enemy.Enemy) {
		if en.Alive() {
			return
		}
		pw.RemoveActor(e)
		ecs.DestroyEntity(w, e)
		w.Events().Push(ecs.Event{Type: ecs.EventDestroyed, Data: e})
	})
	ecs.ForEach(w, DestructibleComponent.Kind(), func(e ecs.Entity, d *weapon.Destructible) {
		if !d.Broken() {
			return
		}
		pw.RemoveActor(e)
		ecs.DestroyEntity(w, e)
	})
	ecs.ForEach(w, CrackedWallComponent.Kind(), func(e ecs.Entity, c *weapon.CrackedWall) {
		if !c.Broken() {
			return
		}
		pw.RemoveBreakable(e)
		ecs.DestroyEntity(w, e)
		w.Events().Push(ecs.Event{Type: ecs.EventDestroyed, Data: e})
	})
}
