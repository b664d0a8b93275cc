package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/ecs"
	"github.com/milk9111/rpgcore/ecs/component"
)

// MovementSystem integrates velocities. Solid bodies slide along walls and
// bounded bodies stay inside the room; either sets HitWall for the AI.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (s *MovementSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	step := dt(w)
	pw := w.PhysicsWorld()

	ecs.ForEach(w, component.BodyComponent.Kind(), func(e ecs.Entity, b *component.Body) {
		if b == nil || b.Vel == (cp.Vector{}) {
			return
		}
		next := b.Pos.Add(b.Vel.Mult(step))
		if b.Solid && pw != nil {
			end, blocked := pw.Move(b.Pos, next, b.Radius)
			next = end
			if blocked {
				b.HitWall = true
				w.Events().Push(ecs.Event{Type: ecs.EventWallHit, Data: ecs.WallHitEvent{Entity: e}})
			}
		}
		if b.Bounded && pw != nil {
			room := pw.Room()
			clamped := room.Clamp(next, b.Radius)
			if clamped != next {
				next = clamped
				b.HitWall = true
			}
		}
		b.Pos = next
	})
}

// PhysicsSyncSystem copies combatant positions into the broadphase index
// and steps the space. Runs last so next tick's queries see final positions.
type PhysicsSyncSystem struct{}

func NewPhysicsSyncSystem() *PhysicsSyncSystem {
	return &PhysicsSyncSystem{}
}

func (s *PhysicsSyncSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}
	ecs.ForEach2(w, component.BodyComponent.Kind(), component.PlayerTagComponent.Kind(), func(e ecs.Entity, b *component.Body, _ *component.PlayerTag) {
		pw.SyncActor(e, b.Pos, b.Radius)
	})
	ecs.ForEach2(w, component.BodyComponent.Kind(), component.EnemyTagComponent.Kind(), func(e ecs.Entity, b *component.Body, _ *component.EnemyTag) {
		pw.SyncActor(e, b.Pos, b.Radius)
	})
	pw.Step(dt(w))
}
