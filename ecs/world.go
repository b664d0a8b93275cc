package ecs

import "github.com/milk9111/rpgcore/ecs/component"

// World owns entities, component stores, the event queue and the optional
// physics world.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
	physics  *PhysicsWorld
	step     float64
	ticks    uint64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores: make(map[component.ComponentID]*SparseSet),
		step:   1.0 / 60,
	}
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w == nil {
		return nil
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// SetPhysicsWorld attaches a physics world to this ECS world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physics = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physics
}

// SetStep sets the fixed simulation step in seconds.
func (w *World) SetStep(seconds float64) {
	if w == nil || seconds <= 0 {
		return
	}
	w.step = seconds
}

// Step is the fixed simulation step in seconds.
func (w *World) Step() float64 {
	if w == nil {
		return 0
	}
	return w.step
}

// Ticks is the number of completed scheduler updates.
func (w *World) Ticks() uint64 {
	if w == nil {
		return 0
	}
	return w.ticks
}
