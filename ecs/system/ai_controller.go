package system

import (
	"github.com/milk9111/rpgcore/ecs"
	"github.com/milk9111/rpgcore/enemy"
)

// AIControllerSystem runs each living enemy's behavior and state machine.
type AIControllerSystem struct{}

func NewAIControllerSystem() *AIControllerSystem {
	return &AIControllerSystem{}
}

func (s *AIControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	step := dt(w)
	ecs.ForEach(w, EnemyComponent.Kind(), func(_ ecs.Entity, en *enemy.Enemy) {
		if en == nil || !en.Alive() {
			return
		}
		en.Update(step)
	})
}
