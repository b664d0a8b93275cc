package system

import (
	"github.com/milk9111/rpgcore/ecs"
	"github.com/milk9111/rpgcore/ecs/component"
)

// WhiteFlashSystem toggles On every Interval seconds and drops the
// component once Remaining runs out.
type WhiteFlashSystem struct{}

func NewWhiteFlashSystem() *WhiteFlashSystem { return &WhiteFlashSystem{} }

func (s *WhiteFlashSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	step := dt(w)

	ecs.ForEach(w, component.WhiteFlashComponent.Kind(), func(e ecs.Entity, wf *component.WhiteFlash) {
		if wf.Interval <= 0 {
			wf.Interval = step
		}
		wf.Remaining -= step
		if wf.Remaining <= 0 {
			_ = ecs.Remove(w, e, component.WhiteFlashComponent.Kind())
			return
		}
		wf.Timer += step
		for wf.Timer >= wf.Interval {
			wf.Timer -= wf.Interval
			wf.On = !wf.On
		}
	})
}
