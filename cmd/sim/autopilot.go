package main

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/arena"
	"github.com/milk9111/rpgcore/common"
	"github.com/milk9111/rpgcore/ecs/component"
	"github.com/milk9111/rpgcore/enemy"
)

const (
	swingRange = 1.2
	arrowRange = 6.0
	retreatHP  = 1
	bombEvery  = 240
	fleeRange  = 2.0
)

// autopilot walks at the nearest enemy, swings in reach and shoots from
// range. At one health it backs off with the shield up.
type autopilot struct {
	ticks int
}

func newAutopilot() *autopilot {
	return &autopilot{}
}

func (b *autopilot) idle() component.Intent {
	return component.Intent{}
}

func (b *autopilot) intent(a *arena.Arena) component.Intent {
	b.ticks++
	p := a.Player()
	target, dist := nearest(p.Body.Pos, a.Enemies())
	if target == nil {
		return component.Intent{}
	}
	aim := common.Direction(p.Body.Pos, target.Body.Pos)
	in := component.Intent{Aim: aim}

	if p.Health() <= retreatHP && dist < fleeRange {
		in.Move = aim.Neg()
		in.Shield = true
		return in
	}
	switch {
	case dist <= swingRange:
		in.Swing = true
	case dist <= arrowRange:
		in.Fire = true
		in.Move = aim
	default:
		in.Move = aim
	}
	if b.ticks%bombEvery == 0 && dist <= swingRange*2 {
		in.Bomb = true
	}
	return in
}

func nearest(from cp.Vector, enemies []*enemy.Enemy) (*enemy.Enemy, float64) {
	var best *enemy.Enemy
	bestDist := math.Inf(1)
	for _, en := range enemies {
		if d := en.Body.Pos.Distance(from); d < bestDist {
			best, bestDist = en, d
		}
	}
	return best, bestDist
}
