package weapon

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/common"
)

// Boomerang flies out to MaxDistance or until it touches something, then
// homes back to its owner. It stuns what it can and chips the rest.
type Boomerang struct {
	Pos          cp.Vector
	Dir          cp.Vector
	Speed        float64
	ReturnSpeed  float64
	MaxDistance  float64
	StunDuration float64
	Radius       float64
	CatchRadius  float64
	Returning    bool
	Caught       bool

	start cp.Vector
	hit   hitSet
}

func NewBoomerang(pos, dir cp.Vector) *Boomerang {
	return &Boomerang{
		Pos:          pos,
		Dir:          common.SafeNormalize(dir),
		Speed:        12,
		ReturnSpeed:  14,
		MaxDistance:  6,
		StunDuration: 2,
		Radius:       0.3,
		CatchRadius:  0.5,
		start:        pos,
		hit:          hitSet{},
	}
}

// Step moves the boomerang and resolves contacts. owner is the current
// position of whoever threw it.
func (b *Boomerang) Step(dt float64, owner cp.Vector, targets Targets) []combat.Outcome {
	if b == nil || b.Caught {
		return nil
	}
	if b.Returning {
		b.Pos = common.MoveTowards(b.Pos, owner, b.ReturnSpeed*dt)
		if b.Pos.Distance(owner) < b.CatchRadius {
			b.Caught = true
		}
		return nil
	}

	next := b.Pos.Add(b.Dir.Mult(b.Speed * dt))
	if targets != nil {
		if point, _, blocked := targets.SweepWalls(b.Pos, next, b.Radius); blocked {
			next = point
			b.Returning = true
		}
	}
	b.Pos = next
	if b.start.Distance(b.Pos) >= b.MaxDistance {
		b.Returning = true
	}
	if targets == nil {
		return nil
	}

	var outs []combat.Outcome
	for _, h := range targets.Hurtboxes(b.Pos, b.Radius) {
		if h.Target == nil || h.Faction != combat.FactionEnemy || b.hit.has(h) {
			continue
		}
		b.hit.add(h)
		b.Returning = true
		if h.Stun != nil && h.Stun.Stun(b.StunDuration) {
			continue
		}
		outs = append(outs, Strike(h, combat.Hit(1, combat.SourceProjectile)))
	}
	return outs
}
