package enemy

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/ai"
	"github.com/milk9111/rpgcore/common"
	"github.com/milk9111/rpgcore/prefabs"
	"github.com/milk9111/rpgcore/weapon"
)

// archer keeps its distance in combat: it backs off when the player is
// inside flee_range and otherwise stands and fires. Never both in one tick.
type archer struct {
	Base
	reload float64
}

const stateCombat ai.StateID = "combat"

func newArcher(prefabs.ArchetypeSpec, *rand.Rand) Behavior {
	return &archer{}
}

func (a *archer) Enter(e *Enemy, _, to ai.StateID) {
	if to == stateCombat {
		a.reload = e.Tuning.Or("fire_rate", 1.5)
	}
}

func (a *archer) Think(e *Enemy, ctx *ai.Context) {
	if e.State() != stateCombat {
		return
	}
	d, ok := ctx.PlayerDistance()
	if !ok {
		return
	}
	if d < e.Tuning.Get("flee_range") {
		away := ctx.ToPlayer().Neg()
		e.Body.Vel = away.Mult(e.Tuning.Get("flee_speed") * e.SpeedScale())
		return
	}
	e.Body.Stop()
	a.reload -= ctx.Dt
	if a.reload > 0 {
		return
	}
	a.reload = e.Tuning.Or("fire_rate", 1.5)
	a.volley(e, ctx.ToPlayer())
}

// volley fires shots arrows side by side, spread apart along the
// perpendicular.
func (a *archer) volley(e *Enemy, dir cp.Vector) {
	shots := max(1, int(e.Tuning.Or("shots", 1)))
	spread := e.Tuning.Get("spread")
	perp := dir.Perp()
	mid := float64(shots-1) / 2
	for i := range shots {
		p := e.fire(weapon.EnemyArrow, dir)
		if p != nil {
			p.Pos = p.Pos.Add(perp.Mult((float64(i) - mid) * spread))
		}
	}
}

// skeletonMage fires homing bolts and blinks away when the player closes in.
type skeletonMage struct {
	Base
	reload   float64
	cooldown float64
}

const (
	stateAttack  ai.StateID = "attack"
	stateFadeOut ai.StateID = "fade_out"
	stateFadeIn  ai.StateID = "fade_in"

	eventTeleport ai.EventID = "teleport"
)

func newSkeletonMage(prefabs.ArchetypeSpec, *rand.Rand) Behavior {
	return &skeletonMage{}
}

func (m *skeletonMage) Vulnerable(e *Enemy) bool {
	return e.State() != stateFadeOut
}

func (m *skeletonMage) Think(e *Enemy, ctx *ai.Context) {
	if m.cooldown > 0 {
		m.cooldown -= ctx.Dt
	}
	if e.State() != stateAttack {
		return
	}
	d, ok := ctx.PlayerDistance()
	if !ok {
		return
	}
	if d < e.Tuning.Get("teleport_range") && m.cooldown <= 0 {
		m.cooldown = e.Tuning.Or("teleport_cooldown", 3)
		e.Machine.Emit(eventTeleport)
		return
	}
	m.reload -= ctx.Dt
	if m.reload > 0 {
		return
	}
	m.reload = e.Tuning.Or("fire_rate", 2)
	e.fire(weapon.MagicBolt, ctx.ToPlayer())
}

func (m *skeletonMage) Enter(e *Enemy, _, to ai.StateID) {
	switch to {
	case stateAttack:
		m.reload = e.Tuning.Or("fire_rate", 2) / 2
	case stateFadeIn:
		m.blink(e)
	}
}

// blink reappears between teleport_min and teleport_max from the player.
func (m *skeletonMage) blink(e *Enemy) {
	if e.env == nil {
		return
	}
	player := e.env.Player()
	rng := e.env.Rand()
	if !player.Found || rng == nil {
		return
	}
	lo := e.Tuning.Or("teleport_min", 4)
	hi := e.Tuning.Or("teleport_max", 6)
	dist := lo + rng.Float64()*(hi-lo)
	pos := player.Pos.Add(common.RandomDirection(rng).Mult(dist))
	if room := e.env.Room(); room != nil {
		pos = room.Clamp(pos, e.Body.Radius)
	}
	e.Body.Pos = pos
	e.Body.Stop()
}

// mummy spins in place spraying bolts, then burrows and resurfaces near
// home. It cannot be hurt underground.
type mummy struct {
	Base
	angle  float64
	reload float64
}

const (
	stateSpinning    ai.StateID = "spinning"
	stateBurrowing   ai.StateID = "burrowing"
	stateUnderground ai.StateID = "underground"
)

func newMummy(prefabs.ArchetypeSpec, *rand.Rand) Behavior {
	return &mummy{}
}

func (m *mummy) Vulnerable(e *Enemy) bool {
	switch e.State() {
	case stateBurrowing, stateUnderground:
		return false
	}
	return true
}

func (m *mummy) Think(e *Enemy, ctx *ai.Context) {
	if e.State() != stateSpinning {
		return
	}
	m.angle = math.Mod(m.angle+e.Tuning.Or("spin_speed", 720)*ctx.Dt, 360)
	interval := e.Tuning.Or("fire_interval", 0.05)
	if interval <= 0 {
		return
	}
	m.reload -= ctx.Dt
	for m.reload <= 0 {
		m.reload += interval
		e.fire(weapon.MummyBolt, cp.ForAngle(m.angle*math.Pi/180))
	}
}

func (m *mummy) Enter(e *Enemy, _, to ai.StateID) {
	switch to {
	case stateSpinning:
		m.reload = 0
	case stateUnderground:
		pos := e.Machine.Home
		if e.env != nil {
			if rng := e.env.Rand(); rng != nil {
				pos = pos.Add(common.InsideUnitCircle(rng).Mult(e.Tuning.Or("burrow_radius", 3)))
			}
			if room := e.env.Room(); room != nil {
				pos = room.Clamp(pos, e.Body.Radius)
			}
		}
		e.Body.Pos = pos
		e.Body.Stop()
	}
}
