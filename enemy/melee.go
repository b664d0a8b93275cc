package enemy

import (
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/ai"
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/prefabs"
	"github.com/sirupsen/logrus"
)

// maceman's spin hits all around it, so shields never catch it.
type maceman struct {
	Base
}

func newMaceman(prefabs.ArchetypeSpec, *rand.Rand) Behavior {
	return &maceman{}
}

func (*maceman) ContactEvent(_ *Enemy, amount int) combat.AttackEvent {
	return combat.Hit(amount, combat.SourceContact)
}

// shieldKnight blocks frontal hits with a shield that follows its facing.
// The shield drops while stunned.
type shieldKnight struct {
	Base
	shield combat.Shield
}

func newShieldKnight(spec prefabs.ArchetypeSpec, _ *rand.Rand) Behavior {
	arc := spec.Tuning["shield_arc"]
	if arc <= 0 {
		arc = 120
	}
	return &shieldKnight{shield: combat.Shield{ArcDegrees: arc, Raised: true, Facing: cp.Vector{Y: 1}}}
}

func (k *shieldKnight) Shield(e *Enemy) *combat.Shield {
	k.shield.Raised = !e.Machine.Stunned()
	if e.Body.Facing != (cp.Vector{}) {
		k.shield.Facing = e.Body.Facing
	}
	return &k.shield
}

// flyingSkull stays inside the room and turns around at its edges.
type flyingSkull struct {
	Base
}

func newFlyingSkull(prefabs.ArchetypeSpec, *rand.Rand) Behavior {
	return &flyingSkull{}
}

func (*flyingSkull) Think(e *Enemy, ctx *ai.Context) {
	if ctx.Room == nil {
		return
	}
	inset := e.Tuning.Or("room_inset", 0.5)
	clamped := ctx.Room.Clamp(e.Body.Pos, inset)
	if clamped == e.Body.Pos {
		return
	}
	e.Body.Pos = clamped
	if !e.Machine.Committed() {
		e.Machine.Redirect()
	}
}

// thief dashes past the player to lift rupees, then runs for it. Killing
// it returns the haul.
type thief struct {
	Base
	robbed bool
	stolen int
}

const (
	stateWander ai.StateID = "wander"
	stateSneak  ai.StateID = "sneak"
	stateDash   ai.StateID = "dash"
	stateFlee   ai.StateID = "flee"
	stateEscape ai.StateID = "escape"

	// eventRobbed is emitted every tick the thief holds a haul, so the
	// machine moves it on during its own transition phase.
	eventRobbed ai.EventID = "robbed"
)

func newThief(prefabs.ArchetypeSpec, *rand.Rand) Behavior {
	return &thief{}
}

func (t *thief) Think(e *Enemy, ctx *ai.Context) {
	switch e.State() {
	case stateDash:
		if t.robbed || e.env == nil {
			return
		}
		d, ok := ctx.PlayerDistance()
		if !ok || d >= e.Tuning.Or("steal_range", 0.8) {
			return
		}
		t.robbed = true
		t.stolen = e.env.StealFromPlayer(int(e.Tuning.Or("steal_amount", 5)))
		if e.log != nil {
			e.log.WithField("rupees", t.stolen).Info("enemy: thief stole")
		}
		e.Machine.Emit(eventRobbed)
	case stateWander, stateSneak:
		if t.robbed {
			e.Machine.Emit(eventRobbed)
		}
	}
}

func (t *thief) Died(e *Enemy, _ combat.AttackEvent) {
	if t.stolen > 0 && e.env != nil {
		e.env.Drop("rupee", t.stolen, e.Body.Pos)
		if e.log != nil {
			e.log.WithFields(logrus.Fields{"rupees": t.stolen}).Debug("enemy: thief dropped haul")
		}
		t.stolen = 0
	}
	e.DropLoot()
}
