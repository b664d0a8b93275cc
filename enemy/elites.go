package enemy

import (
	"math/rand"

	"github.com/milk9111/rpgcore/ai"
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/common"
	"github.com/milk9111/rpgcore/prefabs"
	"github.com/milk9111/rpgcore/status"
	"github.com/sirupsen/logrus"
)

// splitter breaks into split_count copies of the next tier on death. The
// smallest tier drops loot instead.
type splitter struct {
	Base
	tiers int
}

func newSplitter(spec prefabs.ArchetypeSpec, _ *rand.Rand) Behavior {
	return &splitter{tiers: len(spec.Tiers)}
}

func (s *splitter) Died(e *Enemy, _ combat.AttackEvent) {
	next := e.Tier + 1
	if next >= s.tiers || e.env == nil {
		e.DropLoot()
		return
	}
	n := int(e.Tuning.Or("split_count", 2))
	spread := e.Tuning.Get("split_spread")
	rng := e.env.Rand()
	for range n {
		pos := e.Body.Pos
		if rng != nil && spread > 0 {
			pos = pos.Add(common.InsideUnitCircle(rng).Mult(spread))
		}
		e.env.Spawn(e.Archetype, next, pos)
	}
	if e.log != nil {
		e.log.WithFields(logrus.Fields{"tier": next, "count": n}).Debug("enemy: split")
	}
}

// boomShroom lights its fuse on touch instead of biting, then explodes.
// Any lethal hit detonates it early.
type boomShroom struct {
	Base
}

func newBoomShroom(prefabs.ArchetypeSpec, *rand.Rand) Behavior {
	return &boomShroom{}
}

const (
	stateFuse     ai.StateID = "fuse"
	stateDetonate ai.StateID = "detonate"
)

func (*boomShroom) Detonates() bool { return true }

func (*boomShroom) Touched(e *Enemy) bool {
	switch e.State() {
	case stateFuse, stateDetonate:
	default:
		e.Force(stateFuse)
	}
	return true
}

func (*boomShroom) Enter(e *Enemy, _, to ai.StateID) {
	if to == stateDetonate {
		e.SelfDestruct()
	}
}

func (*boomShroom) Died(e *Enemy, _ combat.AttackEvent) {
	if e.env != nil {
		e.env.Explode(
			e.Body.Pos,
			e.Tuning.Or("explosion_radius", 2),
			int(e.Tuning.Or("explosion_damage", 1)),
			combat.FactionEnemy,
		)
	}
	e.DropLoot()
}

// chief buffs nearby allies the first time it sees the player. Its death
// strips every buff it handed out and rewards the player.
type chief struct {
	Base
	kind    status.Kind
	rallied bool
	granted []*status.Buff
}

const stateChase ai.StateID = "chase"

func newChief(_ prefabs.ArchetypeSpec, rng *rand.Rand) Behavior {
	c := &chief{kind: status.EnemyKinds[0]}
	if rng != nil {
		c.kind = status.EnemyKinds[rng.Intn(len(status.EnemyKinds))]
	}
	return c
}

func (c *chief) Enter(e *Enemy, _, to ai.StateID) {
	if to != stateChase || c.rallied || e.env == nil {
		return
	}
	c.rallied = true
	duration := e.Tuning.Get("buff_duration")
	for _, ally := range e.env.Allies(e.Body.Pos, e.Tuning.Or("buff_radius", 12)) {
		if ally == nil || ally == e || !ally.Alive() || ally.Buffs.Active() != nil {
			continue
		}
		if b := ally.Buffs.Grant(ally, c.kind, duration); b != nil {
			c.granted = append(c.granted, b)
		}
	}
	if e.log != nil {
		e.log.WithFields(logrus.Fields{"buff": c.kind.String(), "allies": len(c.granted)}).Info("enemy: chief rallied")
	}
}

func (c *chief) Died(e *Enemy, _ combat.AttackEvent) {
	for _, b := range c.granted {
		b.Remove()
	}
	c.granted = nil
	if e.env != nil {
		kind := status.PlayerKinds[0]
		if rng := e.env.Rand(); rng != nil {
			kind = status.PlayerKinds[rng.Intn(len(status.PlayerKinds))]
		}
		e.env.RewardPlayer(kind)
	}
	e.DropLoot()
}

// Granted returns the buffs still attributed to a chief.
func Granted(e *Enemy) []*status.Buff {
	c, ok := e.Behavior.(*chief)
	if !ok {
		return nil
	}
	return c.granted
}
