package enemy

import (
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/ai"
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/ecs/component"
	"github.com/milk9111/rpgcore/status"
	"github.com/milk9111/rpgcore/weapon"
	"github.com/sirupsen/logrus"
)

const (
	flashTime              = 0.1
	defaultContactCooldown = 1.0
)

var DefaultTint = color.RGBA{R: 229, G: 57, B: 53, A: 255}

// Enemy is one live hostile. Its FSM drives movement, its Behavior supplies
// the archetype-specific hooks, and its health changes only through
// combat.ApplyDamage.
type Enemy struct {
	ID        int
	Archetype string
	Tier      int
	Body      component.Body
	Machine   *ai.Machine
	Tuning    ai.Tuning
	Behavior  Behavior
	Loot      weapon.Dropper
	Buffs     status.Slot

	vitals          combat.Vitals
	stats           status.Stats
	env             Env
	log             *logrus.Entry
	contactCooldown float64
	flash           float64
}

func (e *Enemy) Vitals() *combat.Vitals   { return &e.vitals }
func (e *Enemy) Position() cp.Vector      { return e.Body.Pos }
func (e *Enemy) BuffStats() *status.Stats { return &e.stats }
func (e *Enemy) Detonates() bool          { return e.Behavior.Detonates() }

func (e *Enemy) Shield() *combat.Shield {
	return e.Behavior.Shield(e)
}

func (e *Enemy) Vulnerable() bool {
	return e.Behavior.Vulnerable(e)
}

func (e *Enemy) Flash() {
	e.flash = flashTime
}

func (e *Enemy) Flashing() bool {
	return e.flash > 0
}

func (e *Enemy) Alive() bool {
	return e.vitals.Alive()
}

func (e *Enemy) Health() int {
	return e.vitals.Health
}

func (e *Enemy) State() ai.StateID {
	return e.Machine.State()
}

// Tint is the body colour after buffs.
func (e *Enemy) Tint() color.RGBA {
	return e.stats.Tint
}

// SpeedScale is the movement multiplier buffs apply.
func (e *Enemy) SpeedScale() float64 {
	return e.stats.MoveSpeed
}

func (e *Enemy) Env() Env {
	return e.env
}

func (e *Enemy) Log() *logrus.Entry {
	return e.log
}

// Retune swaps in reloaded tuning without touching the running state.
func (e *Enemy) Retune(t ai.Tuning) {
	e.Tuning = t.Clone()
}

// Context builds the per-tick FSM context.
func (e *Enemy) Context(dt float64) *ai.Context {
	ctx := &ai.Context{
		Machine:    e.Machine,
		Body:       &e.Body,
		Tuning:     e.Tuning,
		Dt:         dt,
		SpeedScale: e.stats.MoveSpeed,
		Log:        e.log,
	}
	if e.env != nil {
		ctx.Player = e.env.Player()
		ctx.Rand = e.env.Rand()
		ctx.Room = e.env.Room()
	}
	return ctx
}

// Force moves the machine to state to outside the tick.
func (e *Enemy) Force(to ai.StateID) {
	e.Machine.Force(e.Context(0), to)
}

// Stun refuses while dead or in a stun-immune state.
func (e *Enemy) Stun(duration float64) bool {
	if !e.Alive() {
		return false
	}
	ok := e.Machine.Stun(e.Context(0), duration)
	if ok && e.log != nil {
		e.log.WithField("duration", duration).Debug("enemy: stunned")
	}
	return ok
}

// Update advances timers, buffs, the behavior hook and the FSM by dt.
func (e *Enemy) Update(dt float64) {
	if !e.Alive() {
		return
	}
	if e.contactCooldown > 0 {
		e.contactCooldown -= dt
	}
	if e.flash > 0 {
		e.flash -= dt
	}
	e.Buffs.Tick(dt)
	if !e.Alive() {
		return
	}

	ctx := e.Context(dt)
	if !e.Machine.Stunned() {
		if e.Body.HitWall && !e.Machine.Committed() {
			e.Machine.Redirect()
		}
		e.Behavior.Think(e, ctx)
		if !e.Alive() {
			return
		}
	}
	e.Machine.Update(ctx)
}

// Contact applies this enemy's touch damage to target. The state decides the
// tuning key; once-per-entry states only land a single hit.
func (e *Enemy) Contact(target combat.Damageable) combat.Outcome {
	ignored := combat.Outcome{Kind: combat.Ignored, Reason: combat.ReasonNoEffect}
	if !e.Alive() || e.Machine.Stunned() || target == nil {
		return ignored
	}
	if e.Behavior.Touched(e) {
		return ignored
	}
	key, once := e.Machine.Def().ContactFor(e.State())
	if key == "" || e.contactCooldown > 0 {
		return ignored
	}
	if once && e.Machine.HasHit {
		return ignored
	}
	amount := int(e.Tuning.Get(key))
	if amount <= 0 {
		return ignored
	}

	out := combat.ApplyDamage(target, e.Behavior.ContactEvent(e, amount))
	if out.Landed() || out.Kind == combat.Blocked {
		e.contactCooldown = e.Tuning.Or("contact_cooldown", defaultContactCooldown)
		if once {
			e.Machine.HasHit = true
		}
	}
	if out.Landed() {
		if f, ok := target.(combat.Flasher); ok {
			f.Flash()
		}
	}
	return out
}

// Die is called once by the damage pipeline.
func (e *Enemy) Die(evt combat.AttackEvent) {
	e.Buffs.Remove()
	e.Body.Stop()
	if e.log != nil {
		e.log.WithFields(logrus.Fields{
			"state":  e.State(),
			"source": evt.Source.String(),
		}).Info("enemy: died")
	}
	e.Behavior.Died(e, evt)
}

// SelfDestruct kills the enemy without a damage source, running the normal
// death hooks.
func (e *Enemy) SelfDestruct() {
	if e.vitals.Dead {
		return
	}
	e.vitals.Health = 0
	e.vitals.Dead = true
	e.Die(combat.Hit(0, combat.SourceEffect))
}

// DropLoot rolls the loot table once.
func (e *Enemy) DropLoot() {
	if e.env == nil {
		return
	}
	if item := e.Loot.Roll(e.env.Rand()); item != "" {
		e.env.Drop(item, 1, e.Body.Pos)
	}
}

func (e *Enemy) fire(kind weapon.ProjectileKind, dir cp.Vector) *weapon.Projectile {
	if e.env == nil || dir == (cp.Vector{}) {
		return nil
	}
	ahead := e.Tuning.Or("spawn_ahead", e.Body.Radius)
	p := weapon.NewProjectile(kind, e.Body.Pos.Add(dir.Mult(ahead)), dir, combat.FactionEnemy)
	e.env.SpawnProjectile(p)
	return p
}
