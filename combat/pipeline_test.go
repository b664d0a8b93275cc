package combat

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dummy struct {
	vitals  Vitals
	pos     cp.Vector
	shield  *Shield
	guarded bool
	deaths  int
}

func (d *dummy) Vitals() *Vitals     { return &d.vitals }
func (d *dummy) Position() cp.Vector { return d.pos }
func (d *dummy) Die(AttackEvent)     { d.deaths++ }

type shieldedDummy struct{ dummy }

func (d *shieldedDummy) Shield() *Shield { return d.shield }

type guardedDummy struct{ dummy }

func (d *guardedDummy) Vulnerable() bool { return !d.guarded }

func TestApplyDamagePlainDefender(t *testing.T) {
	for amount := 1; amount <= 6; amount++ {
		d := &dummy{vitals: NewVitals(10)}
		out := ApplyDamage(d, Hit(amount, SourceMelee))
		assert.Equal(t, Applied, out.Kind)
		assert.Equal(t, 10-amount, d.vitals.Health)
	}
}

func TestArmor(t *testing.T) {
	cases := []struct{ in, want int }{
		{1, 1}, {2, 1}, {3, 1}, {4, 2}, {5, 2}, {9, 4},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Armor(c.in), "amount=%d", c.in)

		d := &dummy{vitals: NewVitals(20)}
		d.vitals.Armor = true
		out := ApplyDamage(d, Hit(c.in, SourceProjectile))
		assert.Equal(t, c.want, out.Amount)
		assert.Equal(t, 20-c.want, d.vitals.Health)
	}
}

func TestHealingSkipsArmorAndCaps(t *testing.T) {
	d := &dummy{vitals: Vitals{Health: 2, MaxHealth: 5, Armor: true, CapHealing: true}}
	out := ApplyDamage(d, Heal(2))
	assert.Equal(t, Healed, out.Kind)
	assert.Equal(t, 4, d.vitals.Health)

	out = ApplyDamage(d, Heal(10))
	assert.Equal(t, 1, out.Amount)
	assert.Equal(t, 5, d.vitals.Health)

	out = ApplyDamage(d, Heal(1))
	assert.Equal(t, Ignored, out.Kind)

	uncapped := &dummy{vitals: NewVitals(3)}
	ApplyDamage(uncapped, Heal(3))
	assert.Equal(t, 6, uncapped.vitals.Health)
}

func TestInvincibilityWindow(t *testing.T) {
	d := &dummy{vitals: NewVitals(5)}
	d.vitals.IFrameDuration = 1

	first := ApplyDamage(d, Hit(1, SourceContact))
	require.Equal(t, Applied, first.Kind)
	assert.Equal(t, 4, d.vitals.Health)
	assert.True(t, d.vitals.Invincible())

	for i := 0; i < 2; i++ {
		out := ApplyDamage(d, Hit(1, SourceContact))
		assert.Equal(t, Ignored, out.Kind)
		assert.Equal(t, ReasonInvincible, out.Reason)
		assert.Equal(t, 4, d.vitals.Health)
	}

	d.vitals.Tick(0.5)
	d.vitals.Tick(0.5)
	assert.False(t, d.vitals.Invincible())
	assert.Equal(t, Applied, ApplyDamage(d, Hit(1, SourceContact)).Kind)
}

func TestNoIFramesWithoutDuration(t *testing.T) {
	d := &dummy{vitals: NewVitals(3)}
	ApplyDamage(d, Hit(1, SourceMelee))
	assert.False(t, d.vitals.Invincible())
	assert.Equal(t, Applied, ApplyDamage(d, Hit(1, SourceMelee)).Kind)
}

func TestDeathFiresOnce(t *testing.T) {
	d := &dummy{vitals: NewVitals(2)}
	first := ApplyDamage(d, Hit(1, SourceMelee))
	assert.False(t, first.Killed)
	second := ApplyDamage(d, Hit(1, SourceMelee))
	assert.True(t, second.Killed)
	third := ApplyDamage(d, Hit(1, SourceMelee))
	assert.Equal(t, ReasonDead, third.Reason)
	assert.Equal(t, 1, d.deaths)
	assert.Equal(t, 0, d.vitals.Health)
}

func TestOverkillClampsToZero(t *testing.T) {
	d := &dummy{vitals: NewVitals(2)}
	ApplyDamage(d, Hit(7, SourceExplosion))
	assert.Equal(t, 0, d.vitals.Health)
	assert.Equal(t, 1, d.deaths)
}

func TestGuardedDefender(t *testing.T) {
	d := &guardedDummy{dummy{vitals: NewVitals(3), guarded: true}}
	out := ApplyDamage(d, Hit(2, SourceMelee))
	assert.Equal(t, ReasonImmune, out.Reason)
	assert.Equal(t, 3, d.vitals.Health)

	d.guarded = false
	assert.Equal(t, Applied, ApplyDamage(d, Hit(2, SourceMelee)).Kind)
}

func TestZeroAndNil(t *testing.T) {
	assert.Equal(t, ReasonNoTarget, ApplyDamage(nil, Hit(1, SourceMelee)).Reason)
	d := &dummy{vitals: NewVitals(3)}
	assert.Equal(t, ReasonNoEffect, ApplyDamage(d, Hit(0, SourceMelee)).Reason)
}

func TestEventFor(t *testing.T) {
	evt, ok := EventFor(Outcome{Kind: Applied, Amount: 2, Killed: true}, Hit(2, SourceMelee), "player", "slime")
	require.True(t, ok)
	assert.Equal(t, EventDeath, evt.Type)
	assert.Equal(t, "slime", evt.Target)

	_, ok = EventFor(Outcome{Kind: Ignored}, Hit(2, SourceMelee), "", "")
	assert.False(t, ok)

	var got []Event
	em := &Emitter{}
	em.Subscribe(func(e Event) { got = append(got, e) })
	em.Emit(evt)
	assert.Len(t, got, 1)
}
