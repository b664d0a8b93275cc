package enemy

import (
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/ai"
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/common"
	"github.com/milk9111/rpgcore/prefabs"
	"github.com/milk9111/rpgcore/status"
	"github.com/milk9111/rpgcore/weapon"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 0.0625

type drop struct {
	item   string
	amount int
	pos    cp.Vector
}

type fakeEnv struct {
	reg         *Registry
	player      ai.PlayerView
	room        common.Room
	rng         *rand.Rand
	log         *logrus.Entry
	enemies     []*Enemy
	projectiles []*weapon.Projectile
	drops       []drop
	explosions  int
	rewards     []status.Kind
	rupees      int
}

func newEnv(player cp.Vector) *fakeEnv {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	return &fakeEnv{
		reg:    NewRegistry(),
		player: ai.PlayerView{Found: true, Pos: player},
		room:   common.NewRoom(cp.Vector{X: 12, Y: 8}, 24, 16),
		rng:    rand.New(rand.NewSource(7)),
		log:    logrus.NewEntry(log),
	}
}

func (f *fakeEnv) Player() ai.PlayerView { return f.player }
func (f *fakeEnv) Room() *common.Room    { return &f.room }
func (f *fakeEnv) Rand() *rand.Rand      { return f.rng }
func (f *fakeEnv) Log() *logrus.Entry    { return f.log }

func (f *fakeEnv) SpawnProjectile(p *weapon.Projectile) {
	f.projectiles = append(f.projectiles, p)
}

func (f *fakeEnv) Spawn(archetype string, tier int, pos cp.Vector) *Enemy {
	e, err := f.reg.Spawn(archetype, tier, pos, f)
	if err != nil {
		return nil
	}
	f.enemies = append(f.enemies, e)
	return e
}

func (f *fakeEnv) Allies(center cp.Vector, radius float64) []*Enemy {
	var out []*Enemy
	for _, e := range f.enemies {
		if e.Alive() && e.Body.Pos.Distance(center) <= radius {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeEnv) Explode(cp.Vector, float64, int, combat.Faction) {
	f.explosions++
}

func (f *fakeEnv) Drop(item string, amount int, pos cp.Vector) {
	f.drops = append(f.drops, drop{item: item, amount: amount, pos: pos})
}

func (f *fakeEnv) RewardPlayer(kind status.Kind) {
	f.rewards = append(f.rewards, kind)
}

func (f *fakeEnv) StealFromPlayer(n int) int {
	n = min(n, f.rupees)
	f.rupees -= n
	return n
}

func (f *fakeEnv) spawn(t *testing.T, archetype string, tier int, pos cp.Vector) *Enemy {
	t.Helper()
	e := f.Spawn(archetype, tier, pos)
	require.NotNil(t, e, archetype)
	return e
}

// target is a bare combatant for contact tests.
type target struct {
	vitals combat.Vitals
	pos    cp.Vector
}

func (t *target) Vitals() *combat.Vitals { return &t.vitals }
func (t *target) Position() cp.Vector    { return t.pos }
func (t *target) Die(combat.AttackEvent) {}

func TestEveryArchetypeSpawnsAndRuns(t *testing.T) {
	env := newEnv(cp.Vector{X: 12, Y: 10})
	require.NoError(t, env.reg.LoadAll())

	names, err := prefabs.ArchetypeNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			e := env.spawn(t, name, 0, cp.Vector{X: 12, Y: 6})
			assert.Equal(t, name, e.Archetype)
			assert.True(t, e.Alive())
			for range 32 {
				e.Update(dt)
			}
			assert.NotEmpty(t, e.State())
		})
	}
}

func TestUnknownArchetype(t *testing.T) {
	env := newEnv(cp.Vector{})
	_, err := env.reg.Spawn("dragon", 0, cp.Vector{}, env)
	assert.ErrorIs(t, err, ErrUnknownArchetype)
	assert.Nil(t, env.Spawn("dragon", 0, cp.Vector{}))
}

func TestTwoHitsKillAndLootDropsOnce(t *testing.T) {
	env := newEnv(cp.Vector{X: 20, Y: 15})
	e := env.spawn(t, "slime", 0, cp.Vector{X: 5, Y: 5})
	e.Loot = weapon.Dropper{Chance: 1, Drops: []string{"heart"}}
	require.Equal(t, 2, e.Health())

	out := combat.ApplyDamage(e, combat.Hit(1, combat.SourceMelee))
	assert.Equal(t, combat.Applied, out.Kind)
	assert.False(t, out.Killed)
	assert.Equal(t, 1, e.Health())

	out = combat.ApplyDamage(e, combat.Hit(1, combat.SourceMelee))
	assert.True(t, out.Killed)
	assert.False(t, e.Alive())

	out = combat.ApplyDamage(e, combat.Hit(1, combat.SourceMelee))
	assert.Equal(t, combat.ReasonDead, out.Reason)
	e.SelfDestruct()

	require.Len(t, env.drops, 1)
	assert.Equal(t, "heart", env.drops[0].item)
	assert.Equal(t, cp.Vector{X: 5, Y: 5}, env.drops[0].pos)
}

func TestSplitterSpawnsNextTier(t *testing.T) {
	env := newEnv(cp.Vector{X: 20, Y: 15})
	large := env.spawn(t, "splitter", 0, cp.Vector{X: 10, Y: 8})
	require.Equal(t, 3, large.Health())

	out := combat.ApplyDamage(large, combat.Hit(3, combat.SourceMelee))
	require.True(t, out.Killed)

	var mediums []*Enemy
	for _, e := range env.enemies {
		if e != large {
			mediums = append(mediums, e)
		}
	}
	require.Len(t, mediums, int(large.Tuning.Get("split_count")))
	for _, m := range mediums {
		assert.Equal(t, 1, m.Tier)
		assert.Equal(t, 2, m.Health())
		assert.InDelta(t, 0.4, m.Body.Radius, 1e-9)
		assert.LessOrEqual(t, m.Body.Pos.Distance(large.Body.Pos), large.Tuning.Get("split_spread")+1e-9)
	}
	assert.Empty(t, env.drops)

	small := env.spawn(t, "splitter", 2, cp.Vector{X: 4, Y: 4})
	small.Loot = weapon.Dropper{Chance: 1, Drops: []string{"rupee"}}
	before := len(env.enemies)
	combat.ApplyDamage(small, combat.Hit(1, combat.SourceMelee))
	assert.Len(t, env.enemies, before)
	assert.Len(t, env.drops, 1)
}

func TestSplitterTierClamps(t *testing.T) {
	env := newEnv(cp.Vector{})
	e := env.spawn(t, "splitter", 9, cp.Vector{X: 4, Y: 4})
	assert.Equal(t, 2, e.Tier)
	assert.Equal(t, 1, e.Health())
}

func TestChiefBuffsAlliesAndRevokesOnDeath(t *testing.T) {
	env := newEnv(cp.Vector{X: 5, Y: 9})
	chief := env.spawn(t, "orc_chief", 0, cp.Vector{X: 5, Y: 5})
	allies := []*Enemy{
		env.spawn(t, "slime", 0, cp.Vector{X: 6, Y: 5}),
		env.spawn(t, "slime", 0, cp.Vector{X: 4, Y: 5}),
		env.spawn(t, "bat", 0, cp.Vector{X: 5, Y: 6}),
	}
	far := env.spawn(t, "slime", 0, cp.Vector{X: 5, Y: 40})

	chief.Update(dt)
	require.Equal(t, stateChase, chief.State())
	for _, a := range allies {
		assert.NotNil(t, a.Buffs.Active())
	}
	assert.Nil(t, far.Buffs.Active())
	assert.Nil(t, chief.Buffs.Active())
	assert.Len(t, Granted(chief), 3)

	// re-entering chase does not rally twice
	chief.Force("wander")
	chief.Force(stateChase)
	assert.Len(t, Granted(chief), 3)

	out := combat.ApplyDamage(chief, combat.Hit(chief.Health(), combat.SourceMelee))
	require.True(t, out.Killed)
	for _, a := range allies {
		assert.Nil(t, a.Buffs.Active())
		assert.Equal(t, 1.0, a.SpeedScale())
	}
	assert.Empty(t, Granted(chief))
	require.Len(t, env.rewards, 1)
	assert.Contains(t, status.PlayerKinds, env.rewards[0])
}

func TestChiefSkipsAlreadyBuffedAllies(t *testing.T) {
	env := newEnv(cp.Vector{X: 5, Y: 9})
	chief := env.spawn(t, "orc_chief", 0, cp.Vector{X: 5, Y: 5})
	ally := env.spawn(t, "slime", 0, cp.Vector{X: 6, Y: 5})
	own := ally.Buffs.Grant(ally, status.Regen, 0)

	chief.Update(dt)
	assert.Same(t, own, ally.Buffs.Active())
	assert.Empty(t, Granted(chief))
}

func TestStunIsExclusive(t *testing.T) {
	env := newEnv(cp.Vector{X: 5, Y: 7})
	e := env.spawn(t, "slime", 0, cp.Vector{X: 5, Y: 5})
	e.Update(dt)
	require.Equal(t, ai.StateID("chase"), e.State())

	require.True(t, e.Stun(1))
	assert.Equal(t, ai.StateStunned, e.State())

	victim := &target{vitals: combat.NewVitals(3), pos: cp.Vector{X: 5, Y: 5.5}}
	out := e.Contact(victim)
	assert.False(t, out.Landed())
	assert.Equal(t, 3, victim.vitals.Health)

	for range 4 {
		e.Update(dt)
		assert.Equal(t, ai.StateStunned, e.State())
		assert.Equal(t, cp.Vector{}, e.Body.Vel)
	}

	// a second stun resets rather than stacks
	require.True(t, e.Stun(0.25))
	assert.InDelta(t, 0.25, e.Machine.StunRemaining(), 1e-9)
	for range 3 {
		e.Update(dt)
	}
	assert.Equal(t, ai.StateStunned, e.State())
	e.Update(dt)
	assert.Equal(t, ai.StateID("wander"), e.State())
}

func TestStunRefusedInImmuneState(t *testing.T) {
	env := newEnv(cp.Vector{X: 5, Y: 5.5})
	e := env.spawn(t, "boom_shroom", 0, cp.Vector{X: 5, Y: 5})
	e.Force(stateFuse)
	assert.False(t, e.Stun(1))
	assert.Equal(t, stateFuse, e.State())
}

func TestBoomShroomFusesOnTouchAndExplodes(t *testing.T) {
	env := newEnv(cp.Vector{X: 5, Y: 5.5})
	e := env.spawn(t, "boom_shroom", 0, cp.Vector{X: 5, Y: 5})
	e.Loot = weapon.Dropper{Chance: 1, Drops: []string{"bombs"}}
	victim := &target{vitals: combat.NewVitals(3), pos: env.player.Pos}

	out := e.Contact(victim)
	assert.False(t, out.Landed())
	assert.Equal(t, 3, victim.vitals.Health)
	require.Equal(t, stateFuse, e.State())

	// touching again does not restart the fuse
	for range 19 {
		e.Update(dt)
		e.Contact(victim)
	}
	assert.True(t, e.Alive())
	assert.Zero(t, env.explosions)

	e.Update(dt)
	assert.False(t, e.Alive())
	assert.Equal(t, 1, env.explosions)
	assert.Len(t, env.drops, 1)
}

func TestBoomShroomExplodesWhenKilled(t *testing.T) {
	env := newEnv(cp.Vector{X: 20, Y: 15})
	e := env.spawn(t, "boom_shroom", 0, cp.Vector{X: 5, Y: 5})
	assert.True(t, e.Detonates())

	// heals never land on a detonating enemy
	e.Buffs.Grant(e, status.Fortify, 0)
	assert.Equal(t, 1, e.Health())

	combat.ApplyDamage(e, combat.Hit(1, combat.SourceProjectile))
	assert.Equal(t, 1, env.explosions)
	e.SelfDestruct()
	assert.Equal(t, 1, env.explosions)
}

func TestArcherNeverFleesAndFiresInOneTick(t *testing.T) {
	env := newEnv(cp.Vector{X: 10, Y: 13})
	e := env.spawn(t, "goblin_archer", 0, cp.Vector{X: 10, Y: 8})

	var fired, fled int
	for i := range 240 {
		if (i/40)%2 == 0 {
			env.player.Pos = cp.Vector{X: 10, Y: 13}
		} else {
			env.player.Pos = cp.Vector{X: 10, Y: 11}
		}
		before := len(env.projectiles)
		e.Update(dt)
		shot := len(env.projectiles) > before
		moving := e.Body.Vel.Length() > 1e-9
		assert.False(t, shot && moving, "tick %d", i)
		if shot {
			fired++
		}
		if moving && e.State() == stateCombat {
			fled++
		}
	}
	assert.Positive(t, fired)
	assert.Positive(t, fled)
	for _, p := range env.projectiles {
		assert.Equal(t, weapon.EnemyArrow, p.Kind)
		assert.Equal(t, combat.FactionEnemy, p.Faction)
	}
}

func TestOrcArcherVolleySpreads(t *testing.T) {
	env := newEnv(cp.Vector{X: 10, Y: 14})
	e := env.spawn(t, "orc_archer", 0, cp.Vector{X: 10, Y: 8})

	for range 64 {
		e.Update(dt)
		if len(env.projectiles) > 0 {
			break
		}
	}
	shots := int(e.Tuning.Get("shots"))
	require.Len(t, env.projectiles, shots)
	assert.InDelta(t, e.Tuning.Get("spread")*float64(shots-1), env.projectiles[0].Pos.Distance(env.projectiles[shots-1].Pos), 1e-9)
	for _, p := range env.projectiles {
		assert.InDelta(t, 1, p.Dir.Y, 1e-9)
	}
}

func TestShieldKnightBlocksFromTheFront(t *testing.T) {
	env := newEnv(cp.Vector{X: 20, Y: 15})
	e := env.spawn(t, "shield_knight", 0, cp.Vector{X: 5, Y: 5})

	out := combat.ApplyDamage(e, combat.HitFrom(1, combat.SourceMelee, cp.Vector{X: 5, Y: 6}))
	assert.Equal(t, combat.Blocked, out.Kind)
	assert.Equal(t, 3, e.Health())

	out = combat.ApplyDamage(e, combat.HitFrom(1, combat.SourceMelee, cp.Vector{X: 5, Y: 4}))
	assert.True(t, out.Landed())

	out = combat.ApplyDamage(e, combat.Hit(1, combat.SourceExplosion))
	assert.True(t, out.Landed())
	assert.Equal(t, 1, e.Health())

	require.True(t, e.Stun(1))
	out = combat.ApplyDamage(e, combat.HitFrom(1, combat.SourceMelee, cp.Vector{X: 5, Y: 6}))
	assert.True(t, out.Killed)
}

func TestContactOncePerCommitEntry(t *testing.T) {
	env := newEnv(cp.Vector{X: 5, Y: 6})
	e := env.spawn(t, "shield_knight", 0, cp.Vector{X: 5, Y: 5})
	victim := &target{vitals: combat.NewVitals(5), pos: env.player.Pos}

	e.Force("attack")
	out := e.Contact(victim)
	require.True(t, out.Landed())
	assert.Equal(t, 4, victim.vitals.Health)

	e.contactCooldown = 0
	out = e.Contact(victim)
	assert.False(t, out.Landed())

	e.Force("cooldown")
	e.Force("attack")
	out = e.Contact(victim)
	assert.True(t, out.Landed())
	assert.Equal(t, 3, victim.vitals.Health)
}

func TestContactCooldown(t *testing.T) {
	env := newEnv(cp.Vector{X: 5, Y: 5.5})
	e := env.spawn(t, "slime", 0, cp.Vector{X: 5, Y: 5})
	victim := &target{vitals: combat.NewVitals(5), pos: env.player.Pos}

	assert.True(t, e.Contact(victim).Landed())
	assert.False(t, e.Contact(victim).Landed())
	for range 16 {
		e.Update(dt)
	}
	assert.True(t, e.Contact(victim).Landed())
	assert.Equal(t, 3, victim.vitals.Health)
}

func TestMacemanSpinIgnoresShields(t *testing.T) {
	env := newEnv(cp.Vector{X: 5, Y: 6})
	e := env.spawn(t, "goblin_maceman", 0, cp.Vector{X: 5, Y: 5})
	evt := e.Behavior.ContactEvent(e, 1)
	assert.Nil(t, evt.Origin)

	slime := env.spawn(t, "slime", 0, cp.Vector{X: 1, Y: 1})
	evt = slime.Behavior.ContactEvent(slime, 1)
	require.NotNil(t, evt.Origin)
	assert.Equal(t, slime.Body.Pos, *evt.Origin)
}

func TestMummyHidesUnderground(t *testing.T) {
	env := newEnv(cp.Vector{X: 12, Y: 12})
	e := env.spawn(t, "mummy", 0, cp.Vector{X: 12, Y: 8})

	e.Update(dt)
	require.Equal(t, stateSpinning, e.State())
	assert.NotEmpty(t, env.projectiles)
	for _, p := range env.projectiles {
		assert.Equal(t, weapon.MummyBolt, p.Kind)
	}

	e.Force(stateBurrowing)
	out := combat.ApplyDamage(e, combat.Hit(1, combat.SourceMelee))
	assert.Equal(t, combat.ReasonImmune, out.Reason)
	assert.False(t, e.Stun(1))

	e.Force(stateUnderground)
	assert.LessOrEqual(t, e.Body.Pos.Distance(e.Machine.Home), e.Tuning.Get("burrow_radius")+1e-9)
	out = combat.ApplyDamage(e, combat.Hit(1, combat.SourceMelee))
	assert.Equal(t, combat.ReasonImmune, out.Reason)

	e.Force("emerging")
	out = combat.ApplyDamage(e, combat.Hit(1, combat.SourceMelee))
	assert.True(t, out.Landed())
}

func TestSkeletonMageTeleportsAwayFromPlayer(t *testing.T) {
	env := newEnv(cp.Vector{X: 12, Y: 10})
	e := env.spawn(t, "skeleton_mage", 0, cp.Vector{X: 12, Y: 8})

	e.Update(dt)
	require.Equal(t, stateAttack, e.State())
	e.Update(dt)
	require.Equal(t, stateFadeOut, e.State())
	assert.False(t, e.Vulnerable())

	for range 32 {
		e.Update(dt)
		if e.State() == stateFadeIn {
			break
		}
	}
	require.Equal(t, stateFadeIn, e.State())
	d := e.Body.Pos.Distance(env.player.Pos)
	assert.GreaterOrEqual(t, d, e.Tuning.Get("teleport_min")-1e-9)
	assert.LessOrEqual(t, d, e.Tuning.Get("teleport_max")+1e-9)
	assert.True(t, env.room.Contains(e.Body.Pos))
}

func TestSkeletonMageFiresHomingBolts(t *testing.T) {
	env := newEnv(cp.Vector{X: 12, Y: 13})
	e := env.spawn(t, "skeleton_mage", 0, cp.Vector{X: 12, Y: 8})

	for range 48 {
		e.Update(dt)
	}
	require.NotEmpty(t, env.projectiles)
	assert.Equal(t, weapon.MagicBolt, env.projectiles[0].Kind)
	assert.Positive(t, env.projectiles[0].Homing)
}

func TestThiefStealsAndReturnsHaul(t *testing.T) {
	env := newEnv(cp.Vector{X: 5, Y: 5.5})
	env.rupees = 12
	e := env.spawn(t, "goblin_thief", 0, cp.Vector{X: 5, Y: 5})
	e.Loot = weapon.Dropper{}

	e.Update(dt)
	require.Equal(t, stateSneak, e.State())
	e.Update(dt)
	require.Equal(t, stateDash, e.State())
	e.Update(dt)
	assert.Equal(t, stateFlee, e.State())
	assert.Equal(t, 7, env.rupees)

	// only one theft per life
	e.Force(stateDash)
	e.Update(dt)
	assert.Equal(t, 7, env.rupees)

	combat.ApplyDamage(e, combat.Hit(1, combat.SourceMelee))
	require.Len(t, env.drops, 1)
	assert.Equal(t, drop{item: "rupee", amount: 5, pos: e.Body.Pos}, env.drops[0])
}

func TestThiefTransitionsOncePerTick(t *testing.T) {
	env := newEnv(cp.Vector{X: 5, Y: 5.5})
	env.rupees = 12
	e := env.spawn(t, "goblin_thief", 0, cp.Vector{X: 5, Y: 5})

	var edges [][2]ai.StateID
	logTransition := e.Machine.OnTransition
	e.Machine.OnTransition = func(from, to ai.StateID) {
		edges = append(edges, [2]ai.StateID{from, to})
		if logTransition != nil {
			logTransition(from, to)
		}
	}
	tick := func() int {
		before := len(edges)
		e.Update(dt)
		return len(edges) - before
	}

	require.Equal(t, 1, tick())
	require.Equal(t, 1, tick())
	require.Equal(t, stateDash, e.State())
	assert.Equal(t, 1, tick())
	assert.Equal(t, stateFlee, e.State())

	env.player.Pos = cp.Vector{X: 23, Y: 5}
	assert.Equal(t, 1, tick())
	assert.Equal(t, stateEscape, e.State())
	for range 20 {
		assert.Zero(t, tick())
	}
	assert.Equal(t, [][2]ai.StateID{
		{stateWander, stateSneak},
		{stateSneak, stateDash},
		{stateDash, stateFlee},
		{stateFlee, stateEscape},
	}, edges)

	// a robbed thief knocked back into sneak leaves on the next tick
	e.Force(stateSneak)
	edges = nil
	assert.Equal(t, 1, tick())
	assert.Equal(t, stateEscape, e.State())
}

func TestHasteScalesMovement(t *testing.T) {
	env := newEnv(cp.Vector{X: 5, Y: 8})
	e := env.spawn(t, "slime", 0, cp.Vector{X: 5, Y: 5})
	e.Buffs.Grant(e, status.Haste, 0)
	assert.InDelta(t, 1.5, e.SpeedScale(), 1e-9)

	e.Update(dt)
	e.Update(dt)
	require.Equal(t, ai.StateID("chase"), e.State())
	assert.InDelta(t, e.Tuning.Get("chase_speed")*1.5, e.Body.Vel.Length(), 1e-9)

	e.Buffs.Remove()
	assert.InDelta(t, 1.0, e.SpeedScale(), 1e-9)
}

func TestScriptedArchetypeRuns(t *testing.T) {
	env := newEnv(cp.Vector{X: 12, Y: 10})
	e := env.spawn(t, "wisp", 0, cp.Vector{X: 12, Y: 8})
	require.True(t, e.Machine.Scripted())
	for range 40 {
		e.Update(dt)
	}
	assert.True(t, e.Alive())
	assert.False(t, e.Body.Solid)
}

func TestRetuneKeepsState(t *testing.T) {
	env := newEnv(cp.Vector{X: 5, Y: 7})
	e := env.spawn(t, "slime", 0, cp.Vector{X: 5, Y: 5})
	e.Update(dt)
	require.Equal(t, ai.StateID("chase"), e.State())

	tuning := ai.Tuning{"chase_speed": 4, "chase_range": 5}
	e.Retune(tuning)
	tuning["chase_speed"] = 100
	e.Update(dt)
	assert.Equal(t, ai.StateID("chase"), e.State())
	assert.InDelta(t, 4, e.Body.Vel.Length(), 1e-9)
}
