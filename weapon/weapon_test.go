package weapon

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/combat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dummy struct {
	vitals  combat.Vitals
	pos     cp.Vector
	deaths  int
	flashes int
	stuns   []float64
	immune  bool
	shield  *combat.Shield
}

func newDummy(health int, pos cp.Vector) *dummy {
	return &dummy{vitals: combat.NewVitals(health), pos: pos}
}

func (d *dummy) Vitals() *combat.Vitals     { return &d.vitals }
func (d *dummy) Position() cp.Vector        { return d.pos }
func (d *dummy) Die(evt combat.AttackEvent) { d.deaths++ }
func (d *dummy) Flash()                     { d.flashes++ }

func (d *dummy) Stun(duration float64) bool {
	if d.immune {
		return false
	}
	d.stuns = append(d.stuns, duration)
	return true
}

type shieldDummy struct {
	*dummy
}

func (d shieldDummy) Shield() *combat.Shield { return d.shield }

// fakeWorld has hurtboxes and an optional vertical wall at x = wallX.
type fakeWorld struct {
	boxes   []Hurtbox
	wallX   float64
	hasWall bool
	scenery Breakable
}

func (w *fakeWorld) add(d combat.Damageable, radius float64, faction combat.Faction) {
	h := Hurtbox{Pos: d.Position(), Radius: radius, Faction: faction, Target: d}
	if s, ok := d.(combat.Stunnable); ok {
		h.Stun = s
	}
	w.boxes = append(w.boxes, h)
}

func (w *fakeWorld) Hurtboxes(center cp.Vector, radius float64) []Hurtbox {
	var out []Hurtbox
	for _, h := range w.boxes {
		if h.Target != nil && !h.Target.Vitals().Alive() {
			continue
		}
		if h.Pos.Distance(center) <= radius+h.Radius {
			out = append(out, h)
		}
	}
	return out
}

func (w *fakeWorld) SweepWalls(a, b cp.Vector, radius float64) (cp.Vector, Breakable, bool) {
	if !w.hasWall || b.X+radius < w.wallX || a.X+radius >= w.wallX {
		return cp.Vector{}, nil, false
	}
	t := (w.wallX - radius - a.X) / (b.X - a.X)
	return a.Lerp(b, t), w.scenery, true
}

func TestMeleeHitsEachTargetOncePerSwing(t *testing.T) {
	target := newDummy(5, cp.Vector{X: 0.6})
	world := &fakeWorld{}
	world.add(target, 0.4, combat.FactionEnemy)

	m := NewMelee(120, 0.7, 1, combat.FactionPlayer)
	require.True(t, m.Swing(cp.Vector{X: 1}))

	hits := 0
	for i := 0; i < 4; i++ {
		m.Tick(0.125)
		hits += len(m.Sweep(cp.Vector{}, world))
	}
	assert.Equal(t, 1, hits)
	assert.Equal(t, 4, target.vitals.Health)
	assert.Equal(t, 1, target.flashes)
	assert.Empty(t, m.Sweep(cp.Vector{}, world))

	for i := 0; i < 4; i++ {
		m.Tick(0.125)
	}
	require.True(t, m.Swing(cp.Vector{X: 1}))
	m.Tick(0.5)
	m.Sweep(cp.Vector{}, world)
	assert.Equal(t, 3, target.vitals.Health)
}

func TestMeleeRefusesWhileBusy(t *testing.T) {
	m := NewMelee(90, 0.5, 1, combat.FactionPlayer)
	assert.False(t, m.Swing(cp.Vector{}))
	require.True(t, m.Swing(cp.Vector{Y: 1}))
	assert.False(t, m.Swing(cp.Vector{Y: 1}))

	m.Tick(0.3)
	assert.False(t, m.Swinging())
	assert.False(t, m.Swing(cp.Vector{Y: 1}), "cooling down")
	m.Tick(0.5)
	assert.True(t, m.Ready())
}

func TestMeleeArc(t *testing.T) {
	cases := []struct {
		name    string
		degrees float64
		hit     bool
	}{
		{"ahead", 0, true},
		{"inside arc", 40, true},
		{"inside arc other side", -40, true},
		{"outside arc", 60, false},
		{"behind", 180, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rad := tc.degrees * math.Pi / 180
			target := newDummy(3, cp.Vector{X: math.Cos(rad), Y: math.Sin(rad)}.Mult(0.8))
			world := &fakeWorld{}
			world.add(target, 0.1, combat.FactionEnemy)

			m := NewMelee(90, 0.7, 1, combat.FactionPlayer)
			require.True(t, m.Swing(cp.Vector{X: 1}))
			m.Tick(0.3)
			m.Sweep(cp.Vector{}, world)
			if tc.hit {
				assert.Equal(t, 2, target.vitals.Health)
			} else {
				assert.Equal(t, 3, target.vitals.Health)
			}
		})
	}
}

func TestMeleeSweepsProgressively(t *testing.T) {
	// 40 degrees off the swing is only reached late in the sweep
	rad := 40 * math.Pi / 180
	target := newDummy(3, cp.Vector{X: math.Cos(rad), Y: math.Sin(rad)}.Mult(0.8))
	world := &fakeWorld{}
	world.add(target, 0.05, combat.FactionEnemy)

	m := NewMelee(90, 0.7, 1, combat.FactionPlayer)
	m.SwingDuration = 1
	require.True(t, m.Swing(cp.Vector{X: 1}))
	m.Tick(0.25)
	m.Sweep(cp.Vector{}, world)
	assert.Equal(t, 3, target.vitals.Health)

	m.Tick(0.75)
	m.Sweep(cp.Vector{}, world)
	assert.Equal(t, 2, target.vitals.Health)
}

func TestMeleeIsBlockedByFacingShield(t *testing.T) {
	knight := shieldDummy{newDummy(3, cp.Vector{X: 0.6})}
	knight.shield = &combat.Shield{ArcDegrees: 120, Raised: true, Facing: cp.Vector{X: -1}}
	world := &fakeWorld{}
	world.add(knight, 0.4, combat.FactionEnemy)

	m := NewMelee(120, 0.7, 1, combat.FactionPlayer)
	require.True(t, m.Swing(cp.Vector{X: 1}))
	m.Tick(0.3)
	outs := m.Sweep(cp.Vector{}, world)
	require.Len(t, outs, 1)
	assert.Equal(t, combat.Blocked, outs[0].Kind)
	assert.Equal(t, 3, knight.vitals.Health)
}

func TestMeleeIgnoresOwnFaction(t *testing.T) {
	ally := newDummy(3, cp.Vector{X: 0.6})
	world := &fakeWorld{}
	world.add(ally, 0.4, combat.FactionPlayer)

	m := NewMelee(120, 0.7, 1, combat.FactionPlayer)
	require.True(t, m.Swing(cp.Vector{X: 1}))
	m.Tick(0.3)
	assert.Empty(t, m.Sweep(cp.Vector{}, world))
}

func TestProjectileStopsAtFirstTarget(t *testing.T) {
	a := newDummy(3, cp.Vector{X: 1})
	b := newDummy(3, cp.Vector{X: 1.5})
	world := &fakeWorld{}
	world.add(a, 0.3, combat.FactionEnemy)
	world.add(b, 0.3, combat.FactionEnemy)

	p := NewProjectile(SwordBeam, cp.Vector{}, cp.Vector{X: 1}, combat.FactionPlayer)
	for i := 0; i < 10 && !p.Dead; i++ {
		p.Step(0.125, world, nil)
	}
	assert.True(t, p.Dead)
	assert.Equal(t, 2, a.vitals.Health)
	assert.Equal(t, 3, b.vitals.Health)
}

func TestPierceBeamPassesCombatantsButStopsAtWalls(t *testing.T) {
	a := newDummy(5, cp.Vector{X: 1})
	b := newDummy(5, cp.Vector{X: 2})
	c := newDummy(5, cp.Vector{X: 4})
	world := &fakeWorld{wallX: 3, hasWall: true}
	world.add(a, 0.3, combat.FactionEnemy)
	world.add(b, 0.3, combat.FactionEnemy)
	world.add(c, 0.3, combat.FactionEnemy)

	p := NewProjectile(SpearBeam, cp.Vector{}, cp.Vector{X: 1}, combat.FactionPlayer)
	for i := 0; i < 20 && !p.Dead; i++ {
		p.Step(0.0625, world, nil)
	}
	assert.True(t, p.Dead)
	assert.Equal(t, 2, a.vitals.Health)
	assert.Equal(t, 2, b.vitals.Health)
	assert.Equal(t, 5, c.vitals.Health)
	assert.Less(t, p.Pos.X, 3.0)
}

func TestPierceBeamStopsOnScenery(t *testing.T) {
	pot := NewDestructible(1)
	world := &fakeWorld{wallX: 2, hasWall: true, scenery: pot}

	p := NewProjectile(SpearBeam, cp.Vector{}, cp.Vector{X: 1}, combat.FactionPlayer)
	for i := 0; i < 20 && !p.Dead; i++ {
		p.Step(0.0625, world, nil)
	}
	assert.True(t, p.Dead)
	assert.True(t, pot.Broken())
}

func TestEnemyProjectileDoesNotBreakScenery(t *testing.T) {
	pot := NewDestructible(1)
	world := &fakeWorld{wallX: 2, hasWall: true, scenery: pot}

	p := NewProjectile(EnemyArrow, cp.Vector{}, cp.Vector{X: 1}, combat.FactionEnemy)
	for i := 0; i < 20 && !p.Dead; i++ {
		p.Step(0.0625, world, nil)
	}
	assert.True(t, p.Dead)
	assert.False(t, pot.Broken())
}

func TestProjectilesBreakDestructiblesInOpenSpace(t *testing.T) {
	cases := []struct {
		kind    ProjectileKind
		faction combat.Faction
		breaks  bool
	}{
		{SwordBeam, combat.FactionPlayer, true},
		{SpearBeam, combat.FactionPlayer, true},
		{Arrow, combat.FactionPlayer, true},
		{EnemyArrow, combat.FactionEnemy, false},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			pot := NewDestructible(1)
			world := &fakeWorld{boxes: []Hurtbox{{Pos: cp.Vector{X: 4}, Radius: 0.4, Faction: combat.FactionNeutral, Scenery: pot}}}

			p := NewProjectile(tc.kind, cp.Vector{}, cp.Vector{X: 1}, tc.faction)
			for i := 0; i < 40 && !p.Dead; i++ {
				p.Step(0.0625, world, nil)
			}
			assert.True(t, p.Dead)
			assert.Less(t, p.Pos.X, 4.5)
			assert.Equal(t, tc.breaks, pot.Broken())
		})
	}
}

func TestArrowIsLethal(t *testing.T) {
	target := newDummy(4, cp.Vector{X: 1})
	world := &fakeWorld{}
	world.add(target, 0.3, combat.FactionEnemy)

	p := NewProjectile(Arrow, cp.Vector{}, cp.Vector{X: 1}, combat.FactionPlayer)
	for i := 0; i < 10 && !p.Dead; i++ {
		p.Step(0.0625, world, nil)
	}
	assert.Equal(t, 0, target.vitals.Health)
	assert.Equal(t, 1, target.deaths)
}

func TestProjectileExpires(t *testing.T) {
	p := NewProjectile(MummyBolt, cp.Vector{}, cp.Vector{X: 1}, combat.FactionEnemy)
	for i := 0; i < 11; i++ {
		p.Step(0.25, nil, nil)
	}
	assert.False(t, p.Dead)
	p.Step(0.25, nil, nil)
	assert.True(t, p.Dead)
}

func TestMagicBoltHomes(t *testing.T) {
	p := NewProjectile(MagicBolt, cp.Vector{}, cp.Vector{X: 1}, combat.FactionEnemy)
	home := cp.Vector{X: 0, Y: 10}
	p.Step(0.125, nil, &home)
	assert.Greater(t, p.Dir.Y, 0.0)
	assert.InDelta(t, 1, p.Dir.Length(), 1e-9)
}

func TestExplosionHitsEachTargetOnce(t *testing.T) {
	a := newDummy(3, cp.Vector{X: 1})
	b := newDummy(3, cp.Vector{X: 5})
	world := &fakeWorld{}
	world.add(a, 0.3, combat.FactionEnemy)
	world.add(a, 0.3, combat.FactionEnemy)
	world.add(b, 0.3, combat.FactionEnemy)

	outs := Explode(cp.Vector{}, 2, 2, combat.FactionPlayer, world)
	assert.Len(t, outs, 1)
	assert.Equal(t, 1, a.vitals.Health)
	assert.Equal(t, 3, b.vitals.Health)
}

func TestExplosionIgnoresShields(t *testing.T) {
	knight := shieldDummy{newDummy(3, cp.Vector{X: 1})}
	knight.shield = &combat.Shield{ArcDegrees: 360, Raised: true, Facing: cp.Vector{X: -1}}
	world := &fakeWorld{}
	world.add(knight, 0.3, combat.FactionEnemy)

	Explode(cp.Vector{}, 2, 2, combat.FactionPlayer, world)
	assert.Equal(t, 1, knight.vitals.Health)
}

func TestExplosionRespectsFaction(t *testing.T) {
	hero := newDummy(3, cp.Vector{X: 1})
	world := &fakeWorld{}
	world.add(hero, 0.3, combat.FactionPlayer)

	Explode(cp.Vector{}, 2, 2, combat.FactionPlayer, world)
	assert.Equal(t, 3, hero.vitals.Health)
	Explode(cp.Vector{}, 2, 1, combat.FactionEnemy, world)
	assert.Equal(t, 2, hero.vitals.Health)
}

func TestBoomerangStunsOrChips(t *testing.T) {
	slime := newDummy(3, cp.Vector{X: 1})
	bat := newDummy(1, cp.Vector{X: 1.1, Y: 0.1})
	bat.immune = true
	world := &fakeWorld{}
	world.add(slime, 0.3, combat.FactionEnemy)
	world.add(bat, 0.3, combat.FactionEnemy)

	b := NewBoomerang(cp.Vector{}, cp.Vector{X: 1})
	owner := cp.Vector{}
	for i := 0; i < 100 && !b.Caught; i++ {
		b.Step(0.0625, owner, world)
	}
	assert.True(t, b.Caught)
	assert.Equal(t, []float64{2}, slime.stuns)
	assert.Equal(t, 3, slime.vitals.Health)
	assert.Equal(t, 1, bat.deaths)
}

func TestBoomerangTurnsAtMaxDistance(t *testing.T) {
	b := NewBoomerang(cp.Vector{}, cp.Vector{X: 1})
	for i := 0; i < 8; i++ {
		b.Step(0.0625, cp.Vector{}, nil)
	}
	assert.True(t, b.Returning)
	assert.InDelta(t, 6, b.Pos.X, 1e-9)
}

func TestBoomerangBouncesOffWalls(t *testing.T) {
	world := &fakeWorld{wallX: 2, hasWall: true}
	b := NewBoomerang(cp.Vector{}, cp.Vector{X: 1})
	for i := 0; i < 4; i++ {
		b.Step(0.0625, cp.Vector{}, world)
	}
	assert.True(t, b.Returning)
	assert.LessOrEqual(t, b.Pos.X, 2.0)
}

func TestBombFuse(t *testing.T) {
	b := NewBomb(cp.Vector{}, combat.FactionPlayer)
	fired := 0
	for i := 0; i < 30; i++ {
		if b.Tick(0.125) {
			fired++
		}
		if i == 7 {
			assert.True(t, b.Blinking())
		}
	}
	assert.Equal(t, 1, fired)
	assert.True(t, b.Exploded)
}

func TestDestructibleBreaksOnce(t *testing.T) {
	breaks := 0
	wall := NewCrackedWall(2, func() { breaks++ })
	assert.False(t, wall.Damage(1))
	assert.True(t, wall.Damage(5))
	assert.False(t, wall.Damage(1))
	assert.Equal(t, 1, breaks)
	assert.True(t, wall.Broken())
}

func TestDropper(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	always := Dropper{Chance: 1, Drops: []string{"heart", "rupee"}}
	never := Dropper{Chance: 0, Drops: []string{"heart"}}
	for i := 0; i < 20; i++ {
		assert.Contains(t, []string{"heart", "rupee"}, always.Roll(rng))
		assert.Empty(t, never.Roll(rng))
	}
	assert.Empty(t, Dropper{Chance: 1}.Roll(rng))
}

func TestTemplarWavePassesThroughScenery(t *testing.T) {
	pot := NewDestructible(1)
	front := newDummy(10, cp.Vector{X: 3})
	back := newDummy(10, cp.Vector{X: 5})
	world := &fakeWorld{wallX: 8, hasWall: true}
	world.boxes = append(world.boxes, Hurtbox{Pos: cp.Vector{X: 2}, Radius: 0.4, Faction: combat.FactionNeutral, Scenery: pot})
	world.add(front, 0.4, combat.FactionEnemy)
	world.add(back, 0.4, combat.FactionEnemy)

	p := NewProjectile(TemplarWave, cp.Vector{}, cp.Vector{X: 1}, combat.FactionPlayer)
	for i := 0; i < 40 && !p.Dead; i++ {
		p.Step(0.0625, world, nil)
	}
	assert.True(t, p.Dead)
	assert.True(t, pot.Broken())
	assert.Equal(t, 6, front.vitals.Health)
	assert.Equal(t, 6, back.vitals.Health)
	assert.Less(t, p.Pos.X, 8.0)
	assert.Greater(t, p.Radius, 0.3)
	assert.LessOrEqual(t, p.Radius, 0.6)
}

func TestTemplarWaveCarriesOrigin(t *testing.T) {
	d := newDummy(10, cp.Vector{X: 3})
	d.shield = &combat.Shield{ArcDegrees: 120, Raised: true, Facing: cp.Vector{X: -1}}
	world := &fakeWorld{}
	world.add(shieldDummy{d}, 0.4, combat.FactionEnemy)

	p := NewProjectile(TemplarWave, cp.Vector{}, cp.Vector{X: 1}, combat.FactionPlayer)
	var outs []combat.Outcome
	for i := 0; i < 20 && !p.Dead; i++ {
		outs = append(outs, p.Step(0.0625, world, nil)...)
	}
	require.Len(t, outs, 1)
	assert.Equal(t, combat.Blocked, outs[0].Kind)
	assert.Equal(t, 10, d.vitals.Health)
}

func TestFireTrailBurnsOncePerInterval(t *testing.T) {
	enemy := newDummy(10, cp.Vector{X: 0.2})
	ally := newDummy(10, cp.Vector{Y: -0.2})
	pot := NewDestructible(3)
	world := &fakeWorld{}
	world.add(enemy, 0.3, combat.FactionEnemy)
	world.add(ally, 0.3, combat.FactionPlayer)
	world.boxes = append(world.boxes, Hurtbox{Pos: cp.Vector{Y: 0.2}, Radius: 0.3, Faction: combat.FactionNeutral, Scenery: pot})

	fire := NewFireTrail(cp.Vector{}, combat.FactionPlayer)
	burns := 0
	for range 12 {
		burns += len(fire.Tick(0.125, world))
	}
	// ticks 1, 5 and 9 burn the enemy and the pot
	assert.Equal(t, 6, burns)
	assert.Equal(t, 7, enemy.vitals.Health)
	assert.Equal(t, 10, ally.vitals.Health)
	assert.True(t, pot.Broken())
}

func TestFireBoltLeavesTrail(t *testing.T) {
	bolt := NewProjectile(FireBolt, cp.Vector{}, cp.Vector{X: 1}, combat.FactionPlayer)
	assert.True(t, bolt.DropTrail(0.0625))

	drops := 1
	for range 15 {
		if bolt.DropTrail(0.0625) {
			drops++
		}
	}
	assert.InDelta(t, 10, drops, 1)

	arrow := NewProjectile(Arrow, cp.Vector{}, cp.Vector{X: 1}, combat.FactionPlayer)
	assert.False(t, arrow.DropTrail(1))
}
