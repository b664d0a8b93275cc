package weapon

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/common"
)

type ProjectileKind int

const (
	Arrow ProjectileKind = iota + 1
	SwordBeam
	SpearBeam
	FireBolt
	MagicBolt
	MummyBolt
	EnemyArrow
	TemplarWave
)

// ProjectileSpec is the fixed tuning of one projectile kind.
type ProjectileSpec struct {
	Name     string
	Speed    float64
	Lifetime float64
	Damage   int
	Radius   float64
	// Pierce keeps flying after hitting a combatant. Walls and scenery
	// still stop it.
	Pierce bool
	// Lethal deals at least the target's remaining health.
	Lethal bool
	// Homing turns towards the homing target at this rate per second.
	Homing float64
	// PassScenery damages destructibles and keeps going. Walls still stop it.
	PassScenery bool
	// Growth widens the radius per second up to MaxRadius.
	Growth    float64
	MaxRadius float64
	// Trail is the interval between fire patches left behind; zero for none.
	Trail float64
}

var projectileSpecs = map[ProjectileKind]ProjectileSpec{
	Arrow:       {Name: "arrow", Speed: 10, Lifetime: 2, Damage: 1, Radius: 0.15, Lethal: true},
	SwordBeam:   {Name: "sword_beam", Speed: 12, Lifetime: 2, Damage: 1, Radius: 0.25},
	SpearBeam:   {Name: "spear_beam", Speed: 16, Lifetime: 1.5, Damage: 3, Radius: 0.2, Pierce: true},
	FireBolt:    {Name: "fire_bolt", Speed: 8, Lifetime: 2, Damage: 1, Radius: 0.2, Trail: 0.1},
	MagicBolt:   {Name: "magic_bolt", Speed: 6, Lifetime: 5, Damage: 1, Radius: 0.2, Homing: 2},
	MummyBolt:   {Name: "mummy_bolt", Speed: 6, Lifetime: 3, Damage: 1, Radius: 0.15},
	EnemyArrow:  {Name: "enemy_arrow", Speed: 7, Lifetime: 3, Damage: 1, Radius: 0.15},
	TemplarWave: {Name: "templar_wave", Speed: 10, Lifetime: 1.5, Damage: 4, Radius: 0.3, Pierce: true, PassScenery: true, Growth: 0.45, MaxRadius: 0.6},
}

func (k ProjectileKind) Spec() ProjectileSpec {
	return projectileSpecs[k]
}

func (k ProjectileKind) String() string {
	if s, ok := projectileSpecs[k]; ok {
		return s.Name
	}
	return fmt.Sprintf("projectile(%d)", int(k))
}

// Projectile flies at constant speed along Dir. Only homing bolts turn.
type Projectile struct {
	Kind    ProjectileKind
	Pos     cp.Vector
	Dir     cp.Vector
	Speed   float64
	Damage  int
	Radius  float64
	Pierce  bool
	Lethal  bool
	Homing  float64
	Faction combat.Faction
	Life    float64
	Dead    bool
	// Trail is the fire patch interval; zero leaves none.
	Trail float64

	hit        hitSet
	trailTimer float64
}

func NewProjectile(kind ProjectileKind, pos, dir cp.Vector, faction combat.Faction) *Projectile {
	spec := kind.Spec()
	return &Projectile{
		Kind:    kind,
		Pos:     pos,
		Dir:     common.SafeNormalize(dir),
		Speed:   spec.Speed,
		Damage:  spec.Damage,
		Radius:  spec.Radius,
		Pierce:  spec.Pierce,
		Lethal:  spec.Lethal,
		Homing:  spec.Homing,
		Faction: faction,
		Life:    spec.Lifetime,
		Trail:   spec.Trail,
		hit:     hitSet{},
	}
}

// DropTrail advances the trail timer and reports whether a fire patch is
// due at the current position.
func (p *Projectile) DropTrail(dt float64) bool {
	if p == nil || p.Trail <= 0 || p.Dead {
		return false
	}
	p.trailTimer -= dt
	if p.trailTimer > 0 {
		return false
	}
	p.trailTimer += p.Trail
	if p.trailTimer <= 0 {
		p.trailTimer = p.Trail
	}
	return true
}

// Step advances the projectile one tick and resolves what it touched.
// home is the homing target, ignored for non-homing kinds.
func (p *Projectile) Step(dt float64, targets Targets, home *cp.Vector) []combat.Outcome {
	if p == nil || p.Dead {
		return nil
	}
	p.Life -= dt
	if p.Life <= 0 {
		p.Dead = true
		return nil
	}
	if p.Homing > 0 && home != nil {
		to := common.Direction(p.Pos, *home)
		turned := common.SafeNormalize(cp.Vector{
			X: common.Lerp(p.Dir.X, to.X, p.Homing*dt),
			Y: common.Lerp(p.Dir.Y, to.Y, p.Homing*dt),
		})
		if turned != (cp.Vector{}) {
			p.Dir = turned
		}
	}
	if spec := p.Kind.Spec(); spec.Growth > 0 && p.Radius < spec.MaxRadius {
		p.Radius = min(spec.MaxRadius, p.Radius+spec.Growth*dt)
	}
	if targets == nil {
		p.Pos = p.Pos.Add(p.Dir.Mult(p.Speed * dt))
		return nil
	}

	from := p.Pos
	to := from.Add(p.Dir.Mult(p.Speed * dt))
	wallPoint, scenery, blocked := targets.SweepWalls(from, to, p.Radius)
	if blocked {
		to = wallPoint
	}

	outs := p.sweep(from, to, targets)
	if p.Dead {
		return outs
	}
	p.Pos = to
	if blocked {
		if scenery != nil && p.Faction == combat.FactionPlayer && !p.hit.has(Hurtbox{Scenery: scenery}) {
			outs = append(outs, breakScenery(scenery, p.Damage))
		}
		p.Dead = true
	}
	return outs
}

// sweep samples the segment so fast projectiles cannot skip over targets.
func (p *Projectile) sweep(from, to cp.Vector, targets Targets) []combat.Outcome {
	var outs []combat.Outcome
	dist := from.Distance(to)
	steps := 1
	if p.Radius > 0 && dist > p.Radius {
		steps = int(dist/p.Radius) + 1
	}
	for i := 1; i <= steps; i++ {
		at := from.Lerp(to, float64(i)/float64(steps))
		for _, h := range targets.Hurtboxes(at, p.Radius) {
			if h.Scenery != nil {
				// scenery stops projectiles, piercing or not, and only
				// player shots break it.
				if h.Scenery.Broken() || p.hit.has(h) {
					continue
				}
				if p.Faction == combat.FactionPlayer {
					p.hit.add(h)
					outs = append(outs, breakScenery(h.Scenery, p.Damage))
				}
				if p.Kind.Spec().PassScenery {
					continue
				}
				p.Pos = at
				p.Dead = true
				return outs
			}
			if h.Target == nil {
				continue
			}
			if p.hit.has(h) || !p.Faction.CanHit(h.Faction) {
				continue
			}
			p.hit.add(h)
			amount := p.Damage
			if p.Lethal {
				if v := h.Target.Vitals(); v != nil && v.Health > amount {
					amount = v.Health
				}
			}
			out := Strike(h, combat.HitFrom(amount, combat.SourceProjectile, from))
			outs = append(outs, out)
			if !p.Pierce {
				p.Pos = at
				p.Dead = true
				return outs
			}
		}
	}
	return outs
}
