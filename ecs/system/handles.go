package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/ecs"
	"github.com/milk9111/rpgcore/ecs/component"
	"github.com/milk9111/rpgcore/enemy"
	"github.com/milk9111/rpgcore/player"
	"github.com/milk9111/rpgcore/weapon"
)

// Handle components point at domain objects that own their own state. They
// live here rather than in ecs/component because player and enemy already
// depend on that package.
var (
	PlayerComponent       = component.NewComponent[player.Player]()
	EnemyComponent        = component.NewComponent[enemy.Enemy]()
	ProjectileComponent   = component.NewComponent[weapon.Projectile]()
	BoomerangComponent    = component.NewComponent[weapon.Boomerang]()
	BombComponent         = component.NewComponent[weapon.Bomb]()
	DestructibleComponent = component.NewComponent[weapon.Destructible]()
	CrackedWallComponent  = component.NewComponent[weapon.CrackedWall]()
	FireTrailComponent    = component.NewComponent[weapon.FireTrail]()
)

const (
	blastTTL  = 0.3
	pickupTTL = 12.0
	// bombBlinkInterval is how often a lit bomb toggles white.
	bombBlinkInterval = 0.2
	pickupRadius      = 0.3
)

func dt(w *ecs.World) float64 {
	if w == nil {
		return 0
	}
	return w.Step()
}

// AddPlayer registers p. Its Body is shared, so movement and physics
// systems act on the player directly.
func AddPlayer(w *ecs.World, p *player.Player) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, PlayerComponent.Kind(), p)
	_ = ecs.Add(w, e, component.BodyComponent.Kind(), &p.Body)
	_ = ecs.Add(w, e, component.IntentComponent.Kind(), &component.Intent{})
	_ = ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	w.PhysicsWorld().SyncActor(e, p.Body.Pos, p.Body.Radius)
	return e
}

// FindPlayer returns the player entity, if any.
func FindPlayer(w *ecs.World) (ecs.Entity, *player.Player, bool) {
	return ecs.First(w, PlayerComponent.Kind())
}

func AddEnemy(w *ecs.World, en *enemy.Enemy) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, EnemyComponent.Kind(), en)
	_ = ecs.Add(w, e, component.BodyComponent.Kind(), &en.Body)
	_ = ecs.Add(w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{})
	w.PhysicsWorld().SyncActor(e, en.Body.Pos, en.Body.Radius)
	w.Events().Push(ecs.Event{Type: ecs.EventSpawned, Data: e})
	return e
}

func AddProjectile(w *ecs.World, p *weapon.Projectile) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, ProjectileComponent.Kind(), p)
	_ = ecs.Add(w, e, component.ProjectileTagComponent.Kind(), &component.ProjectileTag{})
	return e
}

func AddBoomerang(w *ecs.World, b *weapon.Boomerang) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, BoomerangComponent.Kind(), b)
	return e
}

func AddBomb(w *ecs.World, b *weapon.Bomb) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, BombComponent.Kind(), b)
	return e
}

// AddFireTrail leaves a burning patch that expires on its own.
func AddFireTrail(w *ecs.World, f *weapon.FireTrail) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, FireTrailComponent.Kind(), f)
	_ = ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Pos: f.Pos, Radius: f.Radius})
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Remaining: weapon.FireTrailLifetime})
	return e
}

// AddDestructible places breakable clutter as a static query circle.
func AddDestructible(w *ecs.World, d *weapon.Destructible, pos cp.Vector, radius float64) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, DestructibleComponent.Kind(), d)
	_ = ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Pos: pos, Radius: radius})
	_ = ecs.Add(w, e, component.SceneryTagComponent.Kind(), &component.SceneryTag{})
	w.PhysicsWorld().SyncActor(e, pos, radius)
	return e
}

// AddCrackedWall places a wall segment that blocks movement until broken.
func AddCrackedWall(w *ecs.World, c *weapon.CrackedWall, bb cp.BB) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, CrackedWallComponent.Kind(), c)
	_ = ecs.Add(w, e, component.SceneryTagComponent.Kind(), &component.SceneryTag{})
	w.PhysicsWorld().AddBreakable(e, bb)
	return e
}

// AddPickup drops a collectible that expires after a while.
func AddPickup(w *ecs.World, kind component.PickupKind, amount int, pos cp.Vector) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.PickupComponent.Kind(), &component.Pickup{Kind: kind, Amount: max(1, amount)})
	_ = ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Pos: pos, Radius: pickupRadius})
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Remaining: pickupTTL})
	w.Events().Push(ecs.Event{Type: ecs.EventLoot, Data: e})
	return e
}

// Explode resolves an explosion against everything in range and leaves a
// short-lived blast marker for renderers.
func Explode(w *ecs.World, center cp.Vector, radius float64, damage int, faction combat.Faction) []combat.Outcome {
	outs := weapon.Explode(center, radius, damage, faction, NewTargets(w))
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.BlastComponent.Kind(), &component.Blast{Radius: radius})
	_ = ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Pos: center})
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Remaining: blastTTL})
	return outs
}

// Targets answers weapon queries against the world's physics index.
type Targets struct {
	w *ecs.World
}

func NewTargets(w *ecs.World) *Targets {
	return &Targets{w: w}
}

func (t *Targets) Hurtboxes(center cp.Vector, radius float64) []weapon.Hurtbox {
	if t == nil || t.w == nil {
		return nil
	}
	var out []weapon.Hurtbox
	for _, e := range t.w.PhysicsWorld().QueryCircle(center, radius) {
		h, ok := t.hurtbox(e)
		if !ok {
			continue
		}
		if h.Radius > 0 && h.Pos.Distance(center) > radius+h.Radius {
			continue
		}
		out = append(out, h)
	}
	return out
}

func (t *Targets) hurtbox(e ecs.Entity) (weapon.Hurtbox, bool) {
	w := t.w
	if p, ok := ecs.Get(w, e, PlayerComponent.Kind()); ok {
		if !p.Alive() {
			return weapon.Hurtbox{}, false
		}
		return weapon.Hurtbox{Pos: p.Body.Pos, Radius: p.Body.Radius, Faction: combat.FactionPlayer, Target: p}, true
	}
	if en, ok := ecs.Get(w, e, EnemyComponent.Kind()); ok {
		if !en.Alive() {
			return weapon.Hurtbox{}, false
		}
		return weapon.Hurtbox{Pos: en.Body.Pos, Radius: en.Body.Radius, Faction: combat.FactionEnemy, Target: en, Stun: en}, true
	}
	if d, ok := ecs.Get(w, e, DestructibleComponent.Kind()); ok && !d.Broken() {
		body, _ := ecs.Get(w, e, component.BodyComponent.Kind())
		h := weapon.Hurtbox{Faction: combat.FactionNeutral, Scenery: d}
		if body != nil {
			h.Pos, h.Radius = body.Pos, body.Radius
		}
		return h, true
	}
	if c, ok := ecs.Get(w, e, CrackedWallComponent.Kind()); ok && !c.Broken() {
		return weapon.Hurtbox{Faction: combat.FactionNeutral, Scenery: c}, true
	}
	return weapon.Hurtbox{}, false
}

func (t *Targets) SweepWalls(a, b cp.Vector, radius float64) (cp.Vector, weapon.Breakable, bool) {
	if t == nil || t.w == nil {
		return cp.Vector{}, nil, false
	}
	hit, ok := t.w.PhysicsWorld().SweepWalls(a, b, radius)
	if !ok {
		return cp.Vector{}, nil, false
	}
	// stop the centre short of the surface along the path
	point := a.Lerp(b, hit.Alpha)
	if !hit.Breakable.Valid() {
		return point, nil, true
	}
	if c, found := ecs.Get(t.w, hit.Breakable, CrackedWallComponent.Kind()); found {
		return point, c, true
	}
	return point, nil, true
}
