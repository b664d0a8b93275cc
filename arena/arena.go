package arena

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/common"
	"github.com/milk9111/rpgcore/config"
	"github.com/milk9111/rpgcore/ecs"
	"github.com/milk9111/rpgcore/ecs/component"
	"github.com/milk9111/rpgcore/ecs/system"
	"github.com/milk9111/rpgcore/enemy"
	"github.com/milk9111/rpgcore/logger"
	"github.com/milk9111/rpgcore/player"
	"github.com/milk9111/rpgcore/prefabs"
	"github.com/milk9111/rpgcore/weapon"
	"github.com/sirupsen/logrus"
)

// Stats are running totals fed by combat events.
type Stats struct {
	Hits   int `yaml:"hits"`
	Blocks int `yaml:"blocks"`
	Heals  int `yaml:"heals"`
	Kills  int `yaml:"kills"`
}

// Arena owns one room and everything in it. It is not safe for concurrent
// use; viewers call Tick from their own update loop.
type Arena struct {
	RunID string

	cfg        config.Config
	base       *logrus.Logger
	log        *logrus.Entry
	rng        *rand.Rand
	spec       *prefabs.ArenaSpec
	playerSpec *prefabs.PlayerSpec
	registry   *enemy.Registry

	room      common.Room
	world     *ecs.World
	scheduler *ecs.Scheduler
	player    *player.Player
	events    combat.Emitter
	stats     Stats
	env       *env

	watcher *prefabs.Watcher
}

// New loads the arena prefab named in cfg and builds the room. A nil log
// discards output.
func New(cfg config.Config, log *logrus.Logger) (*Arena, error) {
	if log == nil {
		log = logger.Discard()
	}
	spec, err := prefabs.LoadArenaSpec(cfg.Arena)
	if err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}
	playerSpec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}
	registry := enemy.NewRegistry()
	if err := registry.LoadAll(); err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}

	a := &Arena{
		cfg:        cfg,
		base:       log,
		spec:       spec,
		playerSpec: playerSpec,
		registry:   registry,
	}
	a.events.Subscribe(a.count)
	a.Restart()
	return a, nil
}

// Restart rebuilds the room from the loaded prefabs under a new run id.
// The seed is reused, so a restarted run replays identically.
func (a *Arena) Restart() {
	a.RunID = uuid.NewString()
	a.log = logger.Component(a.base, "arena").WithField("run_id", a.RunID)
	a.rng = rand.New(rand.NewSource(a.cfg.Seed))
	a.stats = Stats{}
	a.env = &env{a: a}
	a.build()
	a.log.WithFields(logrus.Fields{
		"arena":   a.spec.Name,
		"seed":    a.cfg.Seed,
		"enemies": a.EnemyCount(),
	}).Info("arena: started")
}

func (a *Arena) build() {
	s := a.spec
	a.room = common.Room{Max: cp.Vector{X: s.Width, Y: s.Height}}
	a.world = ecs.NewWorld()
	a.world.SetStep(a.cfg.Step())
	pw := ecs.NewPhysicsWorld(a.room)
	a.world.SetPhysicsWorld(pw)

	for _, box := range s.Walls {
		pw.AddWall(bb(box))
	}
	for _, cw := range s.CrackedWalls {
		box := cw.BoxSpec
		wall := weapon.NewCrackedWall(cw.Health, func() {
			a.log.WithFields(logrus.Fields{"x": box.X, "y": box.Y}).Info("arena: cracked wall opened")
		})
		system.AddCrackedWall(a.world, wall, bb(box))
	}
	for _, b := range s.Breakables {
		a.addBreakable(b)
	}

	spawn := point(s.PlayerSpawn)
	a.player = player.New(a.playerSpec, spawn, logger.Component(a.base, "player").WithField("run_id", a.RunID))
	system.AddPlayer(a.world, a.player)

	for _, sp := range s.Spawns {
		a.env.Spawn(sp.Archetype, sp.Tier, point(sp.PointSpec))
	}
	for _, pk := range s.Pickups {
		a.env.Drop(pk.Kind, pk.Amount, point(pk.PointSpec))
	}

	reporter := system.NewReporter(logger.Component(a.base, "combat").WithField("run_id", a.RunID), &a.events)
	a.scheduler = ecs.NewScheduler(system.Pipeline(reporter)...)
	a.scheduler.Add(&eventLog{a: a})
}

func (a *Arena) addBreakable(b prefabs.BreakableSpec) {
	pos := point(b.PointSpec)
	d := weapon.NewDestructible(b.Health)
	loot := weapon.Dropper{Chance: b.Loot.Chance, Drops: b.Loot.Drops}
	d.OnBreak = func() {
		if item := loot.Roll(a.rng); item != "" {
			a.env.Drop(item, 1, pos)
		}
	}
	radius := b.Radius
	if radius <= 0 {
		radius = 0.4
	}
	system.AddDestructible(a.world, d, pos, radius)
}

// Tick advances the simulation one fixed step with the given player input.
func (a *Arena) Tick(in component.Intent) {
	a.applyReloads()
	if _, cur, ok := ecs.First(a.world, component.IntentComponent.Kind()); ok {
		*cur = in
	}
	a.scheduler.Update(a.world)
}

func (a *Arena) count(evt combat.Event) {
	switch evt.Type {
	case combat.EventHit:
		a.stats.Hits++
	case combat.EventDeath:
		a.stats.Hits++
		a.stats.Kills++
	case combat.EventBlocked:
		a.stats.Blocks++
	case combat.EventHealed:
		a.stats.Heals++
	}
}

// OnCombat subscribes h to every resolved hit.
func (a *Arena) OnCombat(h combat.EventHandler) {
	a.events.Subscribe(h)
}

func (a *Arena) World() *ecs.World         { return a.world }
func (a *Arena) Player() *player.Player    { return a.player }
func (a *Arena) Room() common.Room         { return a.room }
func (a *Arena) Registry() *enemy.Registry { return a.registry }
func (a *Arena) Stats() Stats              { return a.stats }
func (a *Arena) Log() *logrus.Entry        { return a.log }
func (a *Arena) Config() config.Config     { return a.cfg }
func (a *Arena) Ticks() uint64             { return a.world.Ticks() }
func (a *Arena) Seconds() float64          { return float64(a.world.Ticks()) * a.world.Step() }
func (a *Arena) Env() enemy.Env            { return a.env }
func (a *Arena) Walls() []cp.BB            { return a.world.PhysicsWorld().Walls() }
func (a *Arena) Spec() *prefabs.ArenaSpec  { return a.spec }

// Enemies returns the live enemies in entity order.
func (a *Arena) Enemies() []*enemy.Enemy {
	var out []*enemy.Enemy
	ecs.ForEach(a.world, system.EnemyComponent.Kind(), func(_ ecs.Entity, en *enemy.Enemy) {
		if en.Alive() {
			out = append(out, en)
		}
	})
	return out
}

func (a *Arena) EnemyCount() int {
	return len(a.Enemies())
}

// Cleared reports whether every enemy is dead.
func (a *Arena) Cleared() bool {
	return a.EnemyCount() == 0
}

func bb(b prefabs.BoxSpec) cp.BB {
	return cp.BB{L: b.X, B: b.Y, R: b.X + b.Width, T: b.Y + b.Height}
}

func point(p prefabs.PointSpec) cp.Vector {
	return cp.Vector{X: p.X, Y: p.Y}
}

// eventLog drains the world's event queue at the end of every tick.
type eventLog struct {
	a *Arena
}

func (l *eventLog) Update(w *ecs.World) {
	for _, evt := range w.Events().Drain() {
		switch evt.Type {
		case ecs.EventDestroyed, ecs.EventLoot:
			l.a.log.WithFields(logrus.Fields{"event": evt.Type, "entity": evt.Data}).Debug("arena: event")
		}
	}
}
