package arena

import (
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/ai"
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/common"
	"github.com/milk9111/rpgcore/ecs"
	"github.com/milk9111/rpgcore/ecs/component"
	"github.com/milk9111/rpgcore/ecs/system"
	"github.com/milk9111/rpgcore/enemy"
	"github.com/milk9111/rpgcore/status"
	"github.com/milk9111/rpgcore/weapon"
	"github.com/sirupsen/logrus"
)

// env is the arena as enemies see it.
type env struct {
	a *Arena
}

var _ enemy.Env = (*env)(nil)

func (e *env) Player() ai.PlayerView {
	p := e.a.player
	if p == nil || !p.Alive() {
		return ai.PlayerView{}
	}
	return ai.PlayerView{Found: true, Pos: p.Body.Pos}
}

func (e *env) Room() *common.Room { return &e.a.room }
func (e *env) Rand() *rand.Rand   { return e.a.rng }
func (e *env) Log() *logrus.Entry { return e.a.log }

func (e *env) SpawnProjectile(p *weapon.Projectile) {
	if p == nil {
		return
	}
	system.AddProjectile(e.a.world, p)
}

func (e *env) Spawn(archetype string, tier int, pos cp.Vector) *enemy.Enemy {
	en, err := e.a.registry.Spawn(archetype, tier, pos, e)
	if err != nil {
		e.a.log.WithError(err).WithField("archetype", archetype).Warn("arena: spawn failed")
		return nil
	}
	system.AddEnemy(e.a.world, en)
	e.a.log.WithFields(logrus.Fields{
		"enemy":     en.ID,
		"archetype": en.Archetype,
		"tier":      en.Tier,
		"x":         pos.X,
		"y":         pos.Y,
	}).Info("arena: enemy spawned")
	return en
}

func (e *env) Allies(center cp.Vector, radius float64) []*enemy.Enemy {
	w := e.a.world
	var out []*enemy.Enemy
	for _, ent := range w.PhysicsWorld().QueryCircle(center, radius) {
		en, ok := ecs.Get(w, ent, system.EnemyComponent.Kind())
		if !ok || !en.Alive() {
			continue
		}
		if en.Body.Pos.Distance(center) <= radius {
			out = append(out, en)
		}
	}
	return out
}

func (e *env) Explode(center cp.Vector, radius float64, damage int, faction combat.Faction) {
	outs := system.Explode(e.a.world, center, radius, damage, faction)
	reporter := system.NewReporter(e.a.log, &e.a.events)
	reporter.Report("explosion", "", combat.SourceExplosion, outs...)
}

// Drop leaves amount of item on the floor. Items the player cannot collect
// are logged and skipped.
func (e *env) Drop(item string, amount int, pos cp.Vector) {
	if amount <= 0 {
		return
	}
	kind := component.PickupKind(item)
	switch kind {
	case component.PickupHeart, component.PickupHeartContainer, component.PickupRupee, component.PickupArrows, component.PickupBombs:
	default:
		e.a.log.WithField("item", item).Warn("arena: unknown drop")
		return
	}
	system.AddPickup(e.a.world, kind, amount, pos)
}

func (e *env) RewardPlayer(kind status.Kind) {
	if p := e.a.player; p != nil && p.Alive() {
		p.GrantBuff(kind)
	}
}

func (e *env) StealFromPlayer(n int) int {
	if p := e.a.player; p != nil && p.Alive() {
		return p.StealRupees(n)
	}
	return 0
}
