package enemy

import (
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/ai"
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/common"
	"github.com/milk9111/rpgcore/status"
	"github.com/milk9111/rpgcore/weapon"
	"github.com/sirupsen/logrus"
)

// Env is everything an enemy may ask of the world it lives in. The arena
// implements it; tests use a fake.
type Env interface {
	Player() ai.PlayerView
	Room() *common.Room
	Rand() *rand.Rand
	Log() *logrus.Entry

	SpawnProjectile(p *weapon.Projectile)
	// Spawn adds a new enemy at pos. It returns nil when the archetype is
	// unknown.
	Spawn(archetype string, tier int, pos cp.Vector) *Enemy
	// Allies returns live enemies whose centre lies within radius.
	Allies(center cp.Vector, radius float64) []*Enemy
	Explode(center cp.Vector, radius float64, damage int, faction combat.Faction)
	Drop(item string, amount int, pos cp.Vector)

	RewardPlayer(kind status.Kind)
	// StealFromPlayer removes up to n rupees and returns how many it took.
	StealFromPlayer(n int) int
}
