package system

import "github.com/milk9111/rpgcore/ecs"

// Pipeline returns the systems of one simulation tick in run order.
func Pipeline(report *Reporter) []ecs.System {
	return []ecs.System{
		NewPlayerControllerSystem(report),
		NewAIControllerSystem(),
		NewContactSystem(report),
		NewMovementSystem(),
		NewProjectileSystem(report),
		NewBoomerangSystem(report),
		NewBombSystem(report),
		NewFireTrailSystem(report),
		NewWhiteFlashSystem(),
		NewTTLSystem(),
		NewPickupCollectSystem(report),
		NewCleanupSystem(),
		NewPhysicsSyncSystem(),
	}
}
