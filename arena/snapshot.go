package arena

import (
	"fmt"

	"github.com/milk9111/rpgcore/player"
	"gopkg.in/yaml.v3"
)

type EnemySnapshot struct {
	ID        int     `yaml:"id"`
	Archetype string  `yaml:"archetype"`
	Tier      int     `yaml:"tier"`
	State     string  `yaml:"state"`
	Health    int     `yaml:"health"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
}

// Snapshot is a read-only view of a run for export and debugging.
type Snapshot struct {
	RunID   string          `yaml:"run_id"`
	Arena   string          `yaml:"arena"`
	Tick    uint64          `yaml:"tick"`
	Seconds float64         `yaml:"seconds"`
	Player  player.Snapshot `yaml:"player"`
	Enemies []EnemySnapshot `yaml:"enemies"`
	Stats   Stats           `yaml:"stats"`
}

func (a *Arena) Snapshot() Snapshot {
	s := Snapshot{
		RunID:   a.RunID,
		Arena:   a.spec.Name,
		Tick:    a.Ticks(),
		Seconds: a.Seconds(),
		Player:  a.player.Snapshot(),
		Stats:   a.stats,
	}
	for _, en := range a.Enemies() {
		s.Enemies = append(s.Enemies, EnemySnapshot{
			ID:        en.ID,
			Archetype: en.Archetype,
			Tier:      en.Tier,
			State:     string(en.State()),
			Health:    en.Health(),
			X:         en.Body.Pos.X,
			Y:         en.Body.Pos.Y,
		})
	}
	return s
}

func (s Snapshot) YAML() ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("arena: marshal snapshot: %w", err)
	}
	return out, nil
}
