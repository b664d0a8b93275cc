package player

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Snapshot is the plain data an external save routine reads. The player
// never writes it anywhere itself.
type Snapshot struct {
	Health    int      `yaml:"health"`
	MaxHealth int      `yaml:"max_health"`
	Lives     int      `yaml:"lives"`
	Rupees    int      `yaml:"rupees"`
	Arrows    int      `yaml:"arrows"`
	Bombs     int      `yaml:"bombs"`
	Class     string   `yaml:"class"`
	Unlocks   []string `yaml:"unlocks"`
}

func (p *Player) Snapshot() Snapshot {
	return Snapshot{
		Health:    p.vitals.Health,
		MaxHealth: p.vitals.MaxHealth,
		Lives:     p.Lives,
		Rupees:    p.Rupees,
		Arrows:    p.ammo.Arrows,
		Bombs:     p.ammo.Bombs,
		Class:     p.Class.String(),
		Unlocks:   p.unlockList(),
	}
}

// Restore applies a snapshot taken earlier. Health is clamped to the
// restored max.
func (p *Player) Restore(s Snapshot) error {
	class, err := ParseClass(s.Class)
	if err != nil {
		return err
	}
	p.Buffs.Remove()
	p.setClass(Archer)
	p.vitals.MaxHealth = p.baseHealth
	for p.Class < class {
		p.UpgradeClass()
	}
	if s.MaxHealth > 0 {
		p.vitals.MaxHealth = s.MaxHealth
	}
	p.vitals.Health = max(1, min(s.Health, p.vitals.MaxHealth))
	p.vitals.Dead = false
	p.Lives = s.Lives
	p.GameOver = p.Lives <= 0
	p.Rupees = s.Rupees
	p.ammo.Arrows = min(s.Arrows, p.ammo.MaxArrows)
	p.ammo.Bombs = min(s.Bombs, p.ammo.MaxBombs)
	p.unlocks = map[Item]bool{}
	for _, u := range s.Unlocks {
		p.Unlock(Item(u))
	}
	return nil
}

func (s Snapshot) YAML() ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("player: marshal snapshot: %w", err)
	}
	return out, nil
}
