package weapon

import "math/rand"

// Dropper rolls loot on death. A Chance of 1 always drops, 0 never does.
type Dropper struct {
	Chance float64  `yaml:"chance"`
	Drops  []string `yaml:"drops"`
}

// Roll returns the dropped item name, or "" for nothing.
func (d Dropper) Roll(rng *rand.Rand) string {
	if len(d.Drops) == 0 || rng == nil || d.Chance <= 0 {
		return ""
	}
	if rng.Float64() > d.Chance {
		return ""
	}
	return d.Drops[rng.Intn(len(d.Drops))]
}
