package player

import (
	"fmt"
	"strings"

	"github.com/milk9111/rpgcore/weapon"
)

type Class int

const (
	Archer Class = iota
	Swordsman
	Spearman
	Paladin
)

// ClassStats are the melee numbers and defences one tier grants.
type ClassStats struct {
	ArcDegrees float64
	Reach      float64
	Damage     int
	Armor      bool
	// BonusHealth is added to max health when the tier is reached.
	BonusHealth int
	// Beam is launched by a swing at full health.
	Beam weapon.ProjectileKind
}

var classStats = map[Class]ClassStats{
	Archer:    {ArcDegrees: 90, Reach: 0.5, Damage: 1, Beam: weapon.SwordBeam},
	Swordsman: {ArcDegrees: 120, Reach: 0.7, Damage: 2, Armor: true, Beam: weapon.SwordBeam},
	Spearman:  {ArcDegrees: 30, Reach: 1.2, Damage: 3, Armor: true, BonusHealth: 1, Beam: weapon.SpearBeam},
	Paladin:   {ArcDegrees: 180, Reach: 0.9, Damage: 4, Armor: true, BonusHealth: 1, Beam: weapon.TemplarWave},
}

var classNames = map[Class]string{
	Archer:    "archer",
	Swordsman: "swordsman",
	Spearman:  "spearman",
	Paladin:   "paladin",
}

func (c Class) Stats() ClassStats {
	return classStats[c]
}

func (c Class) String() string {
	if n, ok := classNames[c]; ok {
		return n
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// Next returns the following tier; Paladin is the last.
func (c Class) Next() (Class, bool) {
	if c >= Paladin {
		return c, false
	}
	return c + 1, true
}

func ParseClass(s string) (Class, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Archer, nil
	}
	for c, n := range classNames {
		if n == s {
			return c, nil
		}
	}
	return Archer, fmt.Errorf("player: unknown class %q", s)
}

type Item string

const (
	ItemBow       Item = "bow"
	ItemBoomerang Item = "boomerang"
	ItemBombs     Item = "bombs"
	ItemBook      Item = "book"
)
