package status

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/common"
)

type Kind int

const (
	Haste Kind = iota + 1
	Fortify
	Regen
	Speed
	Power
	Heal
	Resupply
)

// EnemyKinds are granted by elites to their allies.
var EnemyKinds = []Kind{Haste, Fortify, Regen}

// PlayerKinds are granted to the player as rewards.
var PlayerKinds = []Kind{Speed, Power, Heal, Resupply}

const (
	DefaultDuration = 15.0
	RegenInterval   = 3.0
	BlinkWindow     = 3.0

	speedMultiplier = 1.5
	hasteMultiplier = 1.5
	powerMultiplier = 2
	fortifyHeal     = 3
	regenHeal       = 1
)

var kindNames = map[Kind]string{
	Haste:    "haste",
	Fortify:  "fortify",
	Regen:    "regen",
	Speed:    "speed",
	Power:    "power",
	Heal:     "heal",
	Resupply: "resupply",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("status: unknown buff kind %q", s)
}

// Instant kinds apply once and remove themselves in the same call.
func (k Kind) Instant() bool {
	return k == Heal || k == Resupply
}

func (k Kind) tint() (color.RGBA, float64, bool) {
	switch k {
	case Haste:
		return color.RGBA{R: 255, G: 255, B: 77, A: 255}, 0.5, true
	case Fortify:
		return color.RGBA{R: 77, G: 128, B: 255, A: 255}, 0.5, true
	case Regen:
		return color.RGBA{R: 77, G: 255, B: 77, A: 255}, 0.5, true
	case Speed:
		return color.RGBA{R: 255, G: 235, B: 4, A: 255}, 0.3, true
	case Power:
		return color.RGBA{R: 255, G: 0, B: 0, A: 255}, 0.3, true
	default:
		return color.RGBA{}, 0, false
	}
}

// Ammo is only present on owners with an inventory.
type Ammo struct {
	Arrows    int
	MaxArrows int
	Bombs     int
	MaxBombs  int
}

func (a *Ammo) Refill() {
	if a == nil {
		return
	}
	a.Arrows = a.MaxArrows
	a.Bombs = a.MaxBombs
}

// Stats are the values buffs modify. Systems read them every tick.
type Stats struct {
	MoveSpeed float64
	Damage    int
	Tint      color.RGBA
	Ammo      *Ammo
}

// Owner is a combatant that can carry a buff.
type Owner interface {
	combat.Damageable
	BuffStats() *Stats
	// Detonates is true for entities that self-destruct on any hit; heal
	// buffs skip them.
	Detonates() bool
}

// Buff is one active modifier. It keeps the pre-buff values so removal
// restores them exactly.
type Buff struct {
	Kind      Kind
	Duration  float64
	Remaining float64

	owner      Owner
	slot       *Slot
	origSpeed  float64
	origDamage int
	origTint   color.RGBA
	regenTimer float64
	removed    bool
}

// Remove restores the owner's original stats. Calling it again is a no-op.
func (b *Buff) Remove() {
	if b == nil || b.removed {
		return
	}
	b.removed = true
	if stats := b.owner.BuffStats(); stats != nil {
		stats.MoveSpeed = b.origSpeed
		stats.Damage = b.origDamage
		stats.Tint = b.origTint
	}
	if b.slot != nil && b.slot.active == b {
		b.slot.active = nil
	}
}

func (b *Buff) Removed() bool {
	return b == nil || b.removed
}

// Blinking is true during the last seconds of a timed buff.
func (b *Buff) Blinking() bool {
	return b != nil && !b.removed && b.Duration > 0 && b.Remaining <= BlinkWindow
}

func (b *Buff) apply() {
	stats := b.owner.BuffStats()
	switch b.Kind {
	case Haste:
		stats.MoveSpeed *= hasteMultiplier
	case Speed:
		stats.MoveSpeed *= speedMultiplier
	case Power:
		stats.Damage *= powerMultiplier
	case Fortify:
		if !b.owner.Detonates() {
			combat.ApplyDamage(b.owner, combat.Heal(fortifyHeal))
		}
	case Heal:
		if v := b.owner.Vitals(); v != nil {
			combat.ApplyDamage(b.owner, combat.Heal(v.MaxHealth))
		}
	case Resupply:
		stats.Ammo.Refill()
	}
	if tint, t, ok := b.Kind.tint(); ok {
		stats.Tint = common.LerpColor(stats.Tint, tint, t)
	}
}

func (b *Buff) tick(dt float64) {
	if b.Kind == Regen && !b.owner.Detonates() {
		b.regenTimer += dt
		for b.regenTimer >= RegenInterval {
			b.regenTimer -= RegenInterval
			if v := b.owner.Vitals(); v != nil && v.Health < v.MaxHealth {
				combat.ApplyDamage(b.owner, combat.Heal(regenHeal))
			}
		}
	}
	if b.Duration <= 0 {
		return
	}
	b.Remaining -= dt
	if b.Remaining <= 0 {
		b.Remaining = 0
		b.Remove()
	}
}

// Slot holds at most one buff. The zero value is empty and ready to use.
type Slot struct {
	active *Buff
}

func (s *Slot) Active() *Buff {
	if s == nil {
		return nil
	}
	return s.active
}

// Grant replaces the current buff. The old buff is fully restored before the
// new one captures originals. A zero duration lasts until removed.
func (s *Slot) Grant(owner Owner, kind Kind, duration float64) *Buff {
	if s == nil || owner == nil || owner.BuffStats() == nil {
		return nil
	}
	if s.active != nil {
		s.active.Remove()
	}
	stats := owner.BuffStats()
	b := &Buff{
		Kind:       kind,
		Duration:   duration,
		Remaining:  duration,
		owner:      owner,
		slot:       s,
		origSpeed:  stats.MoveSpeed,
		origDamage: stats.Damage,
		origTint:   stats.Tint,
	}
	if kind.Instant() {
		b.Duration, b.Remaining = 0, 0
	}
	s.active = b
	b.apply()
	if kind.Instant() {
		b.Remove()
	}
	return b
}

// Remove clears the slot, restoring originals.
func (s *Slot) Remove() {
	if s == nil || s.active == nil {
		return
	}
	s.active.Remove()
}

func (s *Slot) Tick(dt float64) {
	if s == nil || s.active == nil {
		return
	}
	s.active.tick(dt)
}
