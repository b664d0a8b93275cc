package weapon

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/common"
)

const (
	DefaultSwingDuration = 0.3
	DefaultSwingCooldown = 0.4
	// HitboxRadius is the size of the blade tip at the end of Reach.
	HitboxRadius = 0.35
)

// Melee sweeps a blade through ArcDegrees centred on the swing direction
// over SwingDuration. Each target is hit at most once per swing.
type Melee struct {
	ArcDegrees    float64
	Reach         float64
	Damage        int
	SwingDuration float64
	Cooldown      float64
	Faction       combat.Faction

	dir          cp.Vector
	swingLeft    float64
	cooldownLeft float64
	// active stays true for one Sweep after the swing ends so the final
	// slice of the arc is resolved.
	active bool
	hit    hitSet
}

func NewMelee(arc, reach float64, damage int, faction combat.Faction) *Melee {
	return &Melee{
		ArcDegrees:    arc,
		Reach:         reach,
		Damage:        damage,
		SwingDuration: DefaultSwingDuration,
		Cooldown:      DefaultSwingCooldown,
		Faction:       faction,
	}
}

// Swing starts a swing towards dir. It refuses mid-swing, during the
// cooldown, or for a zero direction.
func (m *Melee) Swing(dir cp.Vector) bool {
	if m == nil || !m.Ready() {
		return false
	}
	d := common.SafeNormalize(dir)
	if d == (cp.Vector{}) {
		return false
	}
	m.dir = d
	m.swingLeft = m.SwingDuration
	m.cooldownLeft = 0
	m.active = true
	m.hit = hitSet{}
	return true
}

func (m *Melee) Ready() bool {
	return m != nil && m.swingLeft <= 0 && m.cooldownLeft <= 0
}

func (m *Melee) Swinging() bool {
	return m != nil && m.swingLeft > 0
}

func (m *Melee) Direction() cp.Vector {
	return m.dir
}

// Progress is how far through the arc the blade is, 0 to 1.
func (m *Melee) Progress() float64 {
	if m == nil || m.SwingDuration <= 0 || !m.Swinging() {
		return 1
	}
	return common.Clamp(1-m.swingLeft/m.SwingDuration, 0, 1)
}

// Tip is the current blade position relative to the owner.
func (m *Melee) Tip() cp.Vector {
	half := m.ArcDegrees / 2 * math.Pi / 180
	angle := -half + 2*half*m.Progress()
	return common.Rotate(m.dir, angle).Mult(m.Reach)
}

func (m *Melee) Tick(dt float64) {
	if m == nil {
		return
	}
	if m.swingLeft > 0 {
		m.swingLeft -= dt
		if m.swingLeft <= 0 {
			m.swingLeft = 0
			m.cooldownLeft = m.Cooldown
		}
		return
	}
	m.active = false
	if m.cooldownLeft > 0 {
		m.cooldownLeft -= dt
	}
}

// Sweep resolves the part of the arc covered so far against everything in
// reach. Call it after Tick on every swinging tick.
func (m *Melee) Sweep(owner cp.Vector, targets Targets) []combat.Outcome {
	if m == nil || targets == nil || !m.active {
		return nil
	}
	if !m.Swinging() {
		defer func() { m.active = false }()
	}
	half := m.ArcDegrees / 2
	covered := -half + m.ArcDegrees*m.Progress()
	var outs []combat.Outcome
	for _, h := range targets.Hurtboxes(owner, m.Reach+HitboxRadius) {
		if m.hit.has(h) || !m.Faction.CanHit(h.Faction) {
			continue
		}
		if !m.inArc(owner, h, half, covered) {
			continue
		}
		m.hit.add(h)
		outs = append(outs, Strike(h, combat.HitFrom(m.Damage, combat.SourceMelee, owner)))
	}
	return outs
}

func (m *Melee) inArc(owner cp.Vector, h Hurtbox, half, covered float64) bool {
	to := h.Pos.Sub(owner)
	if to.Length() <= h.Radius {
		return true
	}
	angle := math.Atan2(m.dir.Cross(to), m.dir.Dot(to)) * 180 / math.Pi
	return angle >= -half-1e-9 && angle <= covered+1e-9
}
