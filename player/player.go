package player

import (
	"image/color"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/common"
	"github.com/milk9111/rpgcore/ecs/component"
	"github.com/milk9111/rpgcore/prefabs"
	"github.com/milk9111/rpgcore/status"
	"github.com/milk9111/rpgcore/weapon"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMoveSpeed = 5.0
	DefaultMaxHealth = 3
	DefaultIFrames   = 1.0
	DefaultLives     = 3
	DefaultArrows    = 30
	DefaultBombs     = 10
	DefaultFireRate  = 0.3
	DefaultShieldArc = 120.0
	DefaultRadius    = 0.4
	// beamAhead is how far in front of the player sword beams appear.
	beamAhead = 0.6
	flashTime = 0.1
)

var DefaultTint = color.RGBA{R: 33, G: 150, B: 243, A: 255}

// Player is the hero combatant. Its health only changes through
// combat.ApplyDamage.
type Player struct {
	Body   component.Body
	Buffs  status.Slot
	Melee  *weapon.Melee
	Class  Class
	Lives  int
	Rupees int
	Spawn  cp.Vector
	// Aim is the last non-zero attack or movement direction.
	Aim      cp.Vector
	FireRate float64
	GameOver bool
	// BoomerangOut is true until the thrown boomerang is caught.
	BoomerangOut bool

	vitals       combat.Vitals
	stats        status.Stats
	ammo         status.Ammo
	shield       combat.Shield
	baseHealth   int
	fireCooldown float64
	flash        float64
	beamAhead    float64
	unlocks      map[Item]bool
	log          *logrus.Entry
}

// New builds a player from its prefab. A nil spec uses the defaults.
func New(spec *prefabs.PlayerSpec, spawn cp.Vector, log *logrus.Entry) *Player {
	s := prefabs.PlayerSpec{}
	if spec != nil {
		s = *spec
	}
	p := &Player{
		Lives:      or(s.Lives, DefaultLives),
		Spawn:      spawn,
		Aim:        cp.Vector{Y: 1},
		FireRate:   orf(s.FireRate, DefaultFireRate),
		baseHealth: or(s.MaxHealth, DefaultMaxHealth),
		beamAhead:  orf(s.BeamSpawnAhead, beamAhead),
		unlocks:    map[Item]bool{},
		log:        log,
	}
	p.Body = component.Body{Pos: spawn, Facing: cp.Vector{Y: 1}, Radius: orf(s.Radius, DefaultRadius), Solid: true, Bounded: true}
	p.vitals = combat.NewVitals(p.baseHealth)
	p.vitals.IFrameDuration = orf(s.IFrames, DefaultIFrames)
	p.vitals.CapHealing = true
	p.ammo = status.Ammo{
		Arrows:    or(s.Arrows, DefaultArrows),
		MaxArrows: or(s.Arrows, DefaultArrows),
		Bombs:     or(s.Bombs, DefaultBombs),
		MaxBombs:  or(s.Bombs, DefaultBombs),
	}
	p.stats = status.Stats{
		MoveSpeed: orf(s.MoveSpeed, DefaultMoveSpeed),
		Tint:      s.Color.RGBA8(DefaultTint),
		Ammo:      &p.ammo,
	}
	p.shield = combat.Shield{ArcDegrees: orf(s.ShieldArc, DefaultShieldArc), Facing: p.Aim}
	p.Melee = weapon.NewMelee(0, 0, 0, combat.FactionPlayer)
	for _, u := range s.Unlocks {
		p.Unlock(Item(u))
	}

	class, err := ParseClass(s.Class)
	if err != nil && log != nil {
		log.WithError(err).Warn("player: falling back to archer")
	}
	p.setClass(Archer)
	for p.Class < class {
		p.UpgradeClass()
	}
	return p
}

func or(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func orf(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func (p *Player) Vitals() *combat.Vitals   { return &p.vitals }
func (p *Player) Position() cp.Vector      { return p.Body.Pos }
func (p *Player) BuffStats() *status.Stats { return &p.stats }
func (p *Player) Detonates() bool          { return false }
func (p *Player) Shield() *combat.Shield   { return &p.shield }
func (p *Player) Ammo() status.Ammo        { return p.ammo }

func (p *Player) Flash() {
	p.flash = flashTime
}

func (p *Player) Flashing() bool {
	return p.flash > 0
}

// Blinking is the i-frame blink used by renderers.
func (p *Player) Blinking() bool {
	return p.vitals.Invincible()
}

func (p *Player) Health() int    { return p.vitals.Health }
func (p *Player) MaxHealth() int { return p.vitals.MaxHealth }

func (p *Player) FullHealth() bool {
	return p.vitals.Health >= p.vitals.MaxHealth
}

// Die spends a life. With lives left the player respawns in place at the
// spawn point with full health and fresh i-frames.
func (p *Player) Die(evt combat.AttackEvent) {
	p.Buffs.Remove()
	p.Lives--
	p.BoomerangOut = false
	fields := logrus.Fields{"source": evt.Source.String(), "lives": p.Lives}
	if p.Lives <= 0 {
		p.Lives = 0
		p.GameOver = true
		p.Body.Stop()
		p.logInfo("player: game over", fields)
		return
	}
	p.vitals.Revive()
	p.Body.Pos = p.Spawn
	p.Body.Stop()
	p.vitals.StartIFrames(p.vitals.IFrameDuration)
	p.logInfo("player: respawned", fields)
}

func (p *Player) Alive() bool {
	return !p.GameOver && p.vitals.Alive()
}

// Tick advances timers: i-frames, buff, swing, fire cooldown, flash.
func (p *Player) Tick(dt float64) {
	if p == nil {
		return
	}
	p.vitals.Tick(dt)
	p.Buffs.Tick(dt)
	p.Melee.Tick(dt)
	if p.fireCooldown > 0 {
		p.fireCooldown -= dt
	}
	if p.flash > 0 {
		p.flash -= dt
	}
	p.shield.Facing = p.Aim
}

// Move sets velocity along dir at the current (buffed) move speed.
func (p *Player) Move(dir cp.Vector) {
	if !p.Alive() {
		p.Body.Stop()
		return
	}
	d := common.SafeNormalize(dir)
	if d == (cp.Vector{}) {
		p.Body.Stop()
		return
	}
	speed := p.stats.MoveSpeed
	if p.shield.Raised {
		speed /= 2
	}
	p.Body.Vel = d.Mult(speed)
	p.Body.Face(d)
	p.Aim = d
}

// RaiseShield toggles blocking. The shield faces Aim.
func (p *Player) RaiseShield(up bool) {
	p.shield.Raised = up && p.Alive()
}

// Swing starts a melee swing. At full health it also returns the beam to
// launch; the beam deals the same damage as the blade.
func (p *Player) Swing(dir cp.Vector) (ok bool, beam *weapon.Projectile) {
	if !p.Alive() {
		return false, nil
	}
	d := common.SafeNormalize(dir)
	if d == (cp.Vector{}) {
		d = p.Aim
	}
	p.Melee.Damage = p.stats.Damage
	if !p.Melee.Swing(d) {
		return false, nil
	}
	p.Aim = d
	p.Body.Face(d)
	if !p.FullHealth() {
		return true, nil
	}
	kind := p.Class.Stats().Beam
	if kind == 0 {
		kind = weapon.SwordBeam
	}
	beam = weapon.NewProjectile(kind, p.Body.Pos.Add(d.Mult(p.beamAhead)), d, combat.FactionPlayer)
	beam.Damage = p.stats.Damage
	return true, beam
}

func (p *Player) readyToFire(item Item) bool {
	return p.Alive() && p.unlocks[item] && p.fireCooldown <= 0
}

// FireArrow spends an arrow.
func (p *Player) FireArrow(dir cp.Vector) *weapon.Projectile {
	if !p.readyToFire(ItemBow) || p.ammo.Arrows <= 0 {
		return nil
	}
	d := p.aimOr(dir)
	p.ammo.Arrows--
	p.fireCooldown = p.FireRate
	return weapon.NewProjectile(weapon.Arrow, p.Body.Pos.Add(d.Mult(p.Body.Radius)), d, combat.FactionPlayer)
}

// CastFireBolt needs the spell book; it costs nothing.
func (p *Player) CastFireBolt(dir cp.Vector) *weapon.Projectile {
	if !p.readyToFire(ItemBook) {
		return nil
	}
	d := p.aimOr(dir)
	p.fireCooldown = p.FireRate
	return weapon.NewProjectile(weapon.FireBolt, p.Body.Pos.Add(d.Mult(p.Body.Radius)), d, combat.FactionPlayer)
}

// ThrowBoomerang returns nil while one is already in flight.
func (p *Player) ThrowBoomerang(dir cp.Vector) *weapon.Boomerang {
	if !p.Alive() || !p.unlocks[ItemBoomerang] || p.BoomerangOut {
		return nil
	}
	p.BoomerangOut = true
	return weapon.NewBoomerang(p.Body.Pos, p.aimOr(dir))
}

func (p *Player) CatchBoomerang() {
	p.BoomerangOut = false
}

func (p *Player) PlaceBomb() *weapon.Bomb {
	if !p.Alive() || !p.unlocks[ItemBombs] || p.ammo.Bombs <= 0 {
		return nil
	}
	p.ammo.Bombs--
	return weapon.NewBomb(p.Body.Pos, combat.FactionPlayer)
}

func (p *Player) aimOr(dir cp.Vector) cp.Vector {
	d := common.SafeNormalize(dir)
	if d == (cp.Vector{}) {
		return p.Aim
	}
	p.Aim = d
	return d
}

func (p *Player) Unlock(item Item) {
	if item == "" {
		return
	}
	p.unlocks[item] = true
}

func (p *Player) Has(item Item) bool {
	return p.unlocks[item]
}

// UpgradeClass moves to the next tier. It is a no-op at Paladin.
func (p *Player) UpgradeClass() bool {
	next, ok := p.Class.Next()
	if !ok {
		return false
	}
	p.setClass(next)
	p.IncreaseMaxHealth(next.Stats().BonusHealth)
	p.logInfo("player: class upgraded", logrus.Fields{"class": next.String()})
	return true
}

func (p *Player) setClass(c Class) {
	cs := c.Stats()
	p.Class = c
	p.vitals.Armor = cs.Armor
	p.Melee.ArcDegrees = cs.ArcDegrees
	p.Melee.Reach = cs.Reach
	p.stats.Damage = cs.Damage
	if b := p.Buffs.Active(); b != nil && b.Kind == status.Power {
		// keep the buff consistent with the new base damage
		kind, left := b.Kind, b.Remaining
		b.Remove()
		p.stats.Damage = cs.Damage
		p.Buffs.Grant(p, kind, left)
	}
	p.Melee.Damage = p.stats.Damage
}

// IncreaseMaxHealth adds n heart slots and fills them.
func (p *Player) IncreaseMaxHealth(n int) {
	if n <= 0 || !p.Alive() {
		return
	}
	p.vitals.MaxHealth += n
	combat.ApplyDamage(p, combat.Heal(n))
	p.logInfo("player: max health raised", logrus.Fields{"max_health": p.vitals.MaxHealth})
}

// Collect applies a pickup. Hearts heal one point up to max.
func (p *Player) Collect(kind component.PickupKind, amount int) bool {
	if !p.Alive() {
		return false
	}
	if amount <= 0 {
		amount = 1
	}
	switch kind {
	case component.PickupHeart:
		return combat.ApplyDamage(p, combat.Heal(amount)).Kind == combat.Healed
	case component.PickupHeartContainer:
		p.IncreaseMaxHealth(amount)
	case component.PickupRupee:
		p.Rupees += amount
	case component.PickupArrows:
		p.ammo.Arrows = min(p.ammo.MaxArrows, p.ammo.Arrows+amount)
	case component.PickupBombs:
		p.ammo.Bombs = min(p.ammo.MaxBombs, p.ammo.Bombs+amount)
	default:
		return false
	}
	return true
}

// StealRupees takes up to n rupees and returns how many were taken.
func (p *Player) StealRupees(n int) int {
	if n <= 0 {
		return 0
	}
	taken := min(n, p.Rupees)
	p.Rupees -= taken
	return taken
}

// GrantBuff replaces the player's buff.
func (p *Player) GrantBuff(kind status.Kind) *status.Buff {
	b := p.Buffs.Grant(p, kind, status.DefaultDuration)
	p.logInfo("player: buff granted", logrus.Fields{"buff": kind.String()})
	return b
}

// Tint is the render colour including buff tint.
func (p *Player) Tint() color.RGBA {
	return p.stats.Tint
}

func (p *Player) MoveSpeed() float64 {
	return p.stats.MoveSpeed
}

func (p *Player) Damage() int {
	return p.stats.Damage
}

func (p *Player) unlockList() []string {
	out := make([]string, 0, len(p.unlocks))
	for item, ok := range p.unlocks {
		if ok {
			out = append(out, string(item))
		}
	}
	sort.Strings(out)
	return out
}

func (p *Player) logInfo(msg string, fields logrus.Fields) {
	if p.log == nil {
		return
	}
	p.log.WithFields(fields).Info(msg)
}
