package combat

// Vitals is the hit point state every combatant owns. Mutate Health only
// through ApplyDamage.
type Vitals struct {
	Health    int
	MaxHealth int
	// Armor halves incoming damage, minimum 1.
	Armor bool
	// IFrames is the remaining invincibility window in seconds.
	IFrames        float64
	IFrameDuration float64
	CapHealing     bool
	Dead           bool

	OnIFrameStart func(v *Vitals)
	OnIFrameEnd   func(v *Vitals)
}

func NewVitals(max int) Vitals {
	if max <= 0 {
		max = 1
	}
	return Vitals{Health: max, MaxHealth: max}
}

func (v *Vitals) Alive() bool {
	return v != nil && !v.Dead && v.Health > 0
}

func (v *Vitals) Invincible() bool {
	return v != nil && v.IFrames > 0
}

// StartIFrames starts or refreshes the invincibility window.
func (v *Vitals) StartIFrames(seconds float64) {
	if v == nil || seconds <= 0 {
		return
	}
	if v.IFrames <= 0 && v.OnIFrameStart != nil {
		v.OnIFrameStart(v)
	}
	v.IFrames = seconds
}

// Tick advances the i-frame timer.
func (v *Vitals) Tick(dt float64) {
	if v == nil || v.IFrames <= 0 {
		return
	}
	v.IFrames -= dt
	if v.IFrames <= 0 {
		v.IFrames = 0
		if v.OnIFrameEnd != nil {
			v.OnIFrameEnd(v)
		}
	}
}

// Revive restores full health, clearing the dead flag.
func (v *Vitals) Revive() {
	if v == nil {
		return
	}
	v.Dead = false
	v.Health = v.MaxHealth
}
