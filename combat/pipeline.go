package combat

// Armor returns the damage that gets through armor: half, rounded down,
// never below 1.
func Armor(amount int) int {
	return max(1, amount/2)
}

// ApplyDamage is the only mutator of a combatant's health. Positive amounts
// pass invincibility, shield and armor checks in that order; negative amounts
// heal and skip all three.
func ApplyDamage(d Damageable, evt AttackEvent) Outcome {
	if d == nil {
		return Outcome{Kind: Ignored, Reason: ReasonNoTarget}
	}
	v := d.Vitals()
	if v == nil {
		return Outcome{Kind: Ignored, Reason: ReasonNoTarget}
	}
	if v.Dead {
		return Outcome{Kind: Ignored, Reason: ReasonDead}
	}
	if evt.Amount == 0 {
		return Outcome{Kind: Ignored, Reason: ReasonNoEffect}
	}
	if evt.Amount < 0 {
		return heal(v, -evt.Amount)
	}

	if g, ok := d.(Guarded); ok && !g.Vulnerable() {
		return Outcome{Kind: Ignored, Reason: ReasonImmune}
	}
	if v.Invincible() {
		return Outcome{Kind: Ignored, Reason: ReasonInvincible}
	}
	if evt.Origin != nil {
		if s, ok := d.(Shielded); ok {
			if s.Shield().Blocks(d.Position(), *evt.Origin) {
				return Outcome{Kind: Blocked}
			}
		}
	}

	amount := evt.Amount
	if v.Armor {
		amount = Armor(amount)
	}

	v.Health -= amount
	if v.Health <= 0 {
		v.Health = 0
		v.Dead = true
		d.Die(evt)
		// Die may respawn the owner in place.
		return Outcome{Kind: Applied, Amount: amount, Killed: true}
	}

	if v.IFrameDuration > 0 {
		v.StartIFrames(v.IFrameDuration)
	}
	return Outcome{Kind: Applied, Amount: amount}
}

func heal(v *Vitals, amount int) Outcome {
	before := v.Health
	v.Health += amount
	if v.CapHealing && v.Health > v.MaxHealth {
		v.Health = v.MaxHealth
	}
	gained := v.Health - before
	if gained <= 0 {
		return Outcome{Kind: Ignored, Reason: ReasonNoEffect}
	}
	return Outcome{Kind: Healed, Amount: gained}
}
