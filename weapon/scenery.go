package weapon

// Destructible is breakable clutter (pots, bushes) that may drop loot.
type Destructible struct {
	Health  int
	OnBreak func()
	broken  bool
}

func NewDestructible(health int) *Destructible {
	if health <= 0 {
		health = 1
	}
	return &Destructible{Health: health}
}

// Damage subtracts amount and reports true on the hit that breaks it.
func (d *Destructible) Damage(amount int) bool {
	if d == nil || d.broken || amount <= 0 {
		return false
	}
	d.Health -= amount
	if d.Health > 0 {
		return false
	}
	d.Health = 0
	d.broken = true
	if d.OnBreak != nil {
		d.OnBreak()
	}
	return true
}

func (d *Destructible) Broken() bool {
	return d == nil || d.broken
}

// CrackedWall is a wall segment that opens when broken.
type CrackedWall struct {
	Destructible
}

func NewCrackedWall(health int, onBreak func()) *CrackedWall {
	w := &CrackedWall{Destructible: *NewDestructible(health)}
	w.OnBreak = onBreak
	return w
}
