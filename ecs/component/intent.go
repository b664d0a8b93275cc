package component

import "github.com/jakecoffman/cp"

// Intent is what the player asked for this tick. Viewers fill it from their
// input devices; the player system consumes the one-shot actions.
type Intent struct {
	Move cp.Vector
	// Aim is the attack direction. Zero means the last movement direction.
	Aim    cp.Vector
	Shield bool

	Swing   bool
	Fire    bool
	Cast    bool
	Throw   bool
	Bomb    bool
	Upgrade bool
}

// ClearActions resets the one-shot actions and keeps held state.
func (i *Intent) ClearActions() {
	if i == nil {
		return
	}
	i.Swing = false
	i.Fire = false
	i.Cast = false
	i.Throw = false
	i.Bomb = false
	i.Upgrade = false
}

var IntentComponent = NewComponent[Intent]()
