package component

// WhiteFlash makes an entity render white while active. The renderer reads
// On; the flash system toggles it every Interval seconds.
type WhiteFlash struct {
	Remaining float64
	Interval  float64
	Timer     float64
	On        bool
}

// HitFlash is the short single flash used for damage feedback.
func HitFlash() *WhiteFlash {
	return &WhiteFlash{Remaining: 0.1, Interval: 0.1, On: true}
}

var WhiteFlashComponent = NewComponent[WhiteFlash]()
