package component

// Blast is the visual remnant of an explosion.
type Blast struct {
	Radius float64
}

var BlastComponent = NewComponent[Blast]()
