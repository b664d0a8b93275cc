package component

import "github.com/jakecoffman/cp"

// Body is the kinematic state of anything that moves. Velocity is in units
// per second; the movement system integrates it against static geometry.
type Body struct {
	Pos    cp.Vector
	Vel    cp.Vector
	Facing cp.Vector
	Radius float64
	// Solid bodies are stopped by walls. Non-solid bodies (bats, ghosts)
	// pass through.
	Solid bool
	// Bounded bodies are clamped to the room.
	Bounded bool
	// HitWall is set by the movement system when the last step was cut short
	// and cleared by whoever consumes it.
	HitWall bool
}

// Face points Facing along dir when dir is non-zero.
func (b *Body) Face(dir cp.Vector) {
	if b == nil {
		return
	}
	if l := dir.Length(); l > 1e-9 {
		b.Facing = dir.Mult(1 / l)
	}
}

func (b *Body) Stop() {
	if b == nil {
		return
	}
	b.Vel = cp.Vector{}
}

var BodyComponent = NewComponent[Body]()
