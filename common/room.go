package common

import "github.com/jakecoffman/cp"

// Room is an axis-aligned play area supplied by whoever owns room layout.
type Room struct {
	Min, Max cp.Vector
}

func NewRoom(center cp.Vector, width, height float64) Room {
	half := cp.Vector{X: width / 2, Y: height / 2}
	return Room{Min: center.Sub(half), Max: center.Add(half)}
}

func (r Room) Center() cp.Vector {
	return r.Min.Add(r.Max).Mult(0.5)
}

func (r Room) Width() float64  { return r.Max.X - r.Min.X }
func (r Room) Height() float64 { return r.Max.Y - r.Min.Y }

func (r Room) Contains(p cp.Vector) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

func (r Room) Intersects(other Room) bool {
	return r.Min.X < other.Max.X &&
		r.Max.X > other.Min.X &&
		r.Min.Y < other.Max.Y &&
		r.Max.Y > other.Min.Y
}

// Clamp pulls p inside the room shrunk by inset on every side.
func (r Room) Clamp(p cp.Vector, inset float64) cp.Vector {
	return cp.Vector{
		X: Clamp(p.X, r.Min.X+inset, r.Max.X-inset),
		Y: Clamp(p.Y, r.Min.Y+inset, r.Max.Y-inset),
	}
}

func (r Room) BB() cp.BB {
	return cp.BB{L: r.Min.X, B: r.Min.Y, R: r.Max.X, T: r.Max.Y}
}
