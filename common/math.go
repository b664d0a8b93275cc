package common

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
)

const epsilon = 1e-9

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Direction returns the unit vector from a to b, or the zero vector when the
// points coincide. cp.Vector.Normalize yields NaN for zero-length input.
func Direction(from, to cp.Vector) cp.Vector {
	return SafeNormalize(to.Sub(from))
}

func SafeNormalize(v cp.Vector) cp.Vector {
	l := v.Length()
	if l < epsilon {
		return cp.Vector{}
	}
	return v.Mult(1 / l)
}

// AngleBetween returns the unsigned angle between a and b in degrees.
// Zero-length input yields 0.
func AngleBetween(a, b cp.Vector) float64 {
	la, lb := a.Length(), b.Length()
	if la < epsilon || lb < epsilon {
		return 0
	}
	cos := Clamp(a.Dot(b)/(la*lb), -1, 1)
	return math.Acos(cos) * 180 / math.Pi
}

func Rotate(v cp.Vector, radians float64) cp.Vector {
	return v.Rotate(cp.ForAngle(radians))
}

// RandomDirection returns a unit vector with a uniformly random heading.
func RandomDirection(rng *rand.Rand) cp.Vector {
	return cp.ForAngle(rng.Float64() * 2 * math.Pi)
}

// InsideUnitCircle returns a point uniformly distributed in the unit disc.
func InsideUnitCircle(rng *rand.Rand) cp.Vector {
	r := math.Sqrt(rng.Float64())
	return RandomDirection(rng).Mult(r)
}

// MoveTowards steps from cur towards target by at most maxDelta.
func MoveTowards(cur, target cp.Vector, maxDelta float64) cp.Vector {
	d := target.Sub(cur)
	l := d.Length()
	if l <= maxDelta || l < epsilon {
		return target
	}
	return cur.Add(d.Mult(maxDelta / l))
}

func LerpColor(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(Lerp(float64(x), float64(y), t)))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
