// Package vecmath provides the 3D vector helpers used by the cubelet model.
//
// Vectors are gonum r3.Vec values. Coordinates follow the cube frame:
// x points right (R), y points up (U), z points toward the viewer (F).
package vecmath

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tolerance is the absolute tolerance used by all approximate comparisons.
const Tolerance = 1e-4

// Vec is a point or direction in cube space.
type Vec = r3.Vec

// Axis names one coordinate of a vector.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	default:
		return "?"
	}
}

// Component returns the coordinate of v along a.
func Component(v Vec, a Axis) float64 {
	switch a {
	case X:
		return v.X
	case Y:
		return v.Y
	default:
		return v.Z
	}
}

// Feq reports whether a and b are within Tolerance of each other.
func Feq(a, b float64) bool {
	return scalar.EqualWithinAbs(a, b, Tolerance)
}

// Afeq compares absolute values with Feq.
func Afeq(a, b float64) bool {
	return Feq(math.Abs(a), math.Abs(b))
}

// Eq reports whether every component of a and b is approximately equal.
func Eq(a, b Vec) bool {
	return Feq(a.X, b.X) && Feq(a.Y, b.Y) && Feq(a.Z, b.Z)
}

// IsZero reports whether v has (approximately) zero length.
func IsZero(v Vec) bool {
	return Feq(r3.Norm(v), 0)
}

// Unit returns v scaled to length one, or the zero vector when v is zero.
func Unit(v Vec) Vec {
	if IsZero(v) {
		return Vec{}
	}
	return r3.Unit(v)
}

// SetMag returns v rescaled to length m.
func SetMag(m float64, v Vec) Vec {
	return r3.Scale(m, Unit(v))
}

// Proj returns the projection of a onto b.
func Proj(a, b Vec) Vec {
	n2 := r3.Norm2(b)
	if n2 == 0 {
		return Vec{}
	}
	return r3.Scale(r3.Dot(a, b)/n2, b)
}

// Reject returns the component of a perpendicular to b.
func Reject(a, b Vec) Vec {
	return r3.Sub(a, Proj(a, b))
}

// Parallel reports whether a and b point in the same direction.
func Parallel(a, b Vec) bool {
	return Feq(r3.Norm(r3.Cross(a, b)), 0) && r3.Dot(a, b) > 0
}

// Round rounds every component of v to the nearest integer.
func Round(v Vec) Vec {
	return Vec{X: roundZero(v.X), Y: roundZero(v.Y), Z: roundZero(v.Z)}
}

// roundZero rounds and folds negative zero into zero so snapped poses
// compare and print cleanly.
func roundZero(f float64) float64 {
	r := math.Round(f)
	if r == 0 {
		return 0
	}
	return r
}

// PrincipalAngle normalizes angle into (-π, π].
func PrincipalAngle(angle float64) float64 {
	a := math.Mod(angle+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	a -= math.Pi
	if Feq(a, -math.Pi) {
		return math.Pi
	}
	return a
}

// Format renders v as "<x, y, z>".
func Format(v Vec) string {
	return fmt.Sprintf("<%g, %g, %g>", v.X, v.Y, v.Z)
}
