// Package geom provides the 2-D primitives shared by every layout mode:
// vectors, axis-aligned rectangles, and the endpoint trimming used to pull
// arrows back from node centers onto node boundaries.
//
// Vectors are gonum's [r2.Vec], so callers can use the gonum spatial helpers
// directly. All math is plain Euclidean float64; nothing is rounded here,
// rounding is left to the render adapter.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a point or direction in layout units.
type Vec = r2.Vec

// V is shorthand for Vec{X: x, Y: y}.
func V(x, y float64) Vec { return Vec{X: x, Y: y} }

// Vector returns the direction from a to b.
func Vector(a, b Vec) Vec { return r2.Sub(b, a) }

// Add returns a + b.
func Add(a, b Vec) Vec { return r2.Add(a, b) }

// Sub returns a - b.
func Sub(a, b Vec) Vec { return r2.Sub(a, b) }

// Scale returns v scaled by f.
func Scale(f float64, v Vec) Vec { return r2.Scale(f, v) }

// Length returns the Euclidean norm of v.
func Length(v Vec) float64 { return r2.Norm(v) }

// Normalize returns the unit vector in the direction of v.
// The zero vector normalizes to the zero vector.
func Normalize(v Vec) Vec {
	if Length(v) == 0 {
		return Vec{}
	}
	return r2.Unit(v)
}

// TrimmedEndpoint returns the point where a ray leaving center along dir
// crosses the boundary of the axis-aligned box with the given half extents.
// A zero direction, or a degenerate box, yields center itself.
func TrimmedEndpoint(center, half, dir Vec) Vec {
	t := math.Inf(1)
	if dir.X != 0 {
		t = math.Min(t, half.X/math.Abs(dir.X))
	}
	if dir.Y != 0 {
		t = math.Min(t, half.Y/math.Abs(dir.Y))
	}
	if math.IsInf(t, 1) {
		return center
	}
	return Add(center, Scale(t, dir))
}
