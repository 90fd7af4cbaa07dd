package geom

import "math"

// Rect is an axis-aligned rectangle. Min holds the smaller coordinates.
type Rect struct {
	Min Vec `json:"min"`
	Max Vec `json:"max"`
}

// R builds a rectangle from two corners in any order.
func R(x0, y0, x1, y1 float64) Rect {
	return Rect{
		Min: V(math.Min(x0, x1), math.Min(y0, y1)),
		Max: V(math.Max(x0, x1), math.Max(y0, y1)),
	}
}

// RectFromCenter returns the rectangle centered at c with half extents half.
func RectFromCenter(c, half Vec) Rect {
	return Rect{Min: Sub(c, half), Max: Add(c, half)}
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec { return Scale(0.5, Add(r.Min, r.Max)) }

// Inset grows the rectangle by dx horizontally and dy vertically on each side.
// Negative values shrink it.
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{Min: V(r.Min.X-dx, r.Min.Y-dy), Max: V(r.Max.X+dx, r.Max.Y+dy)}
}

// Overlaps reports whether r and o share interior area. Rectangles that only
// touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.Min.X < o.Max.X && o.Min.X < r.Max.X &&
		r.Min.Y < o.Max.Y && o.Min.Y < r.Max.Y
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: V(math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)),
		Max: V(math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)),
	}
}
