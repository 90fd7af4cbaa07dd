package geom

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestVectorAndLength(t *testing.T) {
	v := Vector(V(1, 2), V(4, 6))
	if v != V(3, 4) {
		t.Errorf("Vector = %v, want {3 4}", v)
	}
	if got := Length(v); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec
		want Vec
	}{
		{"axis", V(0, -7), V(0, -1)},
		{"diagonal", V(3, 4), V(0.6, 0.8)},
		{"zero", V(0, 0), V(0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if math.IsNaN(got.X) || math.IsNaN(got.Y) {
				t.Errorf("Normalize(%v) produced NaN", tt.in)
			}
		})
	}
}

func TestTrimmedEndpoint(t *testing.T) {
	half := V(1.1, 0.3)
	c := V(2, 5)

	tests := []struct {
		name string
		dir  Vec
		want Vec
	}{
		{"down", V(0, -1), V(2, 4.7)},
		{"up", V(0, 3), V(2, 5.3)},
		{"right", V(2, 0), V(3.1, 5)},
		{"steep diagonal hits top", V(1, 1), V(2.3, 5.3)},
		{"shallow diagonal hits side", V(11, 1), V(3.1, 5.1)},
		{"zero", V(0, 0), c},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimmedEndpoint(c, half, tt.dir)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("TrimmedEndpoint(%v) = %v, want %v", tt.dir, got, tt.want)
			}
		})
	}
}

func TestRect(t *testing.T) {
	r := R(2, 3, -2, -1)
	if r.Min != V(-2, -1) || r.Max != V(2, 3) {
		t.Fatalf("R did not canonicalize corners: %+v", r)
	}
	if r.Width() != 4 || r.Height() != 4 {
		t.Errorf("size = %vx%v, want 4x4", r.Width(), r.Height())
	}
	if r.Center() != V(0, 1) {
		t.Errorf("Center = %v, want {0 1}", r.Center())
	}

	grown := r.Inset(0.5, 0.1)
	if grown.Min != V(-2.5, -1.1) || grown.Max != V(2.5, 3.1) {
		t.Errorf("Inset = %+v", grown)
	}

	if u := r.Union(RectFromCenter(V(1, 1), V(0.5, 0.5))); u != r {
		t.Errorf("Union with inner rect = %+v, want %+v", u, r)
	}
}

func TestRectOverlaps(t *testing.T) {
	a := RectFromCenter(V(0, 0), V(1, 1))

	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"same", a, true},
		{"touching edge", RectFromCenter(V(2, 0), V(1, 1)), false},
		{"apart", RectFromCenter(V(5, 5), V(1, 1)), false},
		{"partial", RectFromCenter(V(1.5, 0.5), V(1, 1)), true},
	}

	for _, tt := range tests {
		if got := a.Overlaps(tt.b); got != tt.want {
			t.Errorf("%s: Overlaps = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRectUnion(t *testing.T) {
	u := R(0, 0, 1, 1).Union(R(-1, 2, 0.5, 3))
	if u != R(-1, 0, 1, 3) {
		t.Errorf("Union = %+v", u)
	}
}
