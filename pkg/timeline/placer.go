package timeline

import (
	"slices"

	errs "github.com/matzehuels/blueprint/pkg/errors"
)

// MilestonePlacer decides the vertical offset of each milestone above the
// last task row. Offsets are returned in input order.
type MilestonePlacer interface {
	Offsets(ms []Milestone) ([]float64, error)
}

// FixedPattern assigns offsets by milestone index, independent of time.
// The pattern repeats when there are more milestones than entries.
type FixedPattern []float64

// DefaultPattern alternates between two heights so neighbouring labels do
// not share a line.
var DefaultPattern = FixedPattern{1.5, 2.2}

// Offsets implements MilestonePlacer.
func (p FixedPattern) Offsets(ms []Milestone) ([]float64, error) {
	if len(p) == 0 {
		return nil, errs.Malformed("milestone offset pattern is empty")
	}
	out := make([]float64, len(ms))
	for i := range ms {
		out[i] = p[i%len(p)]
	}
	return out, nil
}

// Staggered stacks milestones that are close in time onto successive
// levels. A milestone goes on the lowest level whose previous milestone is
// at least MinGap earlier; level k sits at Base + k*Step.
type Staggered struct {
	MinGap float64 `toml:"min_gap" json:"min_gap"`
	Base   float64 `toml:"base" json:"base"`
	Step   float64 `toml:"step" json:"step"`
}

// DefaultStaggered returns a Staggered placer whose first two levels match
// DefaultPattern.
func DefaultStaggered() Staggered {
	return Staggered{MinGap: 2, Base: 1.5, Step: 0.7}
}

// Validate requires min_gap >= 0 and step > 0.
func (s Staggered) Validate() error {
	if s.MinGap < 0 || s.Step <= 0 {
		return errs.Malformed("staggered placer needs min_gap >= 0 and step > 0, got min_gap %g step %g", s.MinGap, s.Step)
	}
	return nil
}

// Offsets implements MilestonePlacer.
func (s Staggered) Offsets(ms []Milestone) ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	order := make([]int, len(ms))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case ms[a].Time < ms[b].Time:
			return -1
		case ms[a].Time > ms[b].Time:
			return 1
		}
		return 0
	})

	var levels []float64 // time of the latest milestone on each level
	out := make([]float64, len(ms))
	for _, i := range order {
		t := ms[i].Time
		lvl := slices.IndexFunc(levels, func(last float64) bool { return t-last >= s.MinGap })
		if lvl < 0 {
			lvl = len(levels)
			levels = append(levels, t)
		} else {
			levels[lvl] = t
		}
		out[i] = s.Base + float64(lvl)*s.Step
	}
	return out, nil
}
