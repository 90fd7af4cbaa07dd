// Package timeline lays out Gantt-style timelines: phase-grouped task rows
// on a shared time axis plus milestone markers above the rows.
//
// Rows are numbered from 0 in input order with a fractional gap between
// phases. Phases run back to back: a phase starts (1-based) one unit after
// the sum of the preceding durations, and every task of a phase spans the
// whole phase. Row 0 is meant to be drawn at the top, so the scene produced
// by [Result.Scene] is marked YDown.
//
// Milestone heights come from a [MilestonePlacer]. The default
// [FixedPattern] alternates two offsets by index; [Staggered] looks at
// milestone times instead.
package timeline

import (
	"math"

	errs "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/geom"
)

// Config holds the timeline constants.
type Config struct {
	// PhaseGap is the extra row spacing inserted between phases.
	PhaseGap float64 `toml:"phase_gap" json:"phase_gap"`
	// LabelLimit is the maximum label length in runes when no
	// abbreviation is registered. Zero or a negative value disables
	// truncation.
	LabelLimit int     `toml:"label_limit" json:"label_limit"`
	BarHeight  float64 `toml:"bar_height" json:"bar_height"`
	MarkerSize float64 `toml:"marker_size" json:"marker_size"`

	// Placer positions milestones. Nil means DefaultPattern.
	Placer MilestonePlacer `toml:"-" json:"-"`
}

// DefaultConfig returns the standard timeline constants.
func DefaultConfig() Config {
	return Config{
		PhaseGap:   0.8,
		LabelLimit: 15,
		BarHeight:  0.8,
		MarkerSize: 12,
		Placer:     DefaultPattern,
	}
}

// Validate requires positive bar and marker sizes and a non-negative
// phase gap. A staggered placer is checked as well.
func (c Config) Validate() error {
	if c.PhaseGap < 0 {
		return errs.Malformed("timeline phase_gap must not be negative, got %g", c.PhaseGap)
	}
	if c.BarHeight <= 0 {
		return errs.Malformed("timeline bar_height must be positive, got %g", c.BarHeight)
	}
	if c.MarkerSize <= 0 {
		return errs.Malformed("timeline marker_size must be positive, got %g", c.MarkerSize)
	}
	if s, ok := c.Placer.(Staggered); ok {
		return s.Validate()
	}
	return nil
}

// Phase is a block of tasks sharing one time interval.
type Phase struct {
	Name     string
	Duration int
	Color    string
	Tasks    []string
}

// Milestone is a labelled point in time.
type Milestone struct {
	Name string
	Time float64
}

// Input is everything a timeline layout reads.
type Input struct {
	Phases     []Phase
	Milestones []Milestone
	// Abbreviations maps full task or milestone names to short labels.
	Abbreviations map[string]string
}

// Row is one placed task bar.
type Row struct {
	Task  string
	Label string
	Phase int
	Y     float64
	Start float64
	End   float64
	Color string
}

// PlacedPhase is a phase with its time interval. Start is 1-based.
type PlacedPhase struct {
	Name  string
	Color string
	Start int
	End   int
}

// PlacedMilestone is a milestone with its marker position.
type PlacedMilestone struct {
	Name  string
	Label string
	At    geom.Vec
}

// Result is the complete geometry of a timeline.
type Result struct {
	Rows       []Row
	Phases     []PlacedPhase
	Milestones []PlacedMilestone
	// LastRow is the row counter after the final task, the first free row.
	LastRow float64
	// AxisEnd is the right end of the time axis; the axis starts at 0.
	AxisEnd float64

	barHeight  float64
	markerSize float64
}

// Validate checks the input for the conditions Layout refuses.
func Validate(in Input) error {
	if len(in.Phases) == 0 {
		return errs.Malformed("timeline has no phases")
	}
	for i, p := range in.Phases {
		if err := errs.ValidateName("phase name", p.Name); err != nil {
			return errs.Wrap(errs.ErrCodeMalformedInput, err, "phase %d", i)
		}
		if p.Duration <= 0 {
			return errs.Malformed("phase %q has non-positive duration %d", p.Name, p.Duration)
		}
		if len(p.Tasks) == 0 {
			return errs.Malformed("phase %q has no tasks", p.Name)
		}
		for _, t := range p.Tasks {
			if err := errs.ValidateName("task name", t); err != nil {
				return errs.Wrap(errs.ErrCodeMalformedInput, err, "phase %q", p.Name)
			}
		}
	}
	for i, m := range in.Milestones {
		if err := errs.ValidateName("milestone name", m.Name); err != nil {
			return errs.Wrap(errs.ErrCodeMalformedInput, err, "milestone %d", i)
		}
		if math.IsNaN(m.Time) || math.IsInf(m.Time, 0) || m.Time < 0 {
			return errs.Malformed("milestone %q has no valid time", m.Name)
		}
	}
	return nil
}

// Layout assigns rows and time spans to every task and positions the
// milestones.
func Layout(in Input, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := Validate(in); err != nil {
		return nil, err
	}
	placer := cfg.Placer
	if placer == nil {
		placer = DefaultPattern
	}
	offsets, err := placer.Offsets(in.Milestones)
	if err != nil {
		return nil, err
	}

	res := &Result{barHeight: cfg.BarHeight, markerSize: cfg.MarkerSize}

	var (
		counter float64
		elapsed int
	)
	for i, p := range in.Phases {
		start := elapsed + 1
		elapsed += p.Duration
		res.Phases = append(res.Phases, PlacedPhase{
			Name:  p.Name,
			Color: p.Color,
			Start: start,
			End:   elapsed,
		})

		for _, task := range p.Tasks {
			res.Rows = append(res.Rows, Row{
				Task:  task,
				Label: shorten(task, in.Abbreviations, cfg.LabelLimit),
				Phase: i,
				Y:     counter,
				Start: float64(start - 1),
				End:   float64(start - 1 + p.Duration),
				Color: p.Color,
			})
			counter++
		}
		if i < len(in.Phases)-1 {
			counter += cfg.PhaseGap
		}
	}
	res.LastRow = counter
	res.AxisEnd = float64(elapsed + 1)

	base := res.LastRow + 1
	for i, m := range in.Milestones {
		label := m.Name
		if cfg.LabelLimit > 0 && len([]rune(label)) > cfg.LabelLimit {
			label = shorten(label, in.Abbreviations, cfg.LabelLimit)
		}
		res.Milestones = append(res.Milestones, PlacedMilestone{
			Name:  m.Name,
			Label: label,
			At:    geom.V(m.Time, base+offsets[i]),
		})
	}
	return res, nil
}

// shorten returns the registered abbreviation for name, or name cut to
// limit runes.
func shorten(name string, abbrev map[string]string, limit int) string {
	if short, ok := abbrev[name]; ok {
		return short
	}
	if r := []rune(name); limit > 0 && len(r) > limit {
		return string(r[:limit])
	}
	return name
}
