package timeline

import (
	"math"
	"reflect"
	"testing"

	errs "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/palette"
	"github.com/matzehuels/blueprint/pkg/scene"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func example() Input {
	return Input{
		Phases: []Phase{
			{Name: "P1", Duration: 3, Color: "#4CAF50", Tasks: []string{"T1", "T2"}},
			{Name: "P2", Duration: 3, Color: "#2196F3", Tasks: []string{"T3"}},
		},
	}
}

func TestLayoutExample(t *testing.T) {
	res, err := Layout(example(), DefaultConfig())
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	wantY := []float64{0, 1, 2.8}
	for i, row := range res.Rows {
		if !near(row.Y, wantY[i]) {
			t.Errorf("%s row = %v, want %v", row.Task, row.Y, wantY[i])
		}
	}
	if got := res.Phases[1].Start; got != 4 {
		t.Errorf("phase 2 start = %d, want 4", got)
	}
	if r := res.Rows[2]; r.Start != 3 || r.End != 6 {
		t.Errorf("T3 span = [%v, %v], want [3, 6]", r.Start, r.End)
	}
	if !near(res.LastRow, 3.8) {
		t.Errorf("LastRow = %v, want 3.8", res.LastRow)
	}
	if res.AxisEnd != 7 {
		t.Errorf("AxisEnd = %v, want 7", res.AxisEnd)
	}
}

func TestRowsIncreaseAndSpansMatch(t *testing.T) {
	in := Input{Phases: []Phase{
		{Name: "a", Duration: 2, Tasks: []string{"a1", "a2", "a3"}},
		{Name: "b", Duration: 5, Tasks: []string{"b1"}},
		{Name: "c", Duration: 1, Tasks: []string{"c1", "c2"}},
	}}
	res, err := Layout(in, DefaultConfig())
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	for i := 1; i < len(res.Rows); i++ {
		if res.Rows[i].Y <= res.Rows[i-1].Y {
			t.Errorf("row %d y = %v not above %v", i, res.Rows[i].Y, res.Rows[i-1].Y)
		}
		if res.Rows[i].Phase == res.Rows[i-1].Phase {
			if res.Rows[i].Start != res.Rows[i-1].Start || res.Rows[i].End != res.Rows[i-1].End {
				t.Errorf("rows %d and %d in one phase have different spans", i-1, i)
			}
		}
	}

	// Non-uniform durations accumulate.
	wantStart := []int{1, 3, 8}
	for i, p := range res.Phases {
		if p.Start != wantStart[i] {
			t.Errorf("phase %s start = %d, want %d", p.Name, p.Start, wantStart[i])
		}
	}
	if res.AxisEnd != 9 {
		t.Errorf("AxisEnd = %v, want 9", res.AxisEnd)
	}
}

func TestLabels(t *testing.T) {
	in := Input{
		Phases: []Phase{{
			Name: "P", Duration: 3,
			Tasks: []string{"Project Setup & Architecture", "Core Audio Engine Development", "Short"},
		}},
		Milestones: []Milestone{
			{Name: "App Store Approval", Time: 11},
			{Name: "A Very Long Milestone Name", Time: 12},
			{Name: "MVP", Time: 6},
		},
		Abbreviations: map[string]string{
			"Project Setup & Architecture": "Project Setup",
			"App Store Approval":           "App Store Appr",
			"MVP":                          "ignored",
		},
	}
	res, err := Layout(in, DefaultConfig())
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	rows := []string{"Project Setup", "Core Audio Engi", "Short"}
	for i, want := range rows {
		if got := res.Rows[i].Label; got != want {
			t.Errorf("row %d label = %q, want %q", i, got, want)
		}
	}
	// Milestones are only shortened when they exceed the limit.
	ms := []string{"App Store Appr", "A Very Long Mil", "MVP"}
	for i, want := range ms {
		if got := res.Milestones[i].Label; got != want {
			t.Errorf("milestone %d label = %q, want %q", i, got, want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	got := shorten("Überwachungsgerät-Integration", nil, 15)
	if want := "Überwachungsger"; got != want {
		t.Errorf("shorten() = %q, want %q", got, want)
	}
	if got := shorten("unlimited label text", nil, 0); got != "unlimited label text" {
		t.Errorf("shorten() with no limit = %q", got)
	}
}

func TestMilestonePositions(t *testing.T) {
	in := example()
	in.Milestones = []Milestone{
		{Name: "m1", Time: 2}, {Name: "m2", Time: 3}, {Name: "m3", Time: 5},
	}
	res, err := Layout(in, DefaultConfig())
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	base := res.LastRow + 1
	want := []float64{base + 1.5, base + 2.2, base + 1.5}
	for i, m := range res.Milestones {
		if !near(m.At.Y, want[i]) {
			t.Errorf("%s y = %v, want %v", m.Name, m.At.Y, want[i])
		}
		if m.At.X != in.Milestones[i].Time {
			t.Errorf("%s x = %v, want %v", m.Name, m.At.X, in.Milestones[i].Time)
		}
	}
}

func TestFixedPatternCycles(t *testing.T) {
	ms := make([]Milestone, 5)
	got, err := FixedPattern{1, 2}.Offsets(ms)
	if err != nil {
		t.Fatalf("Offsets() error: %v", err)
	}
	if want := []float64{1, 2, 1, 2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("Offsets() = %v, want %v", got, want)
	}

	if _, err := (FixedPattern{}).Offsets(ms); !errs.Is(err, errs.ErrCodeMalformedInput) {
		t.Errorf("empty pattern: code = %v, want %v", errs.GetCode(err), errs.ErrCodeMalformedInput)
	}
}

func TestStaggered(t *testing.T) {
	s := Staggered{MinGap: 2, Base: 1, Step: 1}
	ms := []Milestone{
		{Name: "late", Time: 12},
		{Name: "a", Time: 6},
		{Name: "b", Time: 7},
		{Name: "c", Time: 7.5},
		{Name: "d", Time: 9},
	}
	got, err := s.Offsets(ms)
	if err != nil {
		t.Fatalf("Offsets() error: %v", err)
	}
	// a opens level 0, b and c are too close and stack up, d and late are
	// far enough from the previous level-0 milestone to reuse it.
	want := []float64{1, 1, 2, 3, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Offsets() = %v, want %v", got, want)
	}

	if _, err := (Staggered{Step: 0}).Offsets(ms); !errs.Is(err, errs.ErrCodeMalformedInput) {
		t.Errorf("zero step: code = %v, want %v", errs.GetCode(err), errs.ErrCodeMalformedInput)
	}
}

func TestStaggeredPlacerInLayout(t *testing.T) {
	in := example()
	in.Milestones = []Milestone{{Name: "x", Time: 1}, {Name: "y", Time: 1}}
	cfg := DefaultConfig()
	cfg.Placer = DefaultStaggered()

	res, err := Layout(in, cfg)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if res.Milestones[0].At.Y == res.Milestones[1].At.Y {
		t.Error("simultaneous milestones share a level")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{"no phases", Input{}},
		{"unnamed phase", Input{Phases: []Phase{{Duration: 1, Tasks: []string{"t"}}}}},
		{"zero duration", Input{Phases: []Phase{{Name: "p", Tasks: []string{"t"}}}}},
		{"negative duration", Input{Phases: []Phase{{Name: "p", Duration: -2, Tasks: []string{"t"}}}}},
		{"no tasks", Input{Phases: []Phase{{Name: "p", Duration: 1}}}},
		{"empty task", Input{Phases: []Phase{{Name: "p", Duration: 1, Tasks: []string{" "}}}}},
		{"unnamed milestone", Input{
			Phases:     []Phase{{Name: "p", Duration: 1, Tasks: []string{"t"}}},
			Milestones: []Milestone{{Time: 1}},
		}},
		{"milestone without time", Input{
			Phases:     []Phase{{Name: "p", Duration: 1, Tasks: []string{"t"}}},
			Milestones: []Milestone{{Name: "m", Time: math.NaN()}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Layout(tt.in, DefaultConfig())
			if !errs.Is(err, errs.ErrCodeMalformedInput) {
				t.Errorf("code = %v, want %v", errs.GetCode(err), errs.ErrCodeMalformedInput)
			}
			if res != nil {
				t.Error("malformed input must not produce a partial result")
			}
		})
	}
}

func TestScene(t *testing.T) {
	in := example()
	in.Milestones = []Milestone{{Name: "MVP", Time: 3}}
	res, err := Layout(in, DefaultConfig())
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	sc := res.Scene("Plan")

	if !sc.YDown {
		t.Error("timeline scenes must be YDown")
	}
	// Three task bars plus two legend swatches.
	if got := sc.Count(scene.LayerBox); got != 5 {
		t.Errorf("boxes = %d, want 5", got)
	}
	if got := sc.Count(scene.LayerMarker); got != 1 {
		t.Errorf("markers = %d, want 1", got)
	}
	if got := sc.Count(scene.LayerEdge); got != 1 {
		t.Errorf("axis lines = %d, want 1", got)
	}
	for _, c := range sc.Commands {
		if c.Marker != nil && (c.Marker.Shape != palette.ShapeDiamond || c.Marker.Fill != palette.Milestone) {
			t.Errorf("milestone marker = %+v", c.Marker)
		}
	}

	again, _ := Layout(in, DefaultConfig())
	if !reflect.DeepEqual(sc, again.Scene("Plan")) {
		t.Error("same input produced different scenes")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative phase gap", func(c *Config) { c.PhaseGap = -1.5 }},
		{"zero bar height", func(c *Config) { c.BarHeight = 0 }},
		{"negative marker size", func(c *Config) { c.MarkerSize = -12 }},
		{"bad staggered placer", func(c *Config) { c.Placer = Staggered{MinGap: -1, Step: 1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errs.Is(err, errs.ErrCodeMalformedInput) {
				t.Errorf("Validate() code = %v, want %v", errs.GetCode(err), errs.ErrCodeMalformedInput)
			}
			res, err := Layout(example(), cfg)
			if !errs.Is(err, errs.ErrCodeMalformedInput) {
				t.Errorf("Layout() code = %v, want %v", errs.GetCode(err), errs.ErrCodeMalformedInput)
			}
			if res != nil {
				t.Error("invalid config must not produce a result")
			}
		})
	}

	cfg := DefaultConfig()
	cfg.PhaseGap = 0
	cfg.LabelLimit = -1
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero gap and no label limit: Validate() = %v, want nil", err)
	}
}

func TestLayoutDeterministic(t *testing.T) {
	in := example()
	in.Milestones = []Milestone{
		{Name: "kickoff", Time: 1},
		{Name: "review", Time: 1.5},
		{Name: "beta", Time: 4},
		{Name: "launch", Time: 6},
	}

	tests := []struct {
		name   string
		placer MilestonePlacer
	}{
		{"fixed pattern", DefaultPattern},
		{"staggered", DefaultStaggered()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Placer = tt.placer

			a, err := Layout(in, cfg)
			if err != nil {
				t.Fatalf("Layout() error: %v", err)
			}
			b, err := Layout(in, cfg)
			if err != nil {
				t.Fatalf("Layout() error: %v", err)
			}
			if !reflect.DeepEqual(a, b) {
				t.Errorf("Layout() = %+v, then %+v", a, b)
			}
			if !reflect.DeepEqual(a.Scene("Plan"), b.Scene("Plan")) {
				t.Error("same input produced different scenes")
			}
		})
	}
}
