package layered

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	errs "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/geom"
	"github.com/matzehuels/blueprint/pkg/palette"
	"github.com/matzehuels/blueprint/pkg/scene"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func twoLayers() []Layer {
	return []Layer{
		{Name: "L1", Tone: palette.ToneBlue, Components: []string{"A", "B"}},
		{Name: "L2", Tone: palette.TonePurple, Components: []string{"C"}},
	}
}

func TestLayoutExample(t *testing.T) {
	cfg := DefaultConfig()
	res, err := Layout(twoLayers(), []Connection{{From: "A", To: "C"}}, cfg)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	a, _ := res.Component("A")
	b, _ := res.Component("B")
	c, _ := res.Component("C")

	if !near(a.Center.Y, cfg.StartY) || !near(b.Center.Y, cfg.StartY) {
		t.Errorf("row 1 y = %v/%v, want %v", a.Center.Y, b.Center.Y, cfg.StartY)
	}
	if !near(a.Center.X, -b.Center.X) {
		t.Errorf("A.x = %v, B.x = %v, want symmetric", a.Center.X, b.Center.X)
	}
	if !near(b.Center.X, 1.25) {
		t.Errorf("B.x = %v, want 1.25", b.Center.X)
	}

	wantY := cfg.StartY - (cfg.LayerHeight + cfg.SpacingY)
	if !near(c.Center.Y, wantY) || !near(c.Center.X, 0) {
		t.Errorf("C center = %v, want (0, %v)", c.Center, wantY)
	}

	if len(res.Arrows) != 1 {
		t.Fatalf("arrows = %d, want 1", len(res.Arrows))
	}
	arrow := res.Arrows[0]
	if !arrow.Downward {
		t.Error("A→C should point downward")
	}
	if !near(arrow.Tail.Y, a.Center.Y-cfg.ComponentHeight/2) || !near(arrow.Tail.X, a.Center.X) {
		t.Errorf("tail = %v, want A's bottom edge", arrow.Tail)
	}
	if !near(arrow.Head.Y, c.Center.Y+cfg.ComponentHeight/2) || !near(arrow.Head.X, c.Center.X) {
		t.Errorf("head = %v, want C's top edge", arrow.Head)
	}
}

func TestLayoutUpwardArrow(t *testing.T) {
	cfg := DefaultConfig()
	res, err := Layout(twoLayers(), []Connection{{From: "C", To: "B"}}, cfg)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	arrow := res.Arrows[0]
	c, _ := res.Component("C")
	b, _ := res.Component("B")

	if arrow.Downward {
		t.Error("C→B should point upward")
	}
	if !near(arrow.Tail.Y, c.Center.Y+cfg.ComponentHeight/2) {
		t.Errorf("tail y = %v, want C's top edge", arrow.Tail.Y)
	}
	if !near(arrow.Head.Y, b.Center.Y-cfg.ComponentHeight/2) {
		t.Errorf("head y = %v, want B's bottom edge", arrow.Head.Y)
	}
}

func TestArrowDirectionMatchesSign(t *testing.T) {
	layers := []Layer{
		{Name: "top", Tone: palette.ToneBlue, Components: []string{"t1", "t2"}},
		{Name: "mid", Tone: palette.ToneGreen, Components: []string{"m1", "m2", "m3"}},
		{Name: "bottom", Tone: palette.ToneRed, Components: []string{"b1"}},
	}
	conns := []Connection{
		{"t1", "m2"}, {"m3", "t2"}, {"b1", "t1"}, {"m1", "b1"}, {"t1", "t2"},
	}

	res, err := Layout(layers, conns, DefaultConfig())
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	for _, a := range res.Arrows {
		src, _ := res.Component(a.From)
		dst, _ := res.Component(a.To)
		dy := a.Head.Y - a.Tail.Y
		if src.Center.Y > dst.Center.Y && dy >= 0 {
			t.Errorf("%s→%s: arrow goes up, want down", a.From, a.To)
		}
		if src.Center.Y < dst.Center.Y && dy <= 0 {
			t.Errorf("%s→%s: arrow goes down, want up", a.From, a.To)
		}
	}
}

func TestNoOverlapAndSymmetry(t *testing.T) {
	for n := 1; n <= 6; n++ {
		names := make([]string, n)
		for i := range names {
			names[i] = fmt.Sprintf("c%d", i)
		}
		res, err := Layout([]Layer{{Name: "row", Tone: palette.ToneGreen, Components: names}}, nil, DefaultConfig())
		if err != nil {
			t.Fatalf("Layout(%d) error: %v", n, err)
		}

		comps := res.Layers[0].Components
		for i := range comps {
			for j := i + 1; j < len(comps); j++ {
				if comps[i].Box().Overlaps(comps[j].Box()) {
					t.Errorf("n=%d: %s overlaps %s", n, comps[i].Name, comps[j].Name)
				}
			}
			mirror := comps[len(comps)-1-i]
			if !near(comps[i].Center.X, -mirror.Center.X) {
				t.Errorf("n=%d: %s.x = %v not mirrored by %s.x = %v",
					n, comps[i].Name, comps[i].Center.X, mirror.Name, mirror.Center.X)
			}
		}

		band := res.Layers[0].Band
		for _, c := range comps {
			if band.Union(c.Box()) != band {
				t.Errorf("n=%d: %s box outside band", n, c.Name)
			}
		}
	}
}

func TestLayerGeometry(t *testing.T) {
	cfg := DefaultConfig()
	res, err := Layout(twoLayers(), nil, cfg)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	l1 := res.Layers[0]
	rowWidth := 2*cfg.ComponentWidth + cfg.SpacingX
	want := geom.R(
		-rowWidth/2-cfg.BandPadX, cfg.StartY-cfg.LayerHeight/2-cfg.BandPadY,
		rowWidth/2+cfg.BandPadX, cfg.StartY+cfg.LayerHeight/2+cfg.BandPadY,
	)
	if !near(l1.Band.Min.X, want.Min.X) || !near(l1.Band.Max.Y, want.Max.Y) {
		t.Errorf("band = %+v, want %+v", l1.Band, want)
	}
	if !near(l1.TitleAt.X, -rowWidth/2-cfg.TitleOffset) || !near(l1.TitleAt.Y, cfg.StartY) {
		t.Errorf("title at %v", l1.TitleAt)
	}
}

func TestUnresolvedConnectionSkipped(t *testing.T) {
	conns := []Connection{{"A", "ghost"}, {"nobody", "C"}, {"A", "C"}}
	res, err := Layout(twoLayers(), conns, DefaultConfig())
	if err != nil {
		t.Fatalf("unresolved endpoints must not fail: %v", err)
	}
	if len(res.Arrows) != 1 {
		t.Errorf("arrows = %d, want 1", len(res.Arrows))
	}
	if len(res.Skipped) != 2 {
		t.Errorf("skipped = %d, want 2", len(res.Skipped))
	}

	only, err := Layout(twoLayers(), []Connection{{"A", "ghost"}}, DefaultConfig())
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if len(only.Arrows) != 0 {
		t.Errorf("arrows = %d, want 0", len(only.Arrows))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		layers []Layer
	}{
		{"no layers", nil},
		{"empty layer", []Layer{{Name: "L", Tone: palette.ToneBlue}}},
		{"unnamed layer", []Layer{{Tone: palette.ToneBlue, Components: []string{"a"}}}},
		{"no tone", []Layer{{Name: "L", Components: []string{"a"}}}},
		{"empty component", []Layer{{Name: "L", Tone: palette.ToneBlue, Components: []string{""}}}},
		{"duplicate across layers", []Layer{
			{Name: "L1", Tone: palette.ToneBlue, Components: []string{"a"}},
			{Name: "L2", Tone: palette.ToneRed, Components: []string{"a"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Layout(tt.layers, nil, DefaultConfig())
			if err == nil {
				t.Fatal("expected error")
			}
			if !errs.Is(err, errs.ErrCodeMalformedInput) {
				t.Errorf("code = %v, want %v", errs.GetCode(err), errs.ErrCodeMalformedInput)
			}
			if res != nil {
				t.Error("malformed input must not produce a partial result")
			}
		})
	}
}

func TestLayoutDeterministic(t *testing.T) {
	conns := []Connection{{"A", "C"}, {"C", "B"}}
	r1, _ := Layout(twoLayers(), conns, DefaultConfig())
	r2, _ := Layout(twoLayers(), conns, DefaultConfig())
	if !reflect.DeepEqual(r1.Scene("x"), r2.Scene("x")) {
		t.Error("same input produced different scenes")
	}
}

func TestScene(t *testing.T) {
	res, err := Layout(twoLayers(), []Connection{{"A", "C"}, {"A", "missing"}}, DefaultConfig())
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	sc := res.Scene("Arch")

	if sc.Mode != scene.ModeLayered || sc.Title != "Arch" {
		t.Errorf("mode/title = %s/%s", sc.Mode, sc.Title)
	}
	if got := sc.Count(scene.LayerBand); got != 2 {
		t.Errorf("bands = %d, want 2", got)
	}
	if got := sc.Count(scene.LayerBox); got != 3 {
		t.Errorf("boxes = %d, want 3", got)
	}
	if got := sc.Count(scene.LayerArrow); got != 1 {
		t.Errorf("arrows = %d, want 1", got)
	}
	if got := sc.Count(scene.LayerLabel); got != 5 {
		t.Errorf("labels = %d, want 5", got)
	}

	for _, c := range sc.Commands {
		if c.Label != nil && c.Label.Text == "L1" && c.Label.Rotation != -90 {
			t.Errorf("layer title rotation = %v, want -90", c.Label.Rotation)
		}
		if c.Rect != nil && c.Layer == scene.LayerBox && c.Rect.Border != palette.ToneBlue.Border() && c.Rect.ID != "C" {
			t.Errorf("box %s border = %s", c.Rect.ID, c.Rect.Border)
		}
	}

	if sc.Viewport.Union(sc.Bounds()) != sc.Viewport {
		t.Error("viewport does not contain the content")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero layer height", func(c *Config) { c.LayerHeight = 0 }},
		{"zero component width", func(c *Config) { c.ComponentWidth = 0 }},
		{"negative component height", func(c *Config) { c.ComponentHeight = -0.6 }},
		{"negative spacing x", func(c *Config) { c.SpacingX = -1 }},
		{"negative spacing y", func(c *Config) { c.SpacingY = -0.2 }},
		{"negative band padding", func(c *Config) { c.BandPadX = -0.5 }},
		{"negative title offset", func(c *Config) { c.TitleOffset = -1 }},
		{"opacity above one", func(c *Config) { c.BandOpacity = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errs.Is(err, errs.ErrCodeMalformedInput) {
				t.Errorf("Validate() code = %v, want %v", errs.GetCode(err), errs.ErrCodeMalformedInput)
			}
			res, err := Layout(twoLayers(), nil, cfg)
			if !errs.Is(err, errs.ErrCodeMalformedInput) {
				t.Errorf("Layout() code = %v, want %v", errs.GetCode(err), errs.ErrCodeMalformedInput)
			}
			if res != nil {
				t.Error("invalid config must not produce a result")
			}
		})
	}

	cfg := DefaultConfig()
	cfg.StartY = -4
	cfg.SpacingX = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("negative start and zero spacing: Validate() = %v, want nil", err)
	}
}
