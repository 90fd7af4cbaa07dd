// Package pipeline runs the document → scene → artifacts pipeline shared by
// the CLI and the HTTP server.
//
// # Stages
//
//  1. Layout: dispatch on the document kind to the layered, flow or timeline
//     layout and produce a [scene.Scene]
//  2. Render: turn the scene into one artifact per requested format
//     (json, svg, dot, graphviz)
//
// Both stages are cached through a [cache.Cache]. Scenes are keyed by the
// document hash and the layout constants; artifacts are keyed by the scene
// hash, the format and the render scale.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	doc, err := diagram.ReadFile("architecture.yaml")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blueprint/pkg/cache"
	"github.com/matzehuels/blueprint/pkg/diagram"
	errs "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/flow"
	"github.com/matzehuels/blueprint/pkg/layered"
	"github.com/matzehuels/blueprint/pkg/scene"
	"github.com/matzehuels/blueprint/pkg/timeline"
)

// DefaultScale is the default number of SVG pixels per layout unit.
const DefaultScale = 60.0

// Format constants for output formats.
const (
	FormatJSON     = "json"
	FormatSVG      = "svg"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:     true,
	FormatSVG:      true,
	FormatDOT:      true,
	FormatGraphviz: true,
}

// DefaultFormats is used when Options.Formats is empty.
var DefaultFormats = []string{FormatSVG}

// Options configures a pipeline run. The zero value is usable once
// ValidateAndSetDefaults has filled it in.
type Options struct {
	// Formats lists the artifacts to render.
	Formats []string
	// Scale is the SVG pixels per layout unit.
	Scale float64

	// Layout constants per kind. A zero value means the package default.
	Layered  layered.Config
	Flow     flow.Config
	Timeline timeline.Config
	// Staggered switches milestone placement from the fixed alternating
	// offsets to time-based stacking. It overrides Timeline.Placer.
	Staggered *timeline.Staggered

	// Refresh skips cache lookups. Results are still written back.
	Refresh bool

	Logger *log.Logger

	validated bool
}

// Result holds the output of a complete pipeline run.
type Result struct {
	Kind      diagram.Kind
	DocHash   string
	Scene     *scene.Scene
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	LayoutTime time.Duration
	RenderTime time.Duration
	Commands   int
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// ValidateFormat checks that a single output format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format %q: must be json, svg, dot, or graphviz", format)
	}
	return nil
}

// ValidateFormats checks every entry of formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults fills in defaults and validates the options.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLayoutDefaults()
	if err := o.ValidateLayout(); err != nil {
		return err
	}
	if err := o.SetRenderDefaults(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills every zero layout constant with its package
// default, field by field, and installs the milestone placer. A zero field
// always means "use the default", so a partial config such as one that only
// sets StartY keeps the standard box sizes. Negative values are left for the
// layout packages to reject.
func (o *Options) SetLayoutDefaults() {
	ld := layered.DefaultConfig()
	l := &o.Layered
	setDefault(&l.LayerHeight, ld.LayerHeight)
	setDefault(&l.ComponentWidth, ld.ComponentWidth)
	setDefault(&l.ComponentHeight, ld.ComponentHeight)
	setDefault(&l.SpacingX, ld.SpacingX)
	setDefault(&l.SpacingY, ld.SpacingY)
	setDefault(&l.StartY, ld.StartY)
	setDefault(&l.BandPadX, ld.BandPadX)
	setDefault(&l.BandPadY, ld.BandPadY)
	setDefault(&l.TitleOffset, ld.TitleOffset)
	setDefault(&l.BandOpacity, ld.BandOpacity)

	fd := flow.DefaultConfig()
	setDefault(&o.Flow.ArrowLength, fd.ArrowLength)
	setDefault(&o.Flow.HeadInset, fd.HeadInset)

	td := timeline.DefaultConfig()
	t := &o.Timeline
	setDefault(&t.PhaseGap, td.PhaseGap)
	setDefault(&t.LabelLimit, td.LabelLimit)
	setDefault(&t.BarHeight, td.BarHeight)
	setDefault(&t.MarkerSize, td.MarkerSize)

	switch {
	case o.Staggered != nil:
		o.Timeline.Placer = *o.Staggered
	case o.Timeline.Placer == nil:
		o.Timeline.Placer = timeline.DefaultPattern
	}
}

// ValidateLayout checks the layout constants of every kind.
func (o *Options) ValidateLayout() error {
	if err := o.Layered.Validate(); err != nil {
		return err
	}
	if err := o.Flow.Validate(); err != nil {
		return err
	}
	return o.Timeline.Validate()
}

// SetRenderDefaults fills in formats and scale and validates them.
func (o *Options) SetRenderDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidFormat, "scale must be positive, got %g", o.Scale)
	}
	return nil
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// setDefault stores def in *v when *v is zero.
func setDefault[T int | float64](v *T, def T) {
	if *v == 0 {
		*v = def
	}
}

// SceneKeyOpts returns the cache key inputs for a scene of the given kind.
// Only the constants of that kind take part, so changing flow spacing does
// not invalidate cached timelines.
func (o *Options) SceneKeyOpts(kind diagram.Kind) cache.SceneKeyOpts {
	opts := cache.SceneKeyOpts{Kind: string(kind)}
	switch kind {
	case diagram.KindLayered:
		opts.Config = o.Layered
	case diagram.KindFlow:
		opts.Config = o.Flow
	case diagram.KindTimeline:
		// The placer is hidden from JSON on the config itself.
		opts.Config = struct {
			timeline.Config
			Placer timeline.MilestonePlacer `json:"placer"`
		}{o.Timeline, o.Timeline.Placer}
	}
	return opts
}

// ArtifactKeyOpts returns the cache key inputs for one artifact. Scale only
// affects SVG output.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == FormatSVG {
		opts.Scale = o.Scale
	}
	return opts
}
