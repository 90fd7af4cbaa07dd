// Package layered lays out architecture diagrams made of stacked horizontal
// layers of boxes connected by vertical arrows.
//
// Layers stack top to bottom in input order with uniform spacing, and every
// layer's row of components is centered on x = 0. Positions follow directly
// from input order; nothing is searched or optimized.
//
//	res, err := layered.Layout(layers, connections, layered.DefaultConfig())
//	if err != nil {
//	    return err // malformed input
//	}
//	sc := res.Scene("Architecture")
//
// Connections whose endpoints do not resolve are skipped and listed in
// [Result.Skipped]; they are never an error.
package layered

import (
	errs "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/geom"
	"github.com/matzehuels/blueprint/pkg/palette"
)

// Config holds the fixed spacing constants of a layered diagram, in layout units.
type Config struct {
	LayerHeight     float64 `toml:"layer_height" json:"layer_height"`
	ComponentWidth  float64 `toml:"component_width" json:"component_width"`
	ComponentHeight float64 `toml:"component_height" json:"component_height"`
	SpacingX        float64 `toml:"spacing_x" json:"spacing_x"`
	SpacingY        float64 `toml:"spacing_y" json:"spacing_y"`
	StartY          float64 `toml:"start_y" json:"start_y"`
	BandPadX        float64 `toml:"band_pad_x" json:"band_pad_x"`
	BandPadY        float64 `toml:"band_pad_y" json:"band_pad_y"`
	TitleOffset     float64 `toml:"title_offset" json:"title_offset"`
	BandOpacity     float64 `toml:"band_opacity" json:"band_opacity"`
}

// DefaultConfig returns the standard layered-diagram constants.
func DefaultConfig() Config {
	return Config{
		LayerHeight:     1.5,
		ComponentWidth:  2.2,
		ComponentHeight: 0.6,
		SpacingX:        0.3,
		SpacingY:        0.2,
		StartY:          8,
		BandPadX:        0.5,
		BandPadY:        0.1,
		TitleOffset:     0.8,
		BandOpacity:     0.3,
	}
}

// Validate checks that box sizes are positive and that spacing and padding
// are not negative. StartY may take any value.
func (c Config) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"layer_height", c.LayerHeight},
		{"component_width", c.ComponentWidth},
		{"component_height", c.ComponentHeight},
	} {
		if f.v <= 0 {
			return errs.Malformed("layered %s must be positive, got %g", f.name, f.v)
		}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"spacing_x", c.SpacingX},
		{"spacing_y", c.SpacingY},
		{"band_pad_x", c.BandPadX},
		{"band_pad_y", c.BandPadY},
		{"title_offset", c.TitleOffset},
	} {
		if f.v < 0 {
			return errs.Malformed("layered %s must not be negative, got %g", f.name, f.v)
		}
	}
	if c.BandOpacity < 0 || c.BandOpacity > 1 {
		return errs.Malformed("layered band_opacity must be in [0, 1], got %g", c.BandOpacity)
	}
	return nil
}

// Layer is one horizontal band of components.
type Layer struct {
	Name       string
	Tone       palette.Tone
	Components []string
}

// Connection is a directed link between two component names.
type Connection struct {
	From, To string
}

// Component is a placed box.
type Component struct {
	Name   string
	Layer  int // index into Result.Layers
	Center geom.Vec
	Half   geom.Vec
}

// Box returns the component's rectangle.
func (c Component) Box() geom.Rect { return geom.RectFromCenter(c.Center, c.Half) }

// PlacedLayer is a layer with its computed geometry.
type PlacedLayer struct {
	Name       string
	Tone       palette.Tone
	Y          float64
	Band       geom.Rect
	TitleAt    geom.Vec
	Components []Component
}

// Arrow is a trimmed connection between two component boxes.
type Arrow struct {
	From, To   string
	Tail, Head geom.Vec
	Downward   bool
}

// Result is the complete geometry of a layered diagram.
type Result struct {
	Layers  []PlacedLayer
	Arrows  []Arrow
	Skipped []Connection

	byName  map[string]Component
	opacity float64
}

// Component returns the placed component with the given name.
func (r *Result) Component(name string) (Component, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Validate checks the input for the conditions Layout refuses.
func Validate(layers []Layer) error {
	if len(layers) == 0 {
		return errs.Malformed("diagram has no layers")
	}
	seen := make(map[string]string)
	for i, l := range layers {
		if err := errs.ValidateName("layer name", l.Name); err != nil {
			return errs.Wrap(errs.ErrCodeMalformedInput, err, "layer %d", i)
		}
		if !l.Tone.Valid() {
			return errs.Malformed("layer %q has no valid color", l.Name)
		}
		if len(l.Components) == 0 {
			return errs.Malformed("layer %q has no components", l.Name)
		}
		for _, c := range l.Components {
			if err := errs.ValidateName("component name", c); err != nil {
				return errs.Wrap(errs.ErrCodeMalformedInput, err, "layer %q", l.Name)
			}
			if prev, dup := seen[c]; dup {
				return errs.Malformed("component %q appears in layers %q and %q", c, prev, l.Name)
			}
			seen[c] = l.Name
		}
	}
	return nil
}

// Layout places every layer and component and routes the connections.
// It returns a MALFORMED_INPUT error without computing anything when the
// layers fail [Validate] or cfg fails [Config.Validate].
func Layout(layers []Layer, conns []Connection, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := Validate(layers); err != nil {
		return nil, err
	}

	res := &Result{
		Layers:  make([]PlacedLayer, 0, len(layers)),
		byName:  make(map[string]Component),
		opacity: cfg.BandOpacity,
	}
	half := geom.V(cfg.ComponentWidth/2, cfg.ComponentHeight/2)

	for i, l := range layers {
		y := cfg.StartY - float64(i)*(cfg.LayerHeight+cfg.SpacingY)
		n := float64(len(l.Components))
		rowWidth := n*cfg.ComponentWidth + (n-1)*cfg.SpacingX
		rowStart := -rowWidth / 2

		pl := PlacedLayer{
			Name: l.Name,
			Tone: l.Tone,
			Y:    y,
			Band: geom.R(
				rowStart-cfg.BandPadX, y-cfg.LayerHeight/2-cfg.BandPadY,
				rowStart+rowWidth+cfg.BandPadX, y+cfg.LayerHeight/2+cfg.BandPadY,
			),
			TitleAt:    geom.V(rowStart-cfg.TitleOffset, y),
			Components: make([]Component, 0, len(l.Components)),
		}

		for j, name := range l.Components {
			x := rowStart + float64(j)*(cfg.ComponentWidth+cfg.SpacingX) + cfg.ComponentWidth/2
			c := Component{Name: name, Layer: i, Center: geom.V(x, y), Half: half}
			pl.Components = append(pl.Components, c)
			res.byName[name] = c
		}
		res.Layers = append(res.Layers, pl)
	}

	for _, conn := range conns {
		src, okS := res.byName[conn.From]
		dst, okD := res.byName[conn.To]
		if !okS || !okD {
			res.Skipped = append(res.Skipped, conn)
			continue
		}
		res.Arrows = append(res.Arrows, route(conn, src, dst))
	}

	return res, nil
}

// route trims a connection to the facing box edges. Arrows are vertical in
// direction only: each end keeps its own component's x.
func route(conn Connection, src, dst Component) Arrow {
	down := src.Center.Y > dst.Center.Y
	dir := geom.V(0, 1)
	if down {
		dir = geom.V(0, -1)
	}
	tail := geom.TrimmedEndpoint(src.Center, src.Half, dir)
	head := geom.TrimmedEndpoint(dst.Center, dst.Half, geom.Scale(-1, dir))
	return Arrow{From: conn.From, To: conn.To, Tail: tail, Head: head, Downward: down}
}
