// Package scene defines the output contract of every layout: an ordered list
// of draw primitives that a render adapter consumes.
//
// # Draw order
//
// Layering is explicit rather than implied by emission order. Every command
// belongs to a [Layer] and adapters must draw layers in ascending order:
//
//	Band < Edge < Box < Marker < Arrow < Label
//
// Within a layer, commands keep the order in which the layout emitted them.
// [Scene.Ordered] returns the commands in that order.
//
// # Coordinates
//
// Scenes use layout units with y pointing up, except when [Scene.YDown] is
// set (timelines put row 0 at the top). Mapping units to pixels is the
// adapter's job.
package scene

import (
	"slices"

	"github.com/matzehuels/blueprint/pkg/geom"
	"github.com/matzehuels/blueprint/pkg/palette"
)

// Mode names the layout that produced a scene.
type Mode string

const (
	ModeLayered  Mode = "layered"
	ModeFlow     Mode = "flow"
	ModeTimeline Mode = "timeline"
)

// Layer is a draw-order category.
type Layer int

const (
	LayerBand Layer = iota
	LayerEdge
	LayerBox
	LayerMarker
	LayerArrow
	LayerLabel
)

var layerNames = [...]string{"band", "edge", "box", "marker", "arrow", "label"}

func (l Layer) String() string {
	if l < 0 || int(l) >= len(layerNames) {
		return "unknown"
	}
	return layerNames[l]
}

// Rect is a filled rectangle. Opacity 0 means fully opaque.
type Rect struct {
	ID          string    `json:"id,omitempty"`
	Box         geom.Rect `json:"box"`
	Fill        string    `json:"fill,omitempty"`
	Border      string    `json:"border,omitempty"`
	BorderWidth float64   `json:"border_width,omitempty"`
	Opacity     float64   `json:"opacity,omitempty"`
}

// Anchor is the horizontal alignment of a label relative to its point.
type Anchor string

const (
	AnchorMiddle Anchor = "middle"
	AnchorStart  Anchor = "start"
	AnchorEnd    Anchor = "end"
)

// Label is a text annotation. Rotation is in degrees, clockwise as seen on
// screen, so -90 reads bottom to top.
type Label struct {
	At       geom.Vec `json:"at"`
	Text     string   `json:"text"`
	Rotation float64  `json:"rotation,omitempty"`
	Size     float64  `json:"size,omitempty"`
	Bold     bool     `json:"bold,omitempty"`
	Anchor   Anchor   `json:"anchor,omitempty"`
}

// Line is a plain segment, used for edge bodies.
type Line struct {
	FromID string   `json:"from_id,omitempty"`
	ToID   string   `json:"to_id,omitempty"`
	From   geom.Vec `json:"from"`
	To     geom.Vec `json:"to"`
	Color  string   `json:"color,omitempty"`
	Width  float64  `json:"width,omitempty"`
}

// Arrow is a segment with an arrowhead at To.
type Arrow struct {
	FromID string   `json:"from_id,omitempty"`
	ToID   string   `json:"to_id,omitempty"`
	From   geom.Vec `json:"from"`
	To     geom.Vec `json:"to"`
	Color  string   `json:"color,omitempty"`
	Width  float64  `json:"width,omitempty"`
}

// Marker is a point symbol. Size is in renderer points, not layout units.
type Marker struct {
	ID     string        `json:"id,omitempty"`
	At     geom.Vec      `json:"at"`
	Shape  palette.Shape `json:"shape"`
	Size   float64       `json:"size"`
	Fill   string        `json:"fill,omitempty"`
	Border string        `json:"border,omitempty"`
}

// Command is one draw instruction. Exactly one primitive pointer is set.
type Command struct {
	Layer  Layer   `json:"layer"`
	Rect   *Rect   `json:"rect,omitempty"`
	Line   *Line   `json:"line,omitempty"`
	Arrow  *Arrow  `json:"arrow,omitempty"`
	Marker *Marker `json:"marker,omitempty"`
	Label  *Label  `json:"label,omitempty"`
}

// Valid reports whether exactly one primitive is set.
func (c Command) Valid() bool {
	n := 0
	for _, set := range []bool{c.Rect != nil, c.Line != nil, c.Arrow != nil, c.Marker != nil, c.Label != nil} {
		if set {
			n++
		}
	}
	return n == 1
}

// Scene is the complete geometry produced by one layout call.
type Scene struct {
	Mode     Mode      `json:"mode"`
	Title    string    `json:"title,omitempty"`
	YDown    bool      `json:"y_down,omitempty"`
	Viewport geom.Rect `json:"viewport"`
	Commands []Command `json:"commands"`
}

// New returns an empty scene for the given mode.
func New(mode Mode, title string) *Scene {
	return &Scene{Mode: mode, Title: title}
}

// AddRect appends a rectangle on layer l.
func (s *Scene) AddRect(l Layer, r Rect) {
	s.Commands = append(s.Commands, Command{Layer: l, Rect: &r})
}

// AddLine appends an edge body.
func (s *Scene) AddLine(l Line) {
	s.Commands = append(s.Commands, Command{Layer: LayerEdge, Line: &l})
}

// AddArrow appends an arrow.
func (s *Scene) AddArrow(a Arrow) {
	s.Commands = append(s.Commands, Command{Layer: LayerArrow, Arrow: &a})
}

// AddMarker appends a point marker.
func (s *Scene) AddMarker(m Marker) {
	s.Commands = append(s.Commands, Command{Layer: LayerMarker, Marker: &m})
}

// AddLabel appends a text label.
func (s *Scene) AddLabel(l Label) {
	s.Commands = append(s.Commands, Command{Layer: LayerLabel, Label: &l})
}

// Ordered returns the commands in draw order. The scene is not modified.
func (s *Scene) Ordered() []Command {
	out := slices.Clone(s.Commands)
	slices.SortStableFunc(out, func(a, b Command) int { return int(a.Layer) - int(b.Layer) })
	return out
}

// Len returns the total number of commands.
func (s *Scene) Len() int { return len(s.Commands) }

// Count returns the number of commands on layer l.
func (s *Scene) Count(l Layer) int {
	n := 0
	for _, c := range s.Commands {
		if c.Layer == l {
			n++
		}
	}
	return n
}

// Bounds returns the smallest rectangle containing every primitive's
// geometry. Marker sizes and label extents are not included since they are
// measured in renderer units. An empty scene has zero bounds.
func (s *Scene) Bounds() geom.Rect {
	var (
		b     geom.Rect
		first = true
	)
	grow := func(r geom.Rect) {
		if first {
			b, first = r, false
			return
		}
		b = b.Union(r)
	}
	point := func(p geom.Vec) { grow(geom.Rect{Min: p, Max: p}) }

	for _, c := range s.Commands {
		switch {
		case c.Rect != nil:
			grow(c.Rect.Box)
		case c.Line != nil:
			point(c.Line.From)
			point(c.Line.To)
		case c.Arrow != nil:
			point(c.Arrow.From)
			point(c.Arrow.To)
		case c.Marker != nil:
			point(c.Marker.At)
		case c.Label != nil:
			point(c.Label.At)
		}
	}
	return b
}
