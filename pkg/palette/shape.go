package palette

import "fmt"

// Shape is the outline of a point marker.
type Shape string

const (
	ShapeCircle  Shape = "circle"
	ShapeSquare  Shape = "square"
	ShapeDiamond Shape = "diamond"
)

// NodeKind classifies a flow node. The kind picks the marker, never the position.
type NodeKind string

const (
	KindStart    NodeKind = "start"
	KindEnd      NodeKind = "end"
	KindDecision NodeKind = "decision"
	KindProcess  NodeKind = "process"
	KindSpecial  NodeKind = "special"
)

// Marker describes how a node kind is drawn. Size is in renderer points.
type Marker struct {
	Shape Shape
	Size  float64
}

var markers = map[NodeKind]Marker{
	KindDecision: {ShapeDiamond, 80},
	KindStart:    {ShapeCircle, 70},
	KindEnd:      {ShapeCircle, 70},
	KindProcess:  {ShapeSquare, 75},
	KindSpecial:  {ShapeSquare, 75},
}

// ParseNodeKind validates a node kind name.
func ParseNodeKind(s string) (NodeKind, error) {
	k := NodeKind(s)
	if _, ok := markers[k]; !ok {
		return "", fmt.Errorf("unknown node kind %q", s)
	}
	return k, nil
}

// MarkerFor returns the marker for kind and whether the kind is known.
func MarkerFor(kind NodeKind) (Marker, bool) {
	m, ok := markers[kind]
	return m, ok
}

// Neutral colors shared by every mode.
const (
	Ink       = "#13343B" // flow edges and marker outlines
	ArrowGray = "#666666" // layered connection arrows
	Milestone = "#DB4545" // timeline milestone markers
	Text      = "#000000"
	White     = "#FFFFFF"
)
