// Package flow lays out directed flow graphs whose nodes carry explicit
// coordinates.
//
// Node positions are taken as given. The layout only decides how each node
// is drawn (its marker follows from its kind) and where each edge's
// arrowhead sits: a short arrow of fixed length placed just before the
// target node along the line between the two centers.
//
// Unlike layered diagrams, an edge that names an unknown node fails the
// whole call with an UNRESOLVED_REFERENCE error.
package flow

import (
	errs "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/geom"
	"github.com/matzehuels/blueprint/pkg/palette"
)

// Config holds the arrowhead constants, in layout units.
type Config struct {
	// ArrowLength is the length of the arrow shaft drawn near the target.
	ArrowLength float64 `toml:"arrow_length" json:"arrow_length"`
	// HeadInset pulls the arrowhead back from the target center, as a
	// fraction of ArrowLength.
	HeadInset float64 `toml:"head_inset" json:"head_inset"`
}

// DefaultConfig returns the standard flow constants.
func DefaultConfig() Config {
	return Config{ArrowLength: 0.3, HeadInset: 0.8}
}

// Validate requires a positive arrow length and a non-negative head inset.
func (c Config) Validate() error {
	if c.ArrowLength <= 0 {
		return errs.Malformed("flow arrow_length must be positive, got %g", c.ArrowLength)
	}
	if c.HeadInset < 0 {
		return errs.Malformed("flow head_inset must not be negative, got %g", c.HeadInset)
	}
	return nil
}

// Node is a flow node at an explicit position.
type Node struct {
	ID    string
	Pos   geom.Vec
	Kind  palette.NodeKind
	Color string
}

// Edge is a directed edge between node ids.
type Edge struct {
	From, To string
}

// PlacedNode is a node with its resolved marker.
type PlacedNode struct {
	Node
	Marker palette.Marker
}

// PlacedEdge is an edge with its geometry. Start and End are the raw node
// centers. Tail and Head are only meaningful when HasHead is set.
type PlacedEdge struct {
	Edge
	Start, End geom.Vec
	Tail, Head geom.Vec
	HasHead    bool
}

// Result is the complete geometry of a flow graph.
type Result struct {
	Nodes []PlacedNode
	Edges []PlacedEdge
	// Degenerate lists edges whose endpoints coincide. They keep their
	// line but get no arrowhead.
	Degenerate []Edge
}

// DegenerateErrors returns one DEGENERATE_GEOMETRY error per edge in
// Degenerate. The layout has already recovered from them.
func (r *Result) DegenerateErrors() []error {
	out := make([]error, 0, len(r.Degenerate))
	for _, e := range r.Degenerate {
		out = append(out, errs.New(errs.ErrCodeDegenerateGeometry,
			"edge %q -> %q has coincident endpoints, arrowhead omitted", e.From, e.To))
	}
	return out
}

// Validate checks the nodes for the conditions Layout refuses.
func Validate(nodes []Node) error {
	if len(nodes) == 0 {
		return errs.Malformed("flow graph has no nodes")
	}
	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if err := errs.ValidateName("node id", n.ID); err != nil {
			return err
		}
		if _, dup := seen[n.ID]; dup {
			return errs.Malformed("duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
		if _, ok := palette.MarkerFor(n.Kind); !ok {
			return errs.Malformed("node %q has unknown kind %q", n.ID, n.Kind)
		}
	}
	return nil
}

// Layout resolves markers for every node and arrow geometry for every edge.
// Nodes and edges keep caller order.
func Layout(nodes []Node, edges []Edge, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := Validate(nodes); err != nil {
		return nil, err
	}

	byID := make(map[string]geom.Vec, len(nodes))
	res := &Result{Nodes: make([]PlacedNode, 0, len(nodes))}
	for _, n := range nodes {
		m, _ := palette.MarkerFor(n.Kind)
		res.Nodes = append(res.Nodes, PlacedNode{Node: n, Marker: m})
		byID[n.ID] = n.Pos
	}

	res.Edges = make([]PlacedEdge, 0, len(edges))
	for _, e := range edges {
		from, ok := byID[e.From]
		if !ok {
			return nil, errs.Unresolved("node", e.From)
		}
		to, ok := byID[e.To]
		if !ok {
			return nil, errs.Unresolved("node", e.To)
		}

		pe := PlacedEdge{Edge: e, Start: from, End: to}
		if tail, head, ok := arrowhead(from, to, cfg); ok {
			pe.Tail, pe.Head, pe.HasHead = tail, head, true
		} else {
			res.Degenerate = append(res.Degenerate, e)
		}
		res.Edges = append(res.Edges, pe)
	}
	return res, nil
}

// arrowhead places a fixed-length arrow just before to, pointing away from
// from. It reports false when the two points coincide.
func arrowhead(from, to geom.Vec, cfg Config) (tail, head geom.Vec, ok bool) {
	d := geom.Vector(from, to)
	if geom.Length(d) == 0 {
		return geom.Vec{}, geom.Vec{}, false
	}
	n := geom.Scale(cfg.ArrowLength, geom.Normalize(d))
	head = geom.Sub(to, geom.Scale(cfg.HeadInset, n))
	tail = geom.Sub(head, n)
	return tail, head, true
}
