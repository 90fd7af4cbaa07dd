// Package diagram reads diagram documents and converts them into layout
// inputs.
//
// A document is a single structure whose kind field selects which of the
// other fields apply:
//
//	kind: layered
//	title: Architecture
//	layers:
//	  - name: UI Layer
//	    color: blue
//	    components: [iPhone App, iPad App]
//	connections:
//	  - [iPhone App, ViewModels]
//
// Documents may be written in YAML, JSON or TOML. Every decoding or
// validation failure is reported as MALFORMED_INPUT.
package diagram

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"

	errs "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/flow"
	"github.com/matzehuels/blueprint/pkg/geom"
	"github.com/matzehuels/blueprint/pkg/layered"
	"github.com/matzehuels/blueprint/pkg/palette"
	"github.com/matzehuels/blueprint/pkg/timeline"
)

// Kind selects the layout mode of a document.
type Kind string

const (
	KindLayered  Kind = "layered"
	KindFlow     Kind = "flow"
	KindTimeline Kind = "timeline"
)

// Kinds returns every supported kind.
func Kinds() []Kind {
	return []Kind{KindLayered, KindFlow, KindTimeline}
}

// Document is a decoded diagram description.
type Document struct {
	Kind  Kind   `yaml:"kind" json:"kind" toml:"kind" validate:"required,oneof=layered flow timeline"`
	Title string `yaml:"title" json:"title,omitempty" toml:"title"`

	// layered
	Layers      []LayerSpec `yaml:"layers" json:"layers,omitempty" toml:"layers" validate:"required_if=Kind layered,dive"`
	Connections []Pair      `yaml:"connections" json:"connections,omitempty" toml:"connections" validate:"dive,len=2"`

	// flow
	Nodes map[string]NodeSpec `yaml:"nodes" json:"nodes,omitempty" toml:"nodes" validate:"required_if=Kind flow,dive"`
	Edges []Pair              `yaml:"edges" json:"edges,omitempty" toml:"edges" validate:"dive,len=2"`

	// timeline
	Phases        []PhaseSpec       `yaml:"phases" json:"phases,omitempty" toml:"phases" validate:"required_if=Kind timeline,dive"`
	Milestones    []MilestoneSpec   `yaml:"milestones" json:"milestones,omitempty" toml:"milestones" validate:"dive"`
	Abbreviations map[string]string `yaml:"abbreviations" json:"abbreviations,omitempty" toml:"abbreviations"`
}

// Pair is a [from, to] reference pair.
type Pair []string

// LayerSpec describes one layer of a layered diagram.
type LayerSpec struct {
	Name       string   `yaml:"name" json:"name" toml:"name" validate:"required"`
	Color      string   `yaml:"color" json:"color" toml:"color" validate:"required"`
	Components []string `yaml:"components" json:"components" toml:"components" validate:"required,dive,required"`
}

// NodeSpec describes one flow node. The id is the map key.
type NodeSpec struct {
	X     float64 `yaml:"x" json:"x" toml:"x"`
	Y     float64 `yaml:"y" json:"y" toml:"y"`
	Kind  string  `yaml:"kind" json:"kind" toml:"kind" validate:"required"`
	Color string  `yaml:"color" json:"color,omitempty" toml:"color"`
}

// PhaseSpec describes one timeline phase.
type PhaseSpec struct {
	Name     string   `yaml:"name" json:"name" toml:"name" validate:"required"`
	Duration int      `yaml:"duration" json:"duration" toml:"duration" validate:"gt=0"`
	Color    string   `yaml:"color" json:"color" toml:"color"`
	Tasks    []string `yaml:"tasks" json:"tasks" toml:"tasks" validate:"required,dive,required"`
}

// MilestoneSpec describes one timeline milestone. Month is a pointer so a
// missing time can be told apart from month 0.
type MilestoneSpec struct {
	Name  string   `yaml:"name" json:"name" toml:"name" validate:"required"`
	Month *float64 `yaml:"month" json:"month" toml:"month" validate:"required"`
}

// Hash returns a stable content hash of the document. Map fields are
// serialized in key order, so equal documents hash equally regardless of
// the source format.
func (d *Document) Hash() string {
	data, _ := json.Marshal(d)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Layered converts a layered document into layout input.
func (d *Document) Layered() ([]layered.Layer, []layered.Connection, error) {
	if d.Kind != KindLayered {
		return nil, nil, kindMismatch(d.Kind, KindLayered)
	}
	layers := make([]layered.Layer, 0, len(d.Layers))
	for _, l := range d.Layers {
		tone, err := palette.ParseTone(l.Color)
		if err != nil {
			return nil, nil, errs.Wrap(errs.ErrCodeMalformedInput, err, "layer %q", l.Name)
		}
		layers = append(layers, layered.Layer{
			Name:       l.Name,
			Tone:       tone,
			Components: slices.Clone(l.Components),
		})
	}
	conns := make([]layered.Connection, 0, len(d.Connections))
	for i, p := range d.Connections {
		from, to, err := p.split("connection", i)
		if err != nil {
			return nil, nil, err
		}
		conns = append(conns, layered.Connection{From: from, To: to})
	}
	return layers, conns, nil
}

// Flow converts a flow document into layout input. Nodes are sorted by id
// since map order carries no meaning.
func (d *Document) Flow() ([]flow.Node, []flow.Edge, error) {
	if d.Kind != KindFlow {
		return nil, nil, kindMismatch(d.Kind, KindFlow)
	}
	ids := make([]string, 0, len(d.Nodes))
	for id := range d.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	nodes := make([]flow.Node, 0, len(ids))
	for _, id := range ids {
		spec := d.Nodes[id]
		kind, err := palette.ParseNodeKind(spec.Kind)
		if err != nil {
			return nil, nil, errs.Wrap(errs.ErrCodeMalformedInput, err, "node %q", id)
		}
		nodes = append(nodes, flow.Node{
			ID:    id,
			Pos:   geom.V(spec.X, spec.Y),
			Kind:  kind,
			Color: spec.Color,
		})
	}
	edges := make([]flow.Edge, 0, len(d.Edges))
	for i, p := range d.Edges {
		from, to, err := p.split("edge", i)
		if err != nil {
			return nil, nil, err
		}
		edges = append(edges, flow.Edge{From: from, To: to})
	}
	return nodes, edges, nil
}

// Timeline converts a timeline document into layout input.
func (d *Document) Timeline() (timeline.Input, error) {
	if d.Kind != KindTimeline {
		return timeline.Input{}, kindMismatch(d.Kind, KindTimeline)
	}
	in := timeline.Input{
		Phases:        make([]timeline.Phase, 0, len(d.Phases)),
		Milestones:    make([]timeline.Milestone, 0, len(d.Milestones)),
		Abbreviations: d.Abbreviations,
	}
	for _, p := range d.Phases {
		in.Phases = append(in.Phases, timeline.Phase{
			Name:     p.Name,
			Duration: p.Duration,
			Color:    p.Color,
			Tasks:    slices.Clone(p.Tasks),
		})
	}
	for _, m := range d.Milestones {
		if m.Month == nil {
			return timeline.Input{}, errs.Malformed("milestone %q has no month", m.Name)
		}
		in.Milestones = append(in.Milestones, timeline.Milestone{Name: m.Name, Time: *m.Month})
	}
	return in, nil
}

func (p Pair) split(what string, i int) (string, string, error) {
	if len(p) != 2 {
		return "", "", errs.Malformed("%s %d must be a [from, to] pair, got %d entries", what, i, len(p))
	}
	return p[0], p[1], nil
}

func kindMismatch(got, want Kind) error {
	return errs.New(errs.ErrCodeInvalidKind, "document kind is %q, not %q", got, want)
}
