package flow

import (
	"github.com/matzehuels/blueprint/pkg/palette"
	"github.com/matzehuels/blueprint/pkg/scene"
)

const (
	edgeWidth   = 3
	arrowWidth  = 2
	nodeTextPt  = 11
	viewportPad = 1
)

// Scene converts the result into draw commands. Edge bodies go on the edge
// layer so that markers cover their ends and arrowheads sit on top.
func (r *Result) Scene(title string) *scene.Scene {
	sc := scene.New(scene.ModeFlow, title)

	for _, e := range r.Edges {
		sc.AddLine(scene.Line{
			FromID: e.From,
			ToID:   e.To,
			From:   e.Start,
			To:     e.End,
			Color:  palette.Ink,
			Width:  edgeWidth,
		})
		if e.HasHead {
			sc.AddArrow(scene.Arrow{
				FromID: e.From,
				ToID:   e.To,
				From:   e.Tail,
				To:     e.Head,
				Color:  palette.Ink,
				Width:  arrowWidth,
			})
		}
	}

	for _, n := range r.Nodes {
		sc.AddMarker(scene.Marker{
			ID:     n.ID,
			At:     n.Pos,
			Shape:  n.Marker.Shape,
			Size:   n.Marker.Size,
			Fill:   n.Color,
			Border: palette.Ink,
		})
		sc.AddLabel(scene.Label{
			At:     n.Pos,
			Text:   n.ID,
			Size:   nodeTextPt,
			Bold:   true,
			Anchor: scene.AnchorMiddle,
		})
	}

	sc.Viewport = sc.Bounds().Inset(viewportPad, viewportPad)
	return sc
}
