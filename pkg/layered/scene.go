package layered

import (
	"github.com/matzehuels/blueprint/pkg/geom"
	"github.com/matzehuels/blueprint/pkg/palette"
	"github.com/matzehuels/blueprint/pkg/scene"
)

const (
	boxBorderWidth   = 2
	arrowWidth       = 1.5
	componentTextPt  = 10
	layerTitleTextPt = 12
	titleRotation    = -90
	viewportMargin   = 1
)

// Scene converts the result into draw commands: one translucent band and a
// rotated title per layer, one bordered box and label per component, and one
// arrow per resolved connection.
func (r *Result) Scene(title string) *scene.Scene {
	sc := scene.New(scene.ModeLayered, title)

	for _, l := range r.Layers {
		sc.AddRect(scene.LayerBand, scene.Rect{
			ID:      "layer:" + l.Name,
			Box:     l.Band,
			Fill:    l.Tone.Fill(),
			Opacity: r.bandOpacity(),
		})
		sc.AddLabel(scene.Label{
			At:       l.TitleAt,
			Text:     l.Name,
			Rotation: titleRotation,
			Size:     layerTitleTextPt,
			Bold:     true,
			Anchor:   scene.AnchorMiddle,
		})
		for _, c := range l.Components {
			sc.AddRect(scene.LayerBox, scene.Rect{
				ID:          c.Name,
				Box:         c.Box(),
				Fill:        l.Tone.Fill(),
				Border:      l.Tone.Border(),
				BorderWidth: boxBorderWidth,
			})
			sc.AddLabel(scene.Label{
				At:     c.Center,
				Text:   c.Name,
				Size:   componentTextPt,
				Anchor: scene.AnchorMiddle,
			})
		}
	}

	for _, a := range r.Arrows {
		sc.AddArrow(scene.Arrow{
			FromID: a.From,
			ToID:   a.To,
			From:   a.Tail,
			To:     a.Head,
			Color:  palette.ArrowGray,
			Width:  arrowWidth,
		})
	}

	sc.Viewport = viewport(sc.Bounds())
	return sc
}

func (r *Result) bandOpacity() float64 {
	if r.opacity > 0 {
		return r.opacity
	}
	return DefaultConfig().BandOpacity
}

// viewport pads the content bounds so rotated titles and arrowheads stay inside.
func viewport(b geom.Rect) geom.Rect {
	return b.Inset(viewportMargin, viewportMargin)
}
