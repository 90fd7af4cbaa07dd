package timeline

import (
	"strconv"

	"github.com/matzehuels/blueprint/pkg/geom"
	"github.com/matzehuels/blueprint/pkg/palette"
	"github.com/matzehuels/blueprint/pkg/scene"
)

const (
	rowLabelPad    = 0.2
	rowLabelMargin = 3 // room for row labels left of the axis origin
	milestoneLift  = 0.45
	axisGap        = 0.8
	tickLabelDrop  = 0.5
	legendY        = -1.5
	legendSwatch   = 0.4
	textPt         = 10
	axisWidth      = 1
	legendTextPt   = 11
)

// Scene converts the result into draw commands. The scene is YDown: row 0
// is at the top and milestones sit below the task rows.
func (r *Result) Scene(title string) *scene.Scene {
	sc := scene.New(scene.ModeTimeline, title)
	sc.YDown = true

	half := r.barHeight / 2
	if half <= 0 {
		half = DefaultConfig().BarHeight / 2
	}
	for _, row := range r.Rows {
		sc.AddRect(scene.LayerBox, scene.Rect{
			Box:  geom.R(row.Start, row.Y-half, row.End, row.Y+half),
			Fill: row.Color,
		})
		sc.AddLabel(scene.Label{
			At:     geom.V(-rowLabelPad, row.Y),
			Text:   row.Label,
			Size:   textPt,
			Anchor: scene.AnchorEnd,
		})
	}

	size := r.markerSize
	if size <= 0 {
		size = DefaultConfig().MarkerSize
	}
	bottom := r.LastRow
	for _, m := range r.Milestones {
		sc.AddMarker(scene.Marker{
			ID:     m.Name,
			At:     m.At,
			Shape:  palette.ShapeDiamond,
			Size:   size,
			Fill:   palette.Milestone,
			Border: palette.White,
		})
		sc.AddLabel(scene.Label{
			At:     geom.V(m.At.X, m.At.Y-milestoneLift),
			Text:   m.Label,
			Size:   textPt,
			Anchor: scene.AnchorMiddle,
		})
		bottom = max(bottom, m.At.Y)
	}

	r.addAxis(sc, bottom+axisGap)
	r.addLegend(sc)

	sc.Viewport = sc.Bounds().Inset(rowLabelMargin, 1)
	return sc
}

// addAxis draws the time axis below everything else with one tick label per
// unit, starting at 1.
func (r *Result) addAxis(sc *scene.Scene, y float64) {
	sc.AddLine(scene.Line{
		From:  geom.V(0, y),
		To:    geom.V(r.AxisEnd, y),
		Color: palette.Text,
		Width: axisWidth,
	})
	for t := 1; float64(t) < r.AxisEnd; t++ {
		sc.AddLabel(scene.Label{
			At:     geom.V(float64(t), y+tickLabelDrop),
			Text:   strconv.Itoa(t),
			Size:   textPt,
			Anchor: scene.AnchorMiddle,
		})
	}
}

// addLegend draws one swatch per phase in a row above the task bars.
func (r *Result) addLegend(sc *scene.Scene) {
	if len(r.Phases) == 0 {
		return
	}
	step := r.AxisEnd / float64(len(r.Phases))
	for i, p := range r.Phases {
		x := float64(i) * step
		sc.AddRect(scene.LayerBox, scene.Rect{
			ID:   "phase:" + p.Name,
			Box:  geom.R(x, legendY-legendSwatch/2, x+legendSwatch, legendY+legendSwatch/2),
			Fill: p.Color,
		})
		sc.AddLabel(scene.Label{
			At:     geom.V(x+legendSwatch+rowLabelPad, legendY),
			Text:   p.Name,
			Size:   legendTextPt,
			Anchor: scene.AnchorStart,
		})
	}
}
