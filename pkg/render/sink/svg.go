package sink

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/blueprint/pkg/geom"
	"github.com/matzehuels/blueprint/pkg/palette"
	"github.com/matzehuels/blueprint/pkg/scene"
)

const (
	defaultScale  = 60 // pixels per layout unit
	titleBand     = 40
	titleFontPx   = 18
	arrowHeadLen  = 9
	arrowHeadHalf = 4.5
	fontFamily    = "Helvetica,Arial,sans-serif"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale      float64
	background string
	title      bool
}

// WithScale sets the number of pixels per layout unit.
func WithScale(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.scale = px
		}
	}
}

// WithBackground fills the canvas with a solid color.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithoutTitle suppresses the title band even when the scene has a title.
func WithoutTitle() SVGOption { return func(r *svgRenderer) { r.title = false } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{scale: defaultScale, background: palette.White, title: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws the scene as a standalone SVG document.
func RenderSVG(sc *scene.Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	vp := sc.Viewport
	if vp.Width() == 0 || vp.Height() == 0 {
		vp = sc.Bounds().Inset(1, 1)
	}
	top := 0.0
	if r.title && sc.Title != "" {
		top = titleBand
	}
	p := projector{vp: vp, scale: r.scale, yDown: sc.YDown, top: top}

	width := int(math.Ceil(vp.Width() * r.scale))
	height := int(math.Ceil(vp.Height()*r.scale + top))

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, height)
	if sc.Title != "" {
		canvas.Title(sc.Title)
	}
	if r.background != "" {
		canvas.Rect(0, 0, width, height, "fill:"+r.background)
	}
	if top > 0 {
		canvas.Text(width/2, int(top*0.7), sc.Title,
			fmt.Sprintf("text-anchor:middle;font-size:%dpx;font-family:%s;fill:%s", titleFontPx, fontFamily, palette.Text))
	}

	for _, c := range sc.Ordered() {
		switch {
		case c.Rect != nil:
			drawRect(canvas, p, c.Rect)
		case c.Line != nil:
			drawLine(canvas, p, c.Line.From, c.Line.To, c.Line.Color, c.Line.Width)
		case c.Arrow != nil:
			drawArrow(canvas, p, c.Arrow)
		case c.Marker != nil:
			drawMarker(canvas, p, c.Marker)
		case c.Label != nil:
			drawLabel(canvas, p, c.Label)
		}
	}

	canvas.End()
	return buf.Bytes()
}

// projector maps layout units to integer pixel coordinates.
type projector struct {
	vp    geom.Rect
	scale float64
	yDown bool
	top   float64
}

func (p projector) xy(v geom.Vec) (int, int) {
	x := (v.X - p.vp.Min.X) * p.scale
	var y float64
	if p.yDown {
		y = (v.Y - p.vp.Min.Y) * p.scale
	} else {
		y = (p.vp.Max.Y - v.Y) * p.scale
	}
	return int(math.Round(x)), int(math.Round(y + p.top))
}

func drawRect(canvas *svg.SVG, p projector, r *scene.Rect) {
	x0, y0 := p.xy(r.Box.Min)
	x1, y1 := p.xy(r.Box.Max)
	x, y := min(x0, x1), min(y0, y1)
	w, h := abs(x1-x0), abs(y1-y0)

	style := []string{"fill:" + orNone(r.Fill)}
	if r.Border != "" && r.BorderWidth > 0 {
		style = append(style, "stroke:"+r.Border, fmt.Sprintf("stroke-width:%g", r.BorderWidth))
	}
	if r.Opacity > 0 && r.Opacity < 1 {
		style = append(style, fmt.Sprintf("fill-opacity:%g", r.Opacity))
	}
	if r.ID != "" {
		canvas.Rect(x, y, w, h, `id="`+svgID(r.ID)+`"`, strings.Join(style, ";"))
		return
	}
	canvas.Rect(x, y, w, h, strings.Join(style, ";"))
}

func drawLine(canvas *svg.SVG, p projector, from, to geom.Vec, color string, width float64) {
	x1, y1 := p.xy(from)
	x2, y2 := p.xy(to)
	canvas.Line(x1, y1, x2, y2, strokeStyle(color, width))
}

func drawArrow(canvas *svg.SVG, p projector, a *scene.Arrow) {
	drawLine(canvas, p, a.From, a.To, a.Color, a.Width)

	x1, y1 := p.xy(a.From)
	x2, y2 := p.xy(a.To)
	dir := geom.Normalize(geom.V(float64(x2-x1), float64(y2-y1)))
	if geom.Length(dir) == 0 {
		return
	}
	tip := geom.V(float64(x2), float64(y2))
	back := geom.Sub(tip, geom.Scale(arrowHeadLen, dir))
	side := geom.Scale(arrowHeadHalf, geom.V(-dir.Y, dir.X))
	l, r := geom.Add(back, side), geom.Sub(back, side)
	canvas.Polygon(
		[]int{x2, round(l.X), round(r.X)},
		[]int{y2, round(l.Y), round(r.Y)},
		"fill:"+orNone(a.Color),
	)
}

func drawMarker(canvas *svg.SVG, p projector, m *scene.Marker) {
	x, y := p.xy(m.At)
	half := m.Size / 2
	style := "fill:" + orNone(m.Fill)
	if m.Border != "" {
		style += ";stroke:" + m.Border + ";stroke-width:2"
	}
	switch m.Shape {
	case palette.ShapeCircle:
		canvas.Circle(x, y, round(half), style)
	case palette.ShapeDiamond:
		h := round(half)
		canvas.Polygon([]int{x, x + h, x, x - h}, []int{y - h, y, y + h, y}, style)
	default:
		h := round(half)
		canvas.Rect(x-h, y-h, 2*h, 2*h, style)
	}
}

func drawLabel(canvas *svg.SVG, p projector, l *scene.Label) {
	x, y := p.xy(l.At)
	size := l.Size
	if size <= 0 {
		size = 10
	}
	anchor := l.Anchor
	if anchor == "" {
		anchor = scene.AnchorMiddle
	}
	style := fmt.Sprintf("text-anchor:%s;dominant-baseline:middle;font-size:%gpx;font-family:%s;fill:%s",
		anchor, size, fontFamily, palette.Text)
	if l.Bold {
		style += ";font-weight:bold"
	}

	if l.Rotation != 0 {
		canvas.Gtransform(fmt.Sprintf("rotate(%g %d %d)", l.Rotation, x, y))
		canvas.Text(x, y, l.Text, style)
		canvas.Gend()
		return
	}
	canvas.Text(x, y, l.Text, style)
}

func strokeStyle(color string, width float64) string {
	if width <= 0 {
		width = 1
	}
	return fmt.Sprintf("stroke:%s;stroke-width:%g", orNone(color), width)
}

func orNone(color string) string {
	if color == "" {
		return "none"
	}
	return color
}

// svgID makes an element id out of an arbitrary name.
func svgID(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

func round(f float64) int { return int(math.Round(f)) }

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
