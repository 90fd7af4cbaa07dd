package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/blueprint/pkg/palette"
	"github.com/matzehuels/blueprint/pkg/scene"
)

// pointsPerInch converts marker sizes, which are in points, to inches.
const pointsPerInch = 72

// ToDOT converts a scene to Graphviz DOT. Identified boxes and markers
// become nodes pinned to their positions; lines and arrows that name both
// endpoints become edges. Timelines have no graph structure and return
// [ErrUnsupported].
func ToDOT(sc *scene.Scene) (string, error) {
	if sc.Mode == scene.ModeTimeline {
		return "", fmt.Errorf("dot: %s: %w", sc.Mode, ErrUnsupported)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	if sc.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", sc.Title)
	}
	buf.WriteString("  node [style=filled, fontname=\"Helvetica\", fontsize=10, fixedsize=true];\n")
	buf.WriteString("\n")

	nodes := 0
	for _, c := range sc.Ordered() {
		switch {
		case c.Layer == scene.LayerBox && c.Rect != nil && c.Rect.ID != "":
			r := c.Rect
			attrs := []string{
				"shape=box",
				fmt.Sprintf("pos=\"%s!\"", pos(r.Box.Center().X, r.Box.Center().Y)),
				fmt.Sprintf("width=%s", num(r.Box.Width())),
				fmt.Sprintf("height=%s", num(r.Box.Height())),
				fmt.Sprintf("fillcolor=%q", r.Fill),
			}
			if r.Border != "" {
				attrs = append(attrs, fmt.Sprintf("color=%q", r.Border), fmt.Sprintf("penwidth=%s", num(r.BorderWidth)))
			}
			fmt.Fprintf(&buf, "  %q [%s];\n", r.ID, strings.Join(attrs, ", "))
			nodes++
		case c.Marker != nil && c.Marker.ID != "":
			m := c.Marker
			size := num(m.Size / pointsPerInch)
			attrs := []string{
				"shape=" + dotShape(m.Shape),
				fmt.Sprintf("pos=\"%s!\"", pos(m.At.X, m.At.Y)),
				"width=" + size,
				"height=" + size,
				fmt.Sprintf("fillcolor=%q", m.Fill),
			}
			if m.Border != "" {
				attrs = append(attrs, fmt.Sprintf("color=%q", m.Border))
			}
			fmt.Fprintf(&buf, "  %q [%s];\n", m.ID, strings.Join(attrs, ", "))
			nodes++
		}
	}
	if nodes == 0 {
		return "", fmt.Errorf("dot: scene has no identified nodes: %w", ErrUnsupported)
	}

	buf.WriteString("\n")
	seen := make(map[[2]string]bool)
	edge := func(from, to, color string, width float64) {
		if from == "" || to == "" || seen[[2]string{from, to}] {
			return
		}
		seen[[2]string{from, to}] = true
		fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=%s];\n", from, to, color, num(width))
	}
	for _, c := range sc.Commands {
		switch {
		case c.Line != nil:
			edge(c.Line.FromID, c.Line.ToID, c.Line.Color, c.Line.Width)
		case c.Arrow != nil:
			edge(c.Arrow.FromID, c.Arrow.ToID, c.Arrow.Color, c.Arrow.Width)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func dotShape(s palette.Shape) string {
	switch s {
	case palette.ShapeCircle:
		return "circle"
	case palette.ShapeDiamond:
		return "diamond"
	default:
		return "square"
	}
}

func pos(x, y float64) string { return num(x) + "," + num(y) }

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// RenderGraphviz renders DOT produced by [ToDOT] to SVG with the neato
// engine, which honors pinned positions.
func RenderGraphviz(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one whose
// width and height match the viewBox, so the output scales like RenderSVG's.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
