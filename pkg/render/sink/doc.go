// Package sink turns scenes into output artifacts.
//
// Every sink consumes a [scene.Scene] and draws its commands in
// [scene.Scene.Ordered] order, so layering is identical across formats.
//
// # Available Sinks
//
//   - [RenderJSON]: the ordered draw list, for external renderers
//   - [RenderSVG]: a standalone SVG drawn with svgo
//   - [ToDOT] and [RenderGraphviz]: a Graphviz graph with nodes pinned to
//     their layout positions, rendered by the neato engine
//
// # Coordinates
//
// Scenes are in layout units. [RenderSVG] maps them to pixels with
// [WithScale] and flips the y axis unless the scene is YDown. DOT output
// uses layout units as inches, which is what neato expects for pinned
// positions.
//
// Raster and PDF output are not provided.
package sink

import "errors"

// ErrUnsupported is returned when a sink cannot represent a scene, such as
// a timeline in DOT form.
var ErrUnsupported = errors.New("scene not supported by this format")
