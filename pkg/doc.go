// Package pkg holds the libraries behind blueprint.
//
// # Overview
//
// Blueprint turns declarative diagram documents into positioned shapes. A
// document is one of three kinds: a layered architecture diagram, a flow
// graph with hand-placed nodes, or a phase timeline with milestones. Each
// kind has its own layout engine; all of them produce the same [scene]
// representation, which the sinks turn into output.
//
//	YAML / JSON / TOML document
//	         ↓
//	    [diagram] (decode + validate)
//	         ↓
//	    [layered] | [flow] | [timeline] (layout)
//	         ↓
//	    [scene] (ordered draw commands)
//	         ↓
//	    [render/sink] (JSON, SVG, DOT, Graphviz SVG)
//
// # Packages
//
// Geometry and styling:
//   - [geom]: vectors and the arrow helpers used by flow layouts
//   - [palette]: colors, border tones and node shapes
//
// Orchestration:
//   - [pipeline]: layout and render with caching, shared by CLI and server
//   - [cache]: file, Redis and null caches plus key derivation
//   - [server]: the HTTP layout service
//   - [observability]: hooks for metrics and tracing backends
//
// Support:
//   - [errors]: coded errors shared by every layer
//   - [buildinfo]: version information set at build time
//
// # Quick Start
//
//	doc, err := diagram.ReadFile("arch.yaml")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("arch.svg", result.Artifacts["svg"], 0o644)
package pkg
