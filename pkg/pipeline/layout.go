package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/blueprint/pkg/diagram"
	errs "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/flow"
	"github.com/matzehuels/blueprint/pkg/layered"
	"github.com/matzehuels/blueprint/pkg/scene"
	"github.com/matzehuels/blueprint/pkg/timeline"
)

// Layout computes the scene of a document, without caching.
func Layout(doc *diagram.Document, opts Options) (*scene.Scene, error) {
	opts.SetLayoutDefaults()
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	switch doc.Kind {
	case diagram.KindLayered:
		return layoutLayered(doc, opts.Layered, logger)
	case diagram.KindFlow:
		return layoutFlow(doc, opts.Flow, logger)
	case diagram.KindTimeline:
		return layoutTimeline(doc, opts.Timeline)
	}
	return nil, errs.New(errs.ErrCodeInvalidKind, "unknown diagram kind %q", doc.Kind)
}

func layoutLayered(doc *diagram.Document, cfg layered.Config, logger *log.Logger) (*scene.Scene, error) {
	layers, conns, err := doc.Layered()
	if err != nil {
		return nil, err
	}
	res, err := layered.Layout(layers, conns, cfg)
	if err != nil {
		return nil, err
	}
	for _, c := range res.Skipped {
		logger.Debug("skipped connection with unknown endpoint", "from", c.From, "to", c.To)
	}
	logger.Debug("placed layers",
		"layers", len(res.Layers),
		"arrows", len(res.Arrows),
		"skipped", len(res.Skipped))
	return res.Scene(doc.Title), nil
}

func layoutFlow(doc *diagram.Document, cfg flow.Config, logger *log.Logger) (*scene.Scene, error) {
	nodes, edges, err := doc.Flow()
	if err != nil {
		return nil, err
	}
	res, err := flow.Layout(nodes, edges, cfg)
	if err != nil {
		return nil, err
	}
	for _, err := range res.DegenerateErrors() {
		logger.Debug("recovered degenerate edge", "code", errs.GetCode(err), "err", err)
	}
	logger.Debug("placed flow graph", "nodes", len(res.Nodes), "edges", len(res.Edges))
	return res.Scene(doc.Title), nil
}

func layoutTimeline(doc *diagram.Document, cfg timeline.Config) (*scene.Scene, error) {
	in, err := doc.Timeline()
	if err != nil {
		return nil, err
	}
	res, err := timeline.Layout(in, cfg)
	if err != nil {
		return nil, err
	}
	return res.Scene(doc.Title), nil
}
