package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/render/sink"
	"github.com/matzehuels/blueprint/pkg/scene"
)

// Render generates output artifacts in the requested formats, without
// caching. Formats are rendered concurrently.
func Render(ctx context.Context, sc *scene.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.SetRenderDefaults(); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))
	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(ctx, sc, format, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// renderFormat produces a single artifact.
func renderFormat(ctx context.Context, sc *scene.Scene, format string, opts Options) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = sink.RenderJSON(sc)
	case FormatSVG:
		data = sink.RenderSVG(sc, sink.WithScale(opts.Scale))
	case FormatDOT:
		var dot string
		dot, err = sink.ToDOT(sc)
		data = []byte(dot)
	case FormatGraphviz:
		var dot string
		if dot, err = sink.ToDOT(sc); err == nil {
			data, err = sink.RenderGraphviz(ctx, dot)
		}
	default:
		return nil, ValidateFormat(format)
	}

	if errors.Is(err, sink.ErrUnsupported) {
		return nil, errs.Wrap(errs.ErrCodeUnsupported, err, "%s output is not available for %s diagrams", format, sc.Mode)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}
