package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/blueprint/pkg/cache"
	"github.com/matzehuels/blueprint/pkg/diagram"
	"github.com/matzehuels/blueprint/pkg/observability"
	"github.com/matzehuels/blueprint/pkg/render/sink"
	"github.com/matzehuels/blueprint/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use it so caching behaves the same everywhere.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Entry lifetimes. NewRunner sets them to cache.SceneTTL and
	// cache.ArtifactTTL.
	SceneTTL    time.Duration
	ArtifactTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		SceneTTL:    cache.SceneTTL,
		ArtifactTTL: cache.ArtifactTTL,
	}
}

// Execute runs layout and render for one document.
func (r *Runner) Execute(ctx context.Context, doc *diagram.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Kind:    doc.Kind,
		DocHash: doc.Hash(),
	}

	hooks := observability.Pipeline()

	layoutStart := time.Now()
	hooks.OnLayoutStart(ctx, string(doc.Kind))
	sc, layoutHit, err := r.LayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		hooks.OnLayoutComplete(ctx, string(doc.Kind), 0, time.Since(layoutStart), err)
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Scene = sc
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Commands = sc.Len()
	hooks.OnLayoutComplete(ctx, string(doc.Kind), result.Stats.Commands, result.Stats.LayoutTime, nil)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"kind", doc.Kind,
		"commands", result.Stats.Commands,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, sc, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes a scene with caching and reports whether it
// came from cache. Scenes are stored in their JSON form.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, doc *diagram.Document, opts Options) (*scene.Scene, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.SceneKey(doc.Hash(), opts.SceneKeyOpts(doc.Kind))
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			sc, err := sink.ParseJSON(data)
			if err == nil {
				hooks.OnCacheHit(ctx, observability.KeyTypeScene)
				return sc, true, nil
			}
			// Unreadable entries are recomputed and overwritten.
			r.Logger.Debug("discarding cached scene", "error", err)
		} else if err != nil {
			r.Logger.Warn("cache lookup failed", "error", err)
		}
	}

	hooks.OnCacheMiss(ctx, observability.KeyTypeScene)

	sc, err := Layout(doc, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := sink.RenderJSON(sc); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.SceneTTL); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, observability.KeyTypeScene, len(data))
		}
	}
	return sc, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, doc *diagram.Document, opts Options) (*scene.Scene, error) {
	sc, _, err := r.LayoutWithCacheInfo(ctx, doc, opts)
	return sc, err
}

// RenderWithCacheInfo renders every requested format with caching. Formats
// are looked up and rendered concurrently; the hit flag is true only when
// every artifact came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sc *scene.Scene, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	sceneData, err := sink.RenderJSON(sc)
	if err != nil {
		return nil, false, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	sceneHash := cache.Hash(sceneData)

	hooks := observability.Cache()
	var (
		mu        sync.Mutex
		hits      atomic.Int32
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))

			if !opts.Refresh {
				if data, hit, err := r.Cache.Get(gctx, cacheKey); err == nil && hit {
					hooks.OnCacheHit(gctx, observability.KeyTypeArtifact)
					hits.Add(1)
					mu.Lock()
					artifacts[format] = data
					mu.Unlock()
					return nil
				}
			}

			hooks.OnCacheMiss(gctx, observability.KeyTypeArtifact)

			data, err := renderFormat(gctx, sc, format, opts)
			if err != nil {
				return err
			}
			if err := r.Cache.Set(gctx, cacheKey, data, r.ArtifactTTL); err != nil {
				r.Logger.Warn("cache write failed", "format", format, "error", err)
			} else {
				hooks.OnCacheSet(gctx, observability.KeyTypeArtifact, len(data))
			}

			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, err
	}
	return artifacts, int(hits.Load()) == len(opts.Formats), nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, sc *scene.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, sc, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
