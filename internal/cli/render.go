package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blueprint/pkg/diagram"
	"github.com/matzehuels/blueprint/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file (single format) or base path
	formats   []string // json, svg, dot, graphviz
	scale     float64  // SVG pixels per layout unit; 0 keeps the config value
	staggered bool     // stack milestones by time instead of the fixed pattern
	noCache   bool
	refresh   bool
	watch     bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		ro         renderOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render [diagram.yaml]",
		Short: "Render a diagram document",
		Long: `Render a diagram document to one or more formats.

Formats:
  svg       standalone SVG drawn from the scene (default)
  json      the ordered scene, as written by 'layout'
  dot       Graphviz DOT with nodes pinned to their layout positions
  graphviz  SVG rendered from the DOT by Graphviz (layered and flow only)

With --watch the document is re-rendered every time it is saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ro.formats = c.parseFormats(formatsStr)
			if err := checkFormats(ro.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], ro)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg, json, dot, graphviz (comma-separated)")
	cmd.Flags().Float64Var(&ro.scale, "scale", 0, "SVG pixels per layout unit (default from config)")
	cmd.Flags().BoolVar(&ro.staggered, "staggered", false, "stack timeline milestones by time")
	cmd.Flags().BoolVar(&ro.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&ro.refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().BoolVarP(&ro.watch, "watch", "w", false, "re-render when the file changes")

	return cmd
}

// runRender renders input once and, with --watch, again on every change.
func (c *CLI) runRender(ctx context.Context, input string, ro renderOpts) error {
	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if !ro.watch {
		_, err := c.renderFile(ctx, runner, input, ro)
		return err
	}

	fw, err := newFileWatcher(input, c.Logger)
	if err != nil {
		return err
	}
	if _, err := c.renderFile(ctx, runner, input, ro); err != nil {
		printError("%v", err)
	}
	printInfo("Watching %s (Ctrl-C to stop)", input)
	return fw.Run(ctx, func() {
		if _, err := c.renderFile(ctx, runner, input, ro); err != nil {
			printError("%v", err)
		}
	})
}

// renderFile runs the pipeline for one document and writes every artifact.
// It returns the written paths in format order.
func (c *CLI) renderFile(ctx context.Context, runner *pipeline.Runner, input string, ro renderOpts) ([]string, error) {
	prog := newProgress(c.Logger)

	doc, err := diagram.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", input, err)
	}

	opts := c.config.pipelineOptions()
	opts.Formats = ro.formats
	opts.Refresh = ro.refresh
	opts.Logger = c.Logger
	if ro.scale > 0 {
		opts.Scale = ro.scale
	}
	if ro.staggered {
		st := c.config.Milestones.Staggered
		opts.Staggered = &st
	}

	spin := startSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", filepath.Base(input)))
	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		spin.StopWithError("Render failed")
		return nil, err
	}
	spin.Stop()

	formats := slices.Sorted(slices.Values(ro.formats))
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := artifactPath(input, ro.output, format, len(formats))
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Rendered %s", input)
	for _, p := range paths {
		printFile(p)
	}
	printStats(string(result.Kind), result.Stats.Commands, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	prog.done("render complete", "file", input)
	return paths, nil
}

// artifactPath uses an explicit output path as-is when a single format is
// rendered, and as a base path otherwise.
func artifactPath(input, output, format string, n int) string {
	if n == 1 && output != "" && filepath.Ext(output) != "" {
		return output
	}
	return outputPath(basePath(output, input), format)
}
