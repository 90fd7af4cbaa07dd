// Package cli implements the blueprint command-line interface.
//
// # Commands
//
//   - layout: compute the scene of a diagram document and write it as JSON
//   - render: render a document to SVG, JSON, DOT or Graphviz SVG, optionally
//     re-rendering whenever the file changes
//   - serve: run the HTTP layout service
//   - cache: inspect and clear the local cache
//   - config: show the effective configuration
//
// # Configuration
//
// Settings are read from $XDG_CONFIG_HOME/blueprint/config.toml, or the file
// given with --config. A missing default file means built-in defaults.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blueprint/pkg/buildinfo"
	"github.com/matzehuels/blueprint/pkg/cache"
	"github.com/matzehuels/blueprint/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "blueprint"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     Config
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The config file is loaded before each command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Blueprint lays out architecture, flow and timeline diagrams",
		Long:         `Blueprint turns declarative diagram documents into positioned shapes: layered architecture diagrams, flow graphs and phase timelines. Output is an ordered scene that renders to SVG, JSON or Graphviz.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/blueprint/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cc, nil, c.Logger)
	runner.SceneTTL = c.config.Cache.SceneTTL
	runner.ArtifactTTL = c.config.Cache.ArtifactTTL
	return runner, nil
}

// newCache opens the configured cache backend. A file cache that cannot be
// created degrades to no caching; an unreachable Redis is an error.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.config.Cache.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		rc, err := cache.NewRedisCache(ctx, c.config.Cache.Redis)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}

	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/blueprint/).
func (c *CLI) cacheDir() (string, error) {
	if c.config.Cache.Dir != "" {
		return c.config.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	return cache.DefaultDir()
}

// parseFormats parses a comma-separated format string into a slice.
// An empty string selects the configured default formats.
func (c *CLI) parseFormats(s string) []string {
	if s == "" {
		return c.config.Render.Formats
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath strips the document extension, or a known format extension
// from an explicit output path.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath names the file for one artifact. DOT gets its own extension
// and Graphviz output is marked so it does not overwrite the native SVG.
func outputPath(base, format string) string {
	switch format {
	case pipeline.FormatGraphviz:
		return base + ".graphviz.svg"
	case pipeline.FormatDOT:
		return base + ".dot"
	default:
		return base + "." + format
	}
}

// checkFormats validates formats with a CLI-friendly message.
func checkFormats(formats []string) error {
	if err := pipeline.ValidateFormats(formats); err != nil {
		return fmt.Errorf("%w (use -f with json, svg, dot or graphviz)", err)
	}
	return nil
}
