package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blueprint/pkg/cache"
	"github.com/matzehuels/blueprint/pkg/flow"
	"github.com/matzehuels/blueprint/pkg/layered"
	"github.com/matzehuels/blueprint/pkg/pipeline"
	"github.com/matzehuels/blueprint/pkg/timeline"
)

// Cache backends selectable in the config file.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Milestone placements selectable in the config file.
const (
	placementFixed     = "fixed"
	placementStaggered = "staggered"
)

// Config is the contents of config.toml. Every field is optional; missing
// values keep their defaults.
type Config struct {
	Layered    layered.Config  `toml:"layered"`
	Flow       flow.Config     `toml:"flow"`
	Timeline   timeline.Config `toml:"timeline"`
	Milestones MilestoneConfig `toml:"milestones"`
	Render     RenderConfig    `toml:"render"`
	Cache      CacheConfig     `toml:"cache"`
	Server     ServerConfig    `toml:"server"`
}

// MilestoneConfig selects how timeline milestones are stacked.
type MilestoneConfig struct {
	Placement string             `toml:"placement"`
	Pattern   []float64          `toml:"pattern"`
	Staggered timeline.Staggered `toml:"staggered"`
}

// RenderConfig holds output defaults.
type RenderConfig struct {
	Scale   float64  `toml:"scale"`
	Formats []string `toml:"formats"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend     string            `toml:"backend"`
	Dir         string            `toml:"dir"`
	SceneTTL    time.Duration     `toml:"scene_ttl"`
	ArtifactTTL time.Duration     `toml:"artifact_ttl"`
	Redis       cache.RedisConfig `toml:"redis"`
}

// ServerConfig configures "blueprint serve".
type ServerConfig struct {
	Addr           string        `toml:"addr"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	MaxBody        int64         `toml:"max_body"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Layered:  layered.DefaultConfig(),
		Flow:     flow.DefaultConfig(),
		Timeline: timeline.DefaultConfig(),
		Milestones: MilestoneConfig{
			Placement: placementFixed,
			Pattern:   slices.Clone(timeline.DefaultPattern),
			Staggered: timeline.DefaultStaggered(),
		},
		Render: RenderConfig{
			Scale:   pipeline.DefaultScale,
			Formats: slices.Clone(pipeline.DefaultFormats),
		},
		Cache: CacheConfig{
			Backend:     backendFile,
			SceneTTL:    cache.SceneTTL,
			ArtifactTTL: cache.ArtifactTTL,
			Redis:       cache.RedisConfig{Addr: "localhost:6379"},
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: 30 * time.Second,
			MaxBody:        1 << 20,
		},
	}
}

// configPath returns the default config location using the XDG standard
// (~/.config/blueprint/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config at path on top of the defaults. An empty
// path means the default location, which may be absent; an explicit path
// must exist.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case backendFile, backendRedis, backendNone:
	default:
		return fmt.Errorf("cache.backend must be %q, %q or %q, got %q", backendFile, backendRedis, backendNone, c.Cache.Backend)
	}
	switch c.Milestones.Placement {
	case placementFixed:
		if len(c.Milestones.Pattern) == 0 {
			return errors.New("milestones.pattern must not be empty")
		}
	case placementStaggered:
		if err := c.Milestones.Staggered.Validate(); err != nil {
			return fmt.Errorf("milestones.staggered: %w", err)
		}
	default:
		return fmt.Errorf("milestones.placement must be %q or %q, got %q", placementFixed, placementStaggered, c.Milestones.Placement)
	}
	if err := c.Layered.Validate(); err != nil {
		return err
	}
	if err := c.Flow.Validate(); err != nil {
		return err
	}
	if err := c.Timeline.Validate(); err != nil {
		return err
	}
	if c.Render.Scale <= 0 {
		return fmt.Errorf("render.scale must be positive, got %g", c.Render.Scale)
	}
	return pipeline.ValidateFormats(c.Render.Formats)
}

// pipelineOptions converts the config into pipeline options.
func (c Config) pipelineOptions() pipeline.Options {
	opts := pipeline.Options{
		Formats:  c.Render.Formats,
		Scale:    c.Render.Scale,
		Layered:  c.Layered,
		Flow:     c.Flow,
		Timeline: c.Timeline,
	}
	if c.Milestones.Placement == placementStaggered {
		st := c.Milestones.Staggered
		opts.Staggered = &st
	} else {
		opts.Timeline.Placer = timeline.FixedPattern(c.Milestones.Pattern)
	}
	return opts
}

// write encodes the config as TOML.
func (c Config) write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.config.write(cmd.OutOrStdout())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				p, err := configPath()
				if err != nil {
					return err
				}
				path = p
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return cmd
}
