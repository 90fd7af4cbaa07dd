package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blueprint/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

Endpoints:
  POST /v1/layout?format=svg|json|dot|graphviz   body: diagram document
  GET  /healthz

The Content-Type of the request selects the document decoder
(application/json, application/x-yaml or application/toml). Cache entries
are kept apart from the CLI's with an "api:" key prefix, so a shared Redis
can serve both.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer cc.Close()

	srv := server.New(cc, server.Config{
		Addr:           addr,
		Pipeline:       c.config.pipelineOptions(),
		MaxBody:        c.config.Server.MaxBody,
		RequestTimeout: c.config.Server.RequestTimeout,
		SceneTTL:       c.config.Cache.SceneTTL,
		ArtifactTTL:    c.config.Cache.ArtifactTTL,
	}, c.Logger)

	backend := c.config.Cache.Backend
	if noCache {
		backend = backendNone
	}
	printSuccess("Starting layout service")
	printKeyValue("address", addr)
	printKeyValue("cache", backend)
	printNewline()
	return srv.ListenAndServe(ctx)
}
