package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blueprint/pkg/diagram"
	"github.com/matzehuels/blueprint/pkg/render/sink"
)

// layoutCommand creates the layout command, which writes the computed scene
// without rendering it.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout [diagram.yaml]",
		Short: "Compute the scene of a diagram document",
		Long: `Compute the scene of a diagram document.

The document may be YAML, JSON or TOML; the extension selects the decoder.
The output is the ordered list of draw commands (boxes, lines, arrows,
markers and labels in layout units) written as <input>.scene.json. It is the
same as 'render -f json' and is meant for external renderers.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.scene.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")

	return cmd
}

// runLayout loads the document, computes the scene, and writes it.
func (c *CLI) runLayout(ctx context.Context, input, output string, noCache, refresh bool) error {
	doc, err := diagram.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.config.pipelineOptions()
	opts.Refresh = refresh
	opts.Logger = c.Logger

	sc, cacheHit, err := runner.LayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	data, err := sink.RenderJSON(sc)
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}

	if output == "" {
		output = basePath("", input) + ".scene.json"
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(string(doc.Kind), sc.Len(), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}
