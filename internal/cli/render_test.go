package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blueprint/pkg/pipeline"
	"github.com/matzehuels/blueprint/pkg/render/sink"
)

const archYAML = `
kind: layered
title: Architecture
layers:
  - name: UI Layer
    color: blue
    components: [iPhone App, iPad App]
  - name: Data Layer
    color: "#FFF3E0"
    components: [Core Data]
connections:
  - [iPhone App, Core Data]
`

func testCLI(t *testing.T) *CLI {
	t.Helper()
	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.config.Cache.Backend = backendNone
	return c
}

func TestParseFormats(t *testing.T) {
	c := testCLI(t)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty uses config", "", []string{"svg"}},
		{"single format", "json", []string{"json"}},
		{"multiple formats", "svg,dot,graphviz", []string{"svg", "dot", "graphviz"}},
		{"spaces and blanks", " svg , ,json", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.parseFormats(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCheckFormats(t *testing.T) {
	if err := checkFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("checkFormats(svg,json) error: %v", err)
	}
	err := checkFormats([]string{"png"})
	if err == nil {
		t.Fatal("checkFormats(png) = nil, want error")
	}
	if !strings.Contains(err.Error(), "use -f") {
		t.Errorf("error = %q, want usage hint", err)
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
		format string
		n      int
		want   string
	}{
		{"next to input", "docs/arch.yaml", "", "svg", 1, "docs/arch.svg"},
		{"explicit single", "arch.yaml", "out/diagram.svg", "svg", 1, "out/diagram.svg"},
		{"explicit base", "arch.yaml", "out/diagram", "json", 2, "out/diagram.json"},
		{"known ext stripped", "arch.yaml", "out/diagram.svg", "json", 2, "out/diagram.json"},
		{"dot", "flow.toml", "", "dot", 2, "flow.dot"},
		{"graphviz keeps native svg", "flow.toml", "", "graphviz", 2, "flow.graphviz.svg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := artifactPath(tt.input, tt.output, tt.format, tt.n)
			if got != tt.want {
				t.Errorf("artifactPath(%q, %q, %q, %d) = %q, want %q",
					tt.input, tt.output, tt.format, tt.n, got, tt.want)
			}
		})
	}
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "arch.yaml")
	if err := os.WriteFile(input, []byte(archYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	c := testCLI(t)
	runner, err := c.newRunner(t.Context(), false)
	if err != nil {
		t.Fatalf("newRunner() error: %v", err)
	}
	defer runner.Close()

	paths, err := c.renderFile(t.Context(), runner, input, renderOpts{
		formats: []string{pipeline.FormatSVG, pipeline.FormatJSON},
	})
	if err != nil {
		t.Fatalf("renderFile() error: %v", err)
	}

	want := []string{filepath.Join(dir, "arch.json"), filepath.Join(dir, "arch.svg")}
	if !slices.Equal(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}

	svg, err := os.ReadFile(want[1])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("SVG output missing <svg element")
	}

	data, err := os.ReadFile(want[0])
	if err != nil {
		t.Fatal(err)
	}
	sc, err := sink.ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error: %v", err)
	}
	if len(sc.Commands) == 0 {
		t.Error("scene has no commands")
	}
}

func TestRenderFileErrors(t *testing.T) {
	dir := t.TempDir()
	c := testCLI(t)
	runner, err := c.newRunner(t.Context(), true)
	if err != nil {
		t.Fatal(err)
	}
	defer runner.Close()

	if _, err := c.renderFile(t.Context(), runner, filepath.Join(dir, "missing.yaml"), renderOpts{formats: []string{"svg"}}); err == nil {
		t.Error("missing input: want error")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("kind: flow\nedges:\n  - [a, b]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := c.renderFile(t.Context(), runner, bad, renderOpts{formats: []string{"svg"}}); err == nil {
		t.Error("unresolved edge: want error")
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.svg")); !os.IsNotExist(err) {
		t.Error("failed render still wrote an artifact")
	}
}
