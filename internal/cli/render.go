package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgraft/pkg/graph"
	"github.com/matzehuels/mindgraft/pkg/pipeline"
	"github.com/matzehuels/mindgraft/pkg/tree"
)

// renderCommand creates the render command for exporting a mind map.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
		detailed   bool
		pinned     bool
		flags      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json|tree.json]",
		Short: "Render a mind map to SVG or DOT",
		Long: `Render a mind map to SVG or DOT.

The input is either a positioned graph.json (from 'layout', 'upload' or the
HTTP API) or a raw tree.json document, which is laid out first. With --pinned
the SVG keeps the graph's own positions, including manually grafted cards;
otherwise Graphviz ranks the graph itself.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			applyFlags(cmd, &opts, &flags)
			opts.Formats = parseFormats(formatsStr)
			opts.Detailed = detailed
			opts.Pinned = pinned
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include summaries in card labels")
	cmd.Flags().BoolVar(&pinned, "pinned", false, "keep the graph's positions instead of ranking with Graphviz")
	flags.register(cmd)

	return cmd
}

// runRender loads the input, lays it out when it is a tree, and writes one
// file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	g, err := c.loadGraph(ctx, input, opts, noCache)
	if err != nil {
		return err
	}
	c.Logger.Debugf("Loaded graph: %d nodes, %d edges", len(g.Nodes), len(g.Edges))

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	artifacts, err := pipeline.Render(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	base := basePath(output, input)
	for _, format := range opts.Formats {
		path := base + "." + format
		if output != "" && len(opts.Formats) == 1 {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printSuccess("Rendered %d cards", len(g.Nodes))
	return nil
}

// loadGraph reads a graph file, or a tree document which it lays out.
func (c *CLI) loadGraph(ctx context.Context, input string, opts pipeline.Options, noCache bool) (graph.Graph, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return graph.Graph{}, err
	}

	if isGraphDocument(data) {
		g, err := graph.ReadGraph(bytes.NewReader(data))
		if err != nil {
			return graph.Graph{}, fmt.Errorf("load graph %s: %w", input, err)
		}
		return g, nil
	}

	t, err := tree.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return graph.Graph{}, fmt.Errorf("load tree %s: %w", input, err)
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return graph.Graph{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	// Layout only; rendering happens once the graph is known.
	lopts := opts
	lopts.Formats = nil
	result, err := runner.Execute(ctx, t, lopts)
	if err != nil {
		return graph.Graph{}, fmt.Errorf("compute layout: %w", err)
	}
	return result.Graph, nil
}

// isGraphDocument reports whether data is a JSON object with a "nodes" key.
func isGraphDocument(data []byte) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	_, ok := probe["nodes"]
	return ok
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, .dot, .json), it strips that extension.
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
