package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgraft/pkg/graph"
	"github.com/matzehuels/mindgraft/pkg/pipeline"
	"github.com/matzehuels/mindgraft/pkg/tree"
)

// layoutCommand creates the layout command for positioning a mind map.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [tree.json]",
		Short: "Compute a positioned graph from a mind-map document",
		Long: `Compute a positioned graph from a mind-map document.

The layout command reads a tree.json document (as returned by the analysis
backend), converts it into nodes and edges and assigns every card a position
with the layered layout engine. The output is a graph.json file that can be
rendered with 'render' or explored with 'view'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			applyFlags(cmd, &opts, &flags)
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

// runLayout loads the tree, lays it out, and writes the graph.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	t, err := tree.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, t, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	prog.done(fmt.Sprintf("Laid out %d cards", result.Stats.NodeCount))

	outputPath := output
	if outputPath == "" {
		outputPath = derivePath(input, ".graph.json")
	}
	if err := graph.WriteGraphFile(result.Graph, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result)
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}

// derivePath replaces the extension of input with suffix.
func derivePath(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}
