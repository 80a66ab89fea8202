package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgraft/pkg/errors"
	"github.com/matzehuels/mindgraft/pkg/graph"
	"github.com/matzehuels/mindgraft/pkg/pipeline"
	"github.com/matzehuels/mindgraft/pkg/tree"
)

// uploadCommand creates the upload command, which sends a document to the
// analysis backend and lays out the returned mind map.
func (c *CLI) uploadCommand() *cobra.Command {
	var (
		output     string
		backendURL string
		noCache    bool
		flags      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "upload [file.pdf]",
		Short: "Generate a mind map from a document via the analysis backend",
		Long: `Generate a mind map from a document via the analysis backend.

The document is posted to the configured backend (backend.url in the config
file, or MINDGRAFT_BACKEND_URL). The returned tree is laid out and written as
graph.json. Identical documents are answered from the local cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if backendURL != "" {
				c.Config.Backend.URL = backendURL
			}
			opts := c.pipelineOptions()
			applyFlags(cmd, &opts, &flags)
			return c.runUpload(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json)")
	cmd.Flags().StringVar(&backendURL, "backend", "", "analysis backend URL (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

// runUpload posts the document, lays out the tree, and writes the graph.
func (c *CLI) runUpload(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	gen := c.newGenerator(runner.Cache)

	c.Logger.Debug("uploading", "file", input, "backend", c.Config.Backend.URL)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Analyzing %s...", filepath.Base(input)))
	spinner.Start()

	prog := newProgress(c.Logger)
	t, err := gen.Generate(ctx, filepath.Base(input), f)
	if err != nil {
		spinner.StopWithError(errors.UserMessage(err))
		if spinner.Cancelled() {
			return ctx.Err()
		}
		return err
	}
	prog.lap("analysis")
	spinner.Update(fmt.Sprintf("Laying out %d topics...", tree.Count(t)))
	result, err := runner.Execute(ctx, t, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Generated mind map with %d topics", result.Stats.NodeCount))

	outputPath := output
	if outputPath == "" {
		outputPath = derivePath(input, ".graph.json")
	}
	if err := graph.WriteGraphFile(result.Graph, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Mind map ready")
	printFile(outputPath)
	printStats(result)
	printNewline()
	printNextStep("Explore", appName+" view "+outputPath)

	return nil
}
