package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgraft/pkg/graph"
	"github.com/matzehuels/mindgraft/pkg/pipeline"
	"github.com/matzehuels/mindgraft/pkg/session"
)

// viewCommand creates the view command, an interactive terminal surface
// over a mind map.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "view [graph.json|tree.json]",
		Short: "Browse a mind map and graft new topics in the terminal",
		Long: `Browse a mind map and graft new topics in the terminal.

Navigate the outline with the arrow keys, press enter to open a card's
details and 'a' to graft a new child under it. 'r' recomputes the layout
and 'w' writes the graph, including grafted cards, to --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			applyFlags(cmd, &opts, &flags)
			return c.runView(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file written by 'w' (default: the input graph, or <input>.graph.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

// runView loads the input into a local session and runs the TUI.
func (c *CLI) runView(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	g, err := c.loadGraph(ctx, input, opts, noCache)
	if err != nil {
		return err
	}

	s := session.New("local", session.Config{
		Pipeline: opts,
		Graft:    c.Config.graftOptions(),
		Logger:   c.Logger,
	})
	if err := s.Load(g); err != nil {
		return err
	}

	if output == "" {
		output = viewOutputPath(input)
	}
	save := func(g graph.Graph) error {
		return graph.WriteGraphFile(g, output)
	}

	model := NewMapModel(s, opts.LayoutOptions(), save)
	final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("run view: %w", err)
	}

	if m, ok := final.(MapModel); ok && m.Dirty {
		printWarning("Unsaved changes discarded (press 'w' to save)")
	}
	return nil
}

// viewOutputPath keeps graph inputs in place and derives a graph path for
// tree inputs.
func viewOutputPath(input string) string {
	data, err := os.ReadFile(input)
	if err == nil && isGraphDocument(bytes.TrimSpace(data)) {
		return input
	}
	return derivePath(input, ".graph.json")
}
