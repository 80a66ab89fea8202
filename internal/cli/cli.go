// Package cli implements the mindgraft command-line interface.
//
// Commands turn mind-map documents into positioned graphs and drive the
// interactive surfaces:
//   - layout: tree.json → positioned graph.json
//   - render: graph.json or tree.json → SVG or DOT
//   - upload: send a document to the analysis backend and lay out the result
//   - serve: host the session HTTP API
//   - view: browse and graft a mind map in the terminal
//   - cache: manage the document and layout cache
//
// Settings come from config.toml (see --config); flags override the file
// for the command that declares them.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgraft/pkg/backend"
	"github.com/matzehuels/mindgraft/pkg/buildinfo"
	"github.com/matzehuels/mindgraft/pkg/cache"
	"github.com/matzehuels/mindgraft/pkg/observability"
	"github.com/matzehuels/mindgraft/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "mindgraft"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger and default config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level. At debug level every
// observability hook reports to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.Install(observability.LogHooks{Logger: c.Logger})
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Mindgraft lays out mind maps and lets you graft new topics onto them",
		Long:         `Mindgraft turns a document's mind map into a positioned node/edge diagram and lets you extend it with manually grafted topics, from the terminal or through its HTTP API.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/mindgraft/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.uploadCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner over the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, c.newKeyer(), c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

// newCache opens the cache selected by [cache] backend. A file cache whose
// directory cannot be resolved degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case cacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.Config.Cache.RedisAddr})
	case cacheFile:
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warn("cache directory unavailable, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
	return cache.NewNullCache(), nil
}

func (c *CLI) newKeyer() cache.Keyer {
	if c.Config.Cache.Backend == cacheRedis {
		return cache.NewScopedKeyer(nil, appName)
	}
	return cache.NewDefaultKeyer()
}

// newGenerator creates the backend client wrapped in the document cache.
func (c *CLI) newGenerator(ch cache.Cache) backend.Generator {
	client := backend.NewClient(c.Config.Backend.URL, backend.WithTimeout(c.Config.Backend.Timeout.Duration))
	return backend.Cached(client, ch, c.newKeyer(), c.Config.Cache.TTL.Duration, c.Logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds pipeline options from the [layout] section.
func (c *CLI) pipelineOptions() pipeline.Options {
	l := c.Config.Layout
	return pipeline.Options{
		Direction:      l.Direction,
		NodeSeparation: l.NodeSeparation,
		RankSeparation: l.RankSeparation,
		NodeWidth:      l.NodeWidth,
		NodeHeight:     l.NodeHeight,
		Logger:         c.Logger,
	}
}

// applyFlags copies flag values that were set explicitly on cmd over opts.
func applyFlags(cmd *cobra.Command, opts *pipeline.Options, f *layoutFlags) {
	if cmd.Flags().Changed("direction") {
		opts.Direction = f.direction
	}
	if cmd.Flags().Changed("node-sep") {
		opts.NodeSeparation = f.nodeSep
	}
	if cmd.Flags().Changed("rank-sep") {
		opts.RankSeparation = f.rankSep
	}
	if cmd.Flags().Changed("refresh") {
		opts.Refresh = f.refresh
	}
}

// layoutFlags are the layout overrides shared by several commands.
type layoutFlags struct {
	direction string
	nodeSep   float64
	rankSep   float64
	refresh   bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.direction, "direction", "d", "", "layout direction: TB, LR (default from config)")
	cmd.Flags().Float64Var(&f.nodeSep, "node-sep", 0, "gap between cards in one rank")
	cmd.Flags().Float64Var(&f.rankSep, "rank-sep", 0, "gap between ranks")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute the layout even when cached")
}

// elapsed rounds d for display.
func elapsed(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
