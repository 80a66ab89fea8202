package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgraft/pkg/server"
	"github.com/matzehuels/mindgraft/pkg/session"
)

// cleanupInterval is how often expired sessions are swept.
const cleanupInterval = 10 * time.Minute

// serveCommand creates the serve command, which hosts the session API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		sessionTTL time.Duration
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mind-map session API over HTTP",
		Long: `Serve the mind-map session API over HTTP.

Each browser tab creates its own session, uploads a document and edits the
resulting graph through JSON endpoints. Idle sessions are dropped after
--session-ttl.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), sessionTTL, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address (default from config)")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", session.DefaultTTL, "drop sessions idle for longer than this")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe wires the registry to the HTTP server and blocks until ctx ends.
func (c *CLI) runServe(ctx context.Context, ttl time.Duration, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	cfg := session.Config{
		Generator: c.newGenerator(runner.Cache),
		Runner:    runner,
		Pipeline:  c.pipelineOptions(),
		Graft:     c.Config.graftOptions(),
		Logger:    c.Logger,
	}
	if err := cfg.Pipeline.ValidateAndSetDefaults(); err != nil {
		return err
	}
	reg := session.NewRegistry(func(id string) *session.Session {
		return session.New(id, cfg)
	}, ttl)

	go reg.RunCleanup(ctx, cleanupInterval)

	srv := server.New(server.Config{
		Addr:           c.Config.Server.Addr,
		AllowedOrigins: c.Config.Server.AllowedOrigins,
	}, reg, c.Logger)

	printInfo("Serving on http://%s", c.Config.Server.Addr)
	printDetail("Backend: %s", c.Config.Backend.URL)
	return srv.ListenAndServe(ctx)
}
