package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgraft/pkg/cache"
)

// cacheCommand groups the cache maintenance subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the document and layout cache",
		Long: `Manage the local document and layout cache.

Uploaded documents are cached by content hash so the analysis backend is
called once per file; computed layouts are cached by tree hash and layout
options. With the redis backend, clear removes only mindgraft's keys.`,
	}
	cmd.AddCommand(c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached documents and layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheClear(cmd.Context())
		},
	}
}

func (c *CLI) runCacheClear(ctx context.Context) error {
	if c.Config.Cache.Backend == cacheRedis {
		return c.clearRedis(ctx)
	}
	dir, err := cacheDir()
	if err != nil {
		return fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	n, err := fc.Clear()
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	c.Logger.Debug("cache cleared", "dir", fc.Dir(), "entries", n)
	printSuccess("Cleared %d cached entries", n)
	printDetail("Directory: %s", fc.Dir())
	return nil
}

func (c *CLI) clearRedis(ctx context.Context) error {
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.Config.Cache.RedisAddr})
	if err != nil {
		return fmt.Errorf("connect to redis at %s: %w", c.Config.Cache.RedisAddr, err)
	}
	defer rc.Close()

	prefix := cache.NewScopedKeyer(nil, appName).Prefix()
	n, err := rc.Purge(ctx, prefix)
	if err != nil {
		return fmt.Errorf("clear redis cache: %w", err)
	}
	printSuccess("Cleared %d cached entries", n)
	printDetail("Redis: %s (keys %s*)", c.Config.Cache.RedisAddr, prefix)
	return nil
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
