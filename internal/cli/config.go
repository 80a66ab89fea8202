package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mindgraft/pkg/backend"
	"github.com/matzehuels/mindgraft/pkg/errors"
	"github.com/matzehuels/mindgraft/pkg/graft"
	"github.com/matzehuels/mindgraft/pkg/graph"
	"github.com/matzehuels/mindgraft/pkg/layout"
	"github.com/matzehuels/mindgraft/pkg/server"
)

// envBackendURL overrides backend.url from the config file.
const envBackendURL = "MINDGRAFT_BACKEND_URL"

// Cache backends accepted in [cache] backend.
const (
	cacheNone  = "none"
	cacheFile  = "file"
	cacheRedis = "redis"
)

// =============================================================================
// Config - config.toml
// =============================================================================

// Config mirrors config.toml. Zero values are filled from defaultConfig.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Layout  LayoutConfig  `toml:"layout"`
	Graft   GraftConfig   `toml:"graft"`
	Server  ServerConfig  `toml:"server"`
	Cache   CacheConfig   `toml:"cache"`
}

type BackendConfig struct {
	URL     string   `toml:"url"`
	Timeout duration `toml:"timeout"`
}

type LayoutConfig struct {
	Direction      string  `toml:"direction"`
	NodeSeparation float64 `toml:"node_separation"`
	RankSeparation float64 `toml:"rank_separation"`
	NodeWidth      float64 `toml:"node_width"`
	NodeHeight     float64 `toml:"node_height"`
}

type GraftConfig struct {
	XOffset float64 `toml:"x_offset"`
	YOffset float64 `toml:"y_offset"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type CacheConfig struct {
	Backend   string   `toml:"backend"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       duration `toml:"ttl"`
}

// duration decodes TOML strings such as "10m" or "24h".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func defaultConfig() Config {
	lo := layout.DefaultOptions()
	return Config{
		Backend: BackendConfig{
			URL:     backend.DefaultURL,
			Timeout: duration{backend.DefaultTimeout},
		},
		Layout: LayoutConfig{
			Direction:      string(lo.Direction),
			NodeSeparation: lo.NodeSeparation,
			RankSeparation: lo.RankSeparation,
			NodeWidth:      graph.DefaultNodeWidth,
			NodeHeight:     graph.DefaultNodeHeight,
		},
		Graft: GraftConfig{
			XOffset: graft.DefaultXOffset,
			YOffset: graft.DefaultYOffset,
		},
		Server: ServerConfig{
			Addr:           server.DefaultAddr,
			AllowedOrigins: server.DefaultAllowedOrigins,
		},
		Cache: CacheConfig{
			Backend: cacheFile,
			TTL:     duration{24 * time.Hour},
		},
	}
}

// =============================================================================
// Loading
// =============================================================================

// loadConfig reads path over the defaults. An empty path means the default
// location; a missing file yields the defaults. MINDGRAFT_BACKEND_URL is
// applied last.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err == nil {
			path = filepath.Join(dir, "config.toml")
		}
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !os.IsNotExist(err) || explicit {
				return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", path)
			}
		}
	}

	if url := os.Getenv(envBackendURL); url != "" {
		cfg.Backend.URL = url
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := layout.ParseDirection(c.Layout.Direction); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout.direction")
	}
	if c.Layout.NodeSeparation < 0 || c.Layout.RankSeparation < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout separations must be non-negative")
	}
	if c.Layout.NodeWidth < 0 || c.Layout.NodeHeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout node size must be non-negative")
	}
	if c.Backend.URL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "backend.url must not be empty")
	}
	switch c.Cache.Backend {
	case cacheNone, cacheFile:
	case cacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be none, file or redis, got %q", c.Cache.Backend)
	}
	return nil
}

// graftOptions converts the [graft] section.
func (c Config) graftOptions() graft.Options {
	return graft.Options{XOffset: c.Graft.XOffset, YOffset: c.Graft.YOffset}
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/mindgraft/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/mindgraft/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
