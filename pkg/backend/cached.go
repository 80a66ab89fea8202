package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindgraft/pkg/cache"
	"github.com/matzehuels/mindgraft/pkg/errors"
	"github.com/matzehuels/mindgraft/pkg/observability"
	"github.com/matzehuels/mindgraft/pkg/tree"
)

// CachedGenerator remembers trees by the SHA-256 of the uploaded bytes.
// Failed generations are never cached.
type CachedGenerator struct {
	inner  Generator
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// Cached wraps inner with a document cache. A nil keyer uses the default.
func Cached(inner Generator, c cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) *CachedGenerator {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &CachedGenerator{inner: inner, cache: c, keyer: keyer, ttl: ttl, logger: logger}
}

// Generate returns the cached tree for identical file contents, or calls the
// wrapped generator and stores its result.
func (g *CachedGenerator) Generate(ctx context.Context, filename string, r io.Reader) (*tree.Node, error) {
	sum, data, err := cache.HashReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", filename)
	}
	key := g.keyer.DocumentKey(sum)
	hooks := observability.Cache()

	if raw, ok, err := g.cache.Get(ctx, key); err != nil {
		g.logger.Warn("document cache read failed", "error", err)
	} else if ok {
		var t tree.Node
		if json.Unmarshal(raw, &t) == nil && tree.Validate(&t) == nil {
			hooks.OnCacheHit(ctx, "document")
			g.logger.Debug("document cache hit", "file", filename)
			return &t, nil
		}
		_ = g.cache.Delete(ctx, key)
	}
	hooks.OnCacheMiss(ctx, "document")

	t, err := g.inner.Generate(ctx, filename, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(t); err == nil {
		if err := g.cache.Set(ctx, key, raw, g.ttl); err != nil {
			g.logger.Warn("document cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, "document", len(raw))
		}
	}
	return t, nil
}

var _ Generator = (*CachedGenerator)(nil)
