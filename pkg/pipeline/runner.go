package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindgraft/pkg/cache"
	"github.com/matzehuels/mindgraft/pkg/errors"
	"github.com/matzehuels/mindgraft/pkg/graph"
	"github.com/matzehuels/mindgraft/pkg/layout"
	"github.com/matzehuels/mindgraft/pkg/observability"
	"github.com/matzehuels/mindgraft/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		TTL:    DefaultLayoutTTL,
		Logger: logger,
	}
}

// Execute runs import and layout, then renders the requested formats.
// Nothing is rendered when opts.Formats is empty.
func (r *Runner) Execute(ctx context.Context, t *tree.Node, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Import
	importStart := time.Now()
	nodes, edges, err := r.Import(ctx, t, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ImportTime = time.Since(importStart)
	result.Stats.NodeCount = len(nodes)
	result.Stats.EdgeCount = len(edges)
	result.TreeHash = TreeHash(t)

	r.Logger.Debug("imported tree",
		"nodes", len(nodes),
		"edges", len(edges),
		"duration", result.Stats.ImportTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	positioned, hit, err := r.LayoutWithCacheInfo(ctx, result.TreeHash, nodes, edges, opts)
	if err != nil {
		return nil, err
	}
	result.Graph = graph.Graph{Nodes: positioned, Edges: edges}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = hit

	r.Logger.Debug("computed layout",
		"direction", opts.Direction,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	if len(opts.Formats) > 0 {
		artifacts, took, err := renderTimed(ctx, result.Graph, opts)
		if err != nil {
			return nil, err
		}
		result.Artifacts = artifacts
		result.Stats.RenderTime = took
	}

	return result, nil
}

// Import flattens t and applies the configured card size.
func (r *Runner) Import(ctx context.Context, t *tree.Node, opts Options) ([]graph.Node, []graph.Edge, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	root := ""
	if t != nil {
		root = t.ID
	}

	hooks := observability.Pipeline()
	hooks.OnImportStart(ctx, root)
	start := time.Now()

	nodes, edges, err := tree.Import(t)
	hooks.OnImportComplete(ctx, root, len(nodes), time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}

	size := opts.NodeSize()
	for i := range nodes {
		nodes[i].Size = size
	}
	return nodes, edges, nil
}

// LayoutWithCacheInfo positions nodes and reports whether the result was
// served from cache. An empty treeHash disables caching for this call.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, treeHash string, nodes []graph.Node, edges []graph.Edge, opts Options) ([]graph.Node, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	useCache := treeHash != "" && !opts.Refresh
	cacheKey := r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())
	cacheHooks := observability.Cache()

	if useCache {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if positioned, ok := applyCached(data, nodes); ok {
				cacheHooks.OnCacheHit(ctx, "layout")
				return positioned, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("layout cache read failed", "error", err)
		}
		cacheHooks.OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Direction, len(nodes))
	start := time.Now()
	positioned, err := layout.Layout(nodes, edges, opts.LayoutOptions())
	hooks.OnLayoutComplete(ctx, opts.Direction, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if treeHash != "" {
		if data, err := json.Marshal(placementsOf(positioned)); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, r.TTL); err != nil {
				r.Logger.Warn("layout cache write failed", "error", err)
			} else {
				cacheHooks.OnCacheSet(ctx, "layout", len(data))
			}
		}
	}
	return positioned, false, nil
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, treeHash string, nodes []graph.Node, edges []graph.Edge, opts Options) ([]graph.Node, error) {
	positioned, _, err := r.LayoutWithCacheInfo(ctx, treeHash, nodes, edges, opts)
	return positioned, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// TreeHash returns the SHA-256 of the canonical JSON encoding of t, or ""
// for a nil tree.
func TreeHash(t *tree.Node) string {
	if t == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(t); err != nil {
		return ""
	}
	return cache.Hash(buf.Bytes())
}

// =============================================================================
// Cached Placements
// =============================================================================

// placement is the cached part of a laid-out node.
type placement struct {
	ID           string         `json:"id"`
	Position     graph.Position `json:"position"`
	SourceAnchor graph.Anchor   `json:"source"`
	TargetAnchor graph.Anchor   `json:"target"`
}

func placementsOf(nodes []graph.Node) []placement {
	out := make([]placement, len(nodes))
	for i, n := range nodes {
		out[i] = placement{ID: n.ID, Position: n.Position, SourceAnchor: n.SourceAnchor, TargetAnchor: n.TargetAnchor}
	}
	return out
}

// applyCached copies cached placements onto fresh nodes. It fails when the
// cached entry does not cover exactly the given node ids in order.
func applyCached(data []byte, nodes []graph.Node) ([]graph.Node, bool) {
	var ps []placement
	if err := json.Unmarshal(data, &ps); err != nil || len(ps) != len(nodes) {
		return nil, false
	}
	out := make([]graph.Node, len(nodes))
	for i, n := range nodes {
		if ps[i].ID != n.ID {
			return nil, false
		}
		n.Position = ps[i].Position
		n.SourceAnchor = ps[i].SourceAnchor
		n.TargetAnchor = ps[i].TargetAnchor
		out[i] = n
	}
	return out, true
}

// wrapStage adds the stage name to non-structured errors.
func wrapStage(stage string, err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "%s", stage)
}
