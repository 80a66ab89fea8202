// Package pipeline runs the import → layout → render pipeline for mind maps.
//
// This package centralizes the steps shared by the CLI, the HTTP server and
// interactive sessions, so every entry point applies the same defaults and
// the same caching.
//
// A run imports a tree document into nodes and edges, positions them with
// the layered layout engine, and optionally exports the result as JSON,
// DOT, SVG or PNG. [Runner.Layout] and [Render] are usable on their own,
// e.g. for relayouts of a graph that already carries grafted cards.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, root, pipeline.Options{Direction: "LR"})
//	if err != nil {
//	    return err
//	}
//	store.ReplaceAll(result.Graph.Nodes, result.Graph.Edges)
//
// Layouts are cached under a key derived from the SHA-256 of the tree
// document and every option that changes the output.
package pipeline

import (
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindgraft/pkg/cache"
	"github.com/matzehuels/mindgraft/pkg/errors"
	"github.com/matzehuels/mindgraft/pkg/graph"
	"github.com/matzehuels/mindgraft/pkg/layout"
)

// DefaultLayoutTTL is how long computed layouts stay cached.
const DefaultLayoutTTL = 7 * 24 * time.Hour

const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats lists the artifacts [Render] can produce.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// Options configures a run. The server decodes it from request bodies, so
// zero values mean "use the default".
type Options struct {
	Direction      string  `json:"direction,omitempty"`
	NodeSeparation float64 `json:"node_sep,omitempty"`
	RankSeparation float64 `json:"rank_sep,omitempty"`
	Sweeps         int     `json:"sweeps,omitempty"`

	// Card size applied to every imported node. Zero keeps the default.
	NodeWidth  float64 `json:"node_width,omitempty"`
	NodeHeight float64 `json:"node_height,omitempty"`

	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Pinned   bool     `json:"pinned,omitempty"`

	// Refresh bypasses the layout cache.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result is a positioned mind map plus whatever was rendered from it.
// TreeHash is the SHA-256 of the imported document and is empty for
// relayouts of an existing graph.
type Result struct {
	Graph     graph.Graph
	TreeHash  string
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

type Stats struct {
	NodeCount  int
	EdgeCount  int
	ImportTime time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo reports whether positions were served from the layout cache.
type CacheInfo struct {
	LayoutHit bool
}

// ValidateFormat rejects anything not in [ValidFormats]. Formats are
// case-sensitive.
func ValidateFormat(format string) error {
	if ValidFormats[format] {
		return nil
	}
	known := slices.Sorted(maps.Keys(ValidFormats))
	return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (want one of: %s)", format, strings.Join(known, ", "))
}

// ValidateFormats checks each format and rejects duplicates, which would
// render the same artifact twice.
func ValidateFormats(formats []string) error {
	seen := make(map[string]bool, len(formats))
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
		if seen[f] {
			return errors.New(errors.ErrCodeInvalidInput, "format %q requested twice", f)
		}
		seen[f] = true
	}
	return nil
}

// ValidateAndSetDefaults normalizes the direction, fills layout defaults and
// checks formats. Repeated calls are no-ops.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	dir, err := layout.ParseDirection(o.Direction)
	if err != nil {
		return err
	}
	o.Direction = string(dir)

	lo := o.LayoutOptions().WithDefaults()
	if err := lo.Validate(); err != nil {
		return err
	}
	o.NodeSeparation = lo.NodeSeparation
	o.RankSeparation = lo.RankSeparation
	o.Sweeps = lo.Sweeps

	if o.NodeWidth < 0 || o.NodeHeight < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "node size must be non-negative, got %vx%v", o.NodeWidth, o.NodeHeight)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutOptions converts to layout engine options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Direction:      layout.Direction(o.Direction),
		NodeSeparation: o.NodeSeparation,
		RankSeparation: o.RankSeparation,
		Sweeps:         o.Sweeps,
	}
}

// NodeSize returns the card size applied to imported nodes.
func (o *Options) NodeSize() graph.Size {
	return graph.Size{Width: o.NodeWidth, Height: o.NodeHeight}.OrDefault()
}

// LayoutKeyOpts lists every option that changes positions, for the layout
// cache key.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	s := o.NodeSize()
	return cache.LayoutKeyOpts{
		Direction:      o.Direction,
		NodeSeparation: o.NodeSeparation,
		RankSeparation: o.RankSeparation,
		Sweeps:         o.Sweeps,
		NodeWidth:      s.Width,
		NodeHeight:     s.Height,
	}
}
