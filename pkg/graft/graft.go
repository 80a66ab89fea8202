package graft

import (
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/mindgraft/pkg/errors"
	"github.com/matzehuels/mindgraft/pkg/graph"
)

// Default placement offsets in logical units.
const (
	DefaultXOffset = 250.0
	DefaultYOffset = 200.0
)

// jitter bounds the random spread applied to the horizontal offset.
const (
	jitterMin  = 0.75
	jitterSpan = 0.5
)

// View is the read access a graft needs to the current graph.
type View interface {
	Node(id string) (graph.Node, bool)
	HasEdge(id string) bool
	// ChildCount returns the number of edges whose source is id.
	ChildCount(id string) int
}

// Options tunes provisional placement. Zero offsets use the defaults; a nil
// Rand uses the package-level source.
type Options struct {
	XOffset float64
	YOffset float64
	Rand    *rand.Rand
}

func (o Options) withDefaults() Options {
	if o.XOffset == 0 {
		o.XOffset = DefaultXOffset
	}
	if o.YOffset == 0 {
		o.YOffset = DefaultYOffset
	}
	return o
}

// NodeID returns the identifier of the n-th manual child of parent.
func NodeID(parent string, n int) string {
	return fmt.Sprintf("manual-%s-%d", parent, n)
}

// EdgeID returns the identifier of the edge to the n-th manual child.
func EdgeID(parent string, n int) string {
	return fmt.Sprintf("edge-manual-%s-%d", parent, n)
}

// AddChild synthesizes a new branch node under parentID and the edge
// connecting them. It does not modify v; the caller appends the results.
//
// next yields a monotonically increasing sequence. Candidate ids are drawn
// from it until neither the node id nor the edge id is already present, so
// a backend id that happens to look like "manual-a-1" is never reused.
//
// The node is placed YOffset below the parent and half of XOffset to the
// left (even child count) or right (odd), scaled by a random factor in
// [0.75, 1.25]. Layout is not re-run.
//
// Returns NODE_NOT_FOUND if parentID is unknown.
func AddChild(v View, parentID string, next func() int, opts Options) (graph.Node, graph.Edge, error) {
	parent, ok := v.Node(parentID)
	if !ok {
		return graph.Node{}, graph.Edge{}, errors.New(errors.ErrCodeNodeNotFound, "parent node %q not found", parentID)
	}
	opts = opts.withDefaults()

	var n int
	var id, edgeID string
	for {
		n = next()
		id, edgeID = NodeID(parentID, n), EdgeID(parentID, n)
		if _, taken := v.Node(id); !taken && !v.HasEdge(edgeID) {
			break
		}
	}

	sign := -1.0
	if v.ChildCount(parentID)%2 == 1 {
		sign = 1.0
	}
	r := rand.Float64
	if opts.Rand != nil {
		r = opts.Rand.Float64
	}
	jitter := r()*jitterSpan + jitterMin

	node := graph.Node{
		ID:   id,
		Kind: graph.KindBranch,
		Data: graph.NodeData{
			Label:   fmt.Sprintf("Manual Sub-topic %d", n),
			Summary: fmt.Sprintf("Manually added branch from %s. Add more details here.", parent.DisplayLabel()),
		},
		Position: graph.Position{
			X: parent.Position.X + sign*opts.XOffset/2*jitter,
			Y: parent.Position.Y + opts.YOffset,
		},
		Size:         graph.Size{Width: graph.DefaultNodeWidth, Height: graph.DefaultNodeHeight},
		SourceAnchor: parent.SourceAnchor,
		TargetAnchor: parent.TargetAnchor,
		Manual:       true,
	}
	edge := graph.NewEdge(edgeID, parentID, id, false)
	return node, edge, nil
}
