package layout

import (
	"math"

	"github.com/matzehuels/mindgraft/pkg/dag"
	"github.com/matzehuels/mindgraft/pkg/dag/transform"
	"github.com/matzehuels/mindgraft/pkg/errors"
	"github.com/matzehuels/mindgraft/pkg/graph"
)

// Layout places nodes with a layered hierarchical algorithm and returns
// copies of the nodes with Position, Size and anchor hints set. The input
// slices are not modified and the output keeps the input order.
//
// Every edge pushes its target to a strictly later rank than its source.
// Output positions are top-left corners; the bounding box of the result
// starts at (0,0).
//
// Duplicate node ids, edges referencing unknown nodes and cycles are
// contract violations reported as LAYOUT_PRECONDITION errors.
//
// Layout is deterministic: identical input, including node and edge order,
// yields bit-identical positions.
func Layout(nodes []graph.Node, edges []graph.Edge, opts Options) ([]graph.Node, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	out := make([]graph.Node, len(nodes))
	copy(out, nodes)
	if len(nodes) == 0 {
		return out, nil
	}

	g, err := build(nodes, edges, opts.Direction)
	if err != nil {
		return nil, err
	}

	if err := transform.AssignLayers(g); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutPrecondition, err, "layout input")
	}
	if err := transform.Subdivide(g); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutPrecondition, err, "layout input")
	}
	if err := g.ValidateLayered(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "subdivide")
	}

	orders := order(g, opts.Sweeps)
	centers := place(g, orders, opts)

	source, target := graph.AnchorBottom, graph.AnchorTop
	if opts.Direction.Horizontal() {
		source, target = graph.AnchorRight, graph.AnchorLeft
	}
	minBreadth := math.Inf(1)
	for i := range out {
		size := out[i].Size.OrDefault()
		c := centers[out[i].ID]
		x, y := c.breadth-size.Width/2, c.rank-size.Height/2
		if opts.Direction.Horizontal() {
			x, y = c.rank-size.Width/2, c.breadth-size.Height/2
			minBreadth = math.Min(minBreadth, y)
		} else {
			minBreadth = math.Min(minBreadth, x)
		}
		out[i].Size = size
		out[i].Position = graph.Position{X: x, Y: y}
		out[i].SourceAnchor = source
		out[i].TargetAnchor = target
	}

	// Shift so the leftmost (topmost) card edge sits at zero.
	for i := range out {
		if opts.Direction.Horizontal() {
			out[i].Position.Y -= minBreadth
		} else {
			out[i].Position.X -= minBreadth
		}
	}
	return out, nil
}

// build copies the graph into a layout problem. Node extents are mapped to
// the layout axes: Width is the breadth (within a rank) and Height the
// rank-axis extent, swapped for horizontal layouts.
func build(nodes []graph.Node, edges []graph.Edge, dir Direction) (*dag.DAG, error) {
	g := dag.New()
	for _, n := range nodes {
		size := n.Size.OrDefault()
		breadth, depth := size.Width, size.Height
		if dir.Horizontal() {
			breadth, depth = depth, breadth
		}
		if err := g.AddNode(dag.Node{ID: n.ID, Width: breadth, Height: depth}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeLayoutPrecondition, err, "node %q", n.ID)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e.Source, To: e.Target}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeLayoutPrecondition, err, "edge %s (%s -> %s)", e.ID, e.Source, e.Target)
		}
	}
	return g, nil
}
