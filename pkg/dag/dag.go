package dag

import (
	"errors"
	"slices"
)

var (
	ErrInvalidNodeID     = errors.New("node ID must not be empty")
	ErrDuplicateNodeID   = errors.New("duplicate node ID")
	ErrUnknownSourceNode = errors.New("unknown source node")
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrNonConsecutiveRows is returned by [DAG.ValidateLayered] for an edge
	// that does not go from row r to row r+1.
	ErrNonConsecutiveRows = errors.New("edges must connect consecutive rows")

	// ErrGraphHasCycle is the sentinel behind ranking failures; see
	// transform.CycleError.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// NodeKind tells cards apart from layout waypoints.
type NodeKind int

const (
	NodeKindRegular NodeKind = iota
	// NodeKindVirtual marks a zero-size waypoint on an edge spanning rows.
	NodeKindVirtual
)

// Node is one vertex of the layout problem. Width is the extent across a
// row and Height the extent along the rank axis; horizontal layouts swap
// the card dimensions before building the graph.
type Node struct {
	ID     string
	Row    int
	Width  float64
	Height float64

	Kind NodeKind
}

// IsVirtual reports whether n is a waypoint inserted by subdivision.
func (n Node) IsVirtual() bool { return n.Kind == NodeKindVirtual }

// Edge points from a parent card to a child card.
type Edge struct {
	From string
	To   string
}

// DAG is a directed graph whose nodes carry a row. Every accessor returns
// elements in insertion order, which is what makes a layout reproducible.
//
// Despite the name, cycles can be inserted; ranking rejects them. A DAG is
// not safe for concurrent use.
type DAG struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
	maxRow   int
}

// New returns an empty DAG.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode inserts a copy of n.
func (d *DAG) AddNode(n Node) error {
	switch {
	case n.ID == "":
		return ErrInvalidNodeID
	case d.nodes[n.ID] != nil:
		return ErrDuplicateNodeID
	}
	d.nodes[n.ID] = &n
	d.order = append(d.order, n.ID)
	d.maxRow = max(d.maxRow, n.Row)
	return nil
}

// SetRows overwrites the row of every node listed in rows.
func (d *DAG) SetRows(rows map[string]int) {
	d.maxRow = 0
	for _, id := range d.order {
		n := d.nodes[id]
		if r, ok := rows[id]; ok {
			n.Row = r
		}
		d.maxRow = max(d.maxRow, n.Row)
	}
}

// AddEdge connects two existing nodes. Parallel edges are kept.
func (d *DAG) AddEdge(e Edge) error {
	if d.nodes[e.From] == nil {
		return ErrUnknownSourceNode
	}
	if d.nodes[e.To] == nil {
		return ErrUnknownTargetNode
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// RemoveEdge drops every from→to edge; a missing edge is ignored.
func (d *DAG) RemoveEdge(from, to string) {
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to })
	d.outgoing[from] = slices.DeleteFunc(d.outgoing[from], func(s string) bool { return s == to })
	d.incoming[to] = slices.DeleteFunc(d.incoming[to], func(s string) bool { return s == from })
}

// Nodes returns the graph's own node pointers; edits are visible to it.
func (d *DAG) Nodes() []*Node {
	out := make([]*Node, len(d.order))
	for i, id := range d.order {
		out[i] = d.nodes[id]
	}
	return out
}

// Node looks up a node by id.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Edges returns a copy of the edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes, waypoints included.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges, parallel edges included.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the targets of id's outgoing edges. The slice is
// internal; callers must not modify it.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the sources of id's incoming edges. The slice is
// internal; callers must not modify it.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// InDegree counts id's incoming edges.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// MaxRow is the deepest assigned row, 0 for an empty graph.
func (d *DAG) MaxRow() int { return d.maxRow }

// Sources returns the nodes without parents: the roots of a mind-map
// forest, plus any card the user detached.
func (d *DAG) Sources() []*Node {
	var out []*Node
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			out = append(out, d.nodes[id])
		}
	}
	return out
}

// ValidateLayered checks that every edge spans exactly one row, which holds
// after ranking and subdivision.
func (d *DAG) ValidateLayered() error {
	for _, e := range d.edges {
		if d.nodes[e.To].Row != d.nodes[e.From].Row+1 {
			return ErrNonConsecutiveRows
		}
	}
	return nil
}

// PosMap indexes ids by their position in the slice.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
