package transform

import (
	"fmt"

	"github.com/matzehuels/mindgraft/pkg/dag"
)

// Subdivide replaces every edge that skips rows with a chain of zero-size
// waypoints, one per intermediate row, so the ordering pass only ever sees
// edges between adjacent rows:
//
//	Before: root (row 0) → deep (row 3)
//	After:  root → root>deep@1 → root>deep@2 → deep
//
// Imported trees never need waypoints; they appear once a user connects
// cards across ranks.
//
// Waypoint IDs are "<from>><to>@<row>"; a clash with an existing ID gets a
// "#n" suffix. Rows must already be assigned.
func Subdivide(g *dag.DAG) error {
	taken := make(map[string]bool, g.NodeCount())
	for _, n := range g.Nodes() {
		taken[n.ID] = true
	}

	for _, e := range g.Edges() {
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		if src == nil || dst == nil || dst.Row-src.Row < 2 {
			continue
		}

		g.RemoveEdge(e.From, e.To)
		prev := src.ID
		for row := src.Row + 1; row < dst.Row; row++ {
			id := waypointID(taken, e, row)
			err := g.AddNode(dag.Node{ID: id, Row: row, Kind: dag.NodeKindVirtual})
			if err == nil {
				err = g.AddEdge(dag.Edge{From: prev, To: id})
			}
			if err != nil {
				return fmt.Errorf("subdivide %s -> %s: %w", e.From, e.To, err)
			}
			prev = id
		}
		if err := g.AddEdge(dag.Edge{From: prev, To: dst.ID}); err != nil {
			return fmt.Errorf("subdivide %s -> %s: %w", e.From, e.To, err)
		}
	}
	return nil
}

func waypointID(taken map[string]bool, e dag.Edge, row int) string {
	base := fmt.Sprintf("%s>%s@%d", e.From, e.To, row)
	id := base
	for i := 2; taken[id]; i++ {
		id = fmt.Sprintf("%s#%d", base, i)
	}
	taken[id] = true
	return id
}
