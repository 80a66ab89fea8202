package transform

import (
	"fmt"
	"strings"

	"github.com/matzehuels/mindgraft/pkg/dag"
)

// CycleError is returned by [AssignLayers] when some nodes could not be
// ranked because they lie on, or below, a directed cycle.
type CycleError struct {
	// Unranked lists the stuck node IDs in insertion order.
	Unranked []string
}

func (e *CycleError) Error() string {
	const show = 5
	ids := e.Unranked
	more := ""
	if len(ids) > show {
		more = fmt.Sprintf(" and %d more", len(ids)-show)
		ids = ids[:show]
	}
	return fmt.Sprintf("cannot rank %s%s: graph contains a cycle", strings.Join(ids, ", "), more)
}

// Unwrap lets callers match [dag.ErrGraphHasCycle].
func (e *CycleError) Unwrap() error { return dag.ErrGraphHasCycle }

// AssignLayers ranks every node by its longest distance from a source, so
// each parent sits strictly above its children and tree siblings share a
// row. Ranks are computed in topological (Kahn) order in O(V+E).
//
// If the graph has a cycle the rows are left untouched and a *CycleError
// names the nodes that never became ready.
func AssignLayers(g *dag.DAG) error {
	nodes := g.Nodes()
	pending := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	ready := make([]string, 0, len(nodes))

	for _, n := range nodes {
		if pending[n.ID] = g.InDegree(n.ID); pending[n.ID] == 0 {
			ready = append(ready, n.ID)
		}
	}

	ranked := 0
	for ; len(ready) > 0; ranked++ {
		id := ready[0]
		ready = ready[1:]
		for _, child := range g.Children(id) {
			rows[child] = max(rows[child], rows[id]+1)
			if pending[child]--; pending[child] == 0 {
				ready = append(ready, child)
			}
		}
	}

	if ranked < len(nodes) {
		var stuck []string
		for _, n := range nodes {
			if pending[n.ID] > 0 {
				stuck = append(stuck, n.ID)
			}
		}
		return &CycleError{Unranked: stuck}
	}
	g.SetRows(rows)
	return nil
}
