package layout

import (
	"slices"

	"github.com/matzehuels/mindgraft/pkg/dag"
)

// order returns the left-to-right node order of every row.
//
// The initial order is a depth-first pre-order from the sources, so a tree
// comes out crossing-free with children in document order. Barycentric
// sweeps then alternate downward (by parent positions) and upward (by child
// positions); a sweep is kept only if it strictly reduces the crossing
// count.
func order(g *dag.DAG, sweeps int) map[int][]string {
	best := initialOrder(g)
	bestCrossings := dag.CountCrossings(g, best)

	cur := cloneOrders(best)
	for i := 0; i < sweeps && bestCrossings > 0; i++ {
		if i%2 == 0 {
			sweepDown(g, cur)
		} else {
			sweepUp(g, cur)
		}
		if c := dag.CountCrossings(g, cur); c < bestCrossings {
			best, bestCrossings = cloneOrders(cur), c
		} else {
			cur = cloneOrders(best)
		}
	}
	return best
}

func initialOrder(g *dag.DAG) map[int][]string {
	orders := make(map[int][]string, g.MaxRow()+1)
	visited := make(map[string]bool, g.NodeCount())

	var stack []string
	for _, src := range g.Sources() {
		stack = append(stack, src.ID)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[id] {
				continue
			}
			visited[id] = true
			n, _ := g.Node(id)
			orders[n.Row] = append(orders[n.Row], id)

			children := g.Children(id)
			for i := len(children) - 1; i >= 0; i-- {
				if !visited[children[i]] {
					stack = append(stack, children[i])
				}
			}
		}
	}
	return orders
}

func sweepDown(g *dag.DAG, orders map[int][]string) {
	for row := 1; row <= g.MaxRow(); row++ {
		reorder(orders[row], dag.PosMap(orders[row-1]), g.Parents)
	}
}

func sweepUp(g *dag.DAG, orders map[int][]string) {
	for row := g.MaxRow() - 1; row >= 0; row-- {
		reorder(orders[row], dag.PosMap(orders[row+1]), g.Children)
	}
}

// reorder sorts ids in place by the mean position of their neighbours in the
// adjacent row. Nodes without neighbours keep their current index as key;
// ties keep the current order.
func reorder(ids []string, adjPos map[string]int, neighbours func(string) []string) {
	key := make(map[string]float64, len(ids))
	for i, id := range ids {
		sum, n := 0, 0
		for _, nb := range neighbours(id) {
			if p, ok := adjPos[nb]; ok {
				sum += p
				n++
			}
		}
		if n == 0 {
			key[id] = float64(i)
			continue
		}
		key[id] = float64(sum) / float64(n)
	}
	slices.SortStableFunc(ids, func(a, b string) int {
		switch ka, kb := key[a], key[b]; {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return 0
	})
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for row, ids := range orders {
		out[row] = slices.Clone(ids)
	}
	return out
}
