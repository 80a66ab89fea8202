package dag

import (
	"cmp"
	"maps"
	"slices"
)

// CountCrossings sums [CountLayerCrossings] over every pair of adjacent
// rows in orders. A row missing from orders counts as empty.
//
// The ordering pass calls it after each barycentric sweep and keeps the
// sweep only if the total drops.
func CountCrossings(g *DAG, orders map[int][]string) int {
	total := 0
	for _, r := range slices.Sorted(maps.Keys(orders)) {
		if lower, ok := orders[r+1]; ok {
			total += CountLayerCrossings(g, orders[r], lower)
		}
	}
	return total
}

// CountLayerCrossings counts pairs of edges between upper and lower that
// cross. Edges (u1,v1) and (u2,v2) cross when u1 is left of u2 but v1 is
// right of v2, so after sorting edges by upper position the answer is the
// number of inversions among lower positions. Inversions are counted with
// a Fenwick tree in O(E log V).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	lowerPos := PosMap(lower)

	type span struct{ from, to int }
	var spans []span
	for i, id := range upper {
		for _, child := range g.Children(id) {
			if j, ok := lowerPos[child]; ok {
				spans = append(spans, span{i, j})
			}
		}
	}
	if len(spans) < 2 {
		return 0
	}
	slices.SortFunc(spans, func(a, b span) int {
		return cmp.Or(cmp.Compare(a.from, b.from), cmp.Compare(a.to, b.to))
	})

	seen := make(fenwick, len(lower)+1)
	crossings := 0
	for n, s := range spans {
		// Every earlier span ending right of s.to crosses s.
		crossings += n - seen.prefix(s.to)
		seen.add(s.to)
	}
	return crossings
}

// fenwick is a 1-indexed binary indexed tree of counts.
type fenwick []int

func (f fenwick) add(pos int) {
	for i := pos + 1; i < len(f); i += i & -i {
		f[i]++
	}
}

// prefix returns the count at positions 0..pos inclusive.
func (f fenwick) prefix(pos int) int {
	sum := 0
	for i := pos + 1; i > 0; i -= i & -i {
		sum += f[i]
	}
	return sum
}
