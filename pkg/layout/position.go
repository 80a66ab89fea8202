package layout

import (
	"math"

	"github.com/matzehuels/mindgraft/pkg/dag"
)

// placementPasses is the number of down/up refinement rounds run by place.
const placementPasses = 8

type center struct {
	breadth float64
	rank    float64
}

// place assigns centre coordinates to every node given fixed row orders.
//
// The rank axis is simple: each row is as deep as its deepest node and
// consecutive rows are RankSeparation apart. Across a rank, rows are first
// packed left to right, then refined by alternating passes that pull each
// node toward the mean of its parents (down) or children (up). Each pass is
// solved exactly as a least-squares problem under minimum-gap constraints,
// so rows never overlap. The last pass is upward, which centres parents
// over their children.
func place(g *dag.DAG, orders map[int][]string, opts Options) map[string]center {
	maxRow := g.MaxRow()
	extent := func(id string) (breadth, depth float64) {
		n, _ := g.Node(id)
		return n.Width, n.Height
	}

	// Rank axis.
	rankPos := make([]float64, maxRow+1)
	prevDepth := 0.0
	for row := 0; row <= maxRow; row++ {
		depth := 0.0
		for _, id := range orders[row] {
			_, d := extent(id)
			depth = math.Max(depth, d)
		}
		if row == 0 {
			rankPos[row] = depth / 2
		} else {
			rankPos[row] = rankPos[row-1] + prevDepth/2 + opts.RankSeparation + depth/2
		}
		prevDepth = depth
	}

	// Breadth axis.
	gaps := make(map[int][]float64, maxRow+1)
	x := make(map[string]float64, g.NodeCount())
	for row := 0; row <= maxRow; row++ {
		ids := orders[row]
		gaps[row] = rowGaps(g, ids, opts.NodeSeparation)
		pos := 0.0
		for i, id := range ids {
			if i == 0 {
				b, _ := extent(id)
				pos = b / 2
			} else {
				pos += gaps[row][i-1]
			}
			x[id] = pos
		}
	}

	for range placementPasses {
		for row := 1; row <= maxRow; row++ {
			align(orders[row], gaps[row], x, g.Parents)
		}
		for row := maxRow - 1; row >= 0; row-- {
			align(orders[row], gaps[row], x, g.Children)
		}
	}

	out := make(map[string]center, g.NodeCount())
	for _, n := range g.Nodes() {
		if !n.IsVirtual() {
			out[n.ID] = center{breadth: x[n.ID], rank: rankPos[n.Row]}
		}
	}
	return out
}

// rowGaps returns the minimum centre distance between each pair of
// neighbours in a row. Virtual nodes need only half the separation.
func rowGaps(g *dag.DAG, ids []string, sep float64) []float64 {
	if len(ids) < 2 {
		return nil
	}
	gaps := make([]float64, len(ids)-1)
	for i := range gaps {
		a, _ := g.Node(ids[i])
		b, _ := g.Node(ids[i+1])
		s := sep
		if a.IsVirtual() || b.IsVirtual() {
			s = sep / 2
		}
		gaps[i] = a.Width/2 + s + b.Width/2
	}
	return gaps
}

// align moves the nodes of one row toward the mean coordinate of their
// neighbours, keeping the row order and minimum gaps. Nodes without
// neighbours want to stay where they are.
func align(ids []string, gaps []float64, x map[string]float64, neighbours func(string) []string) {
	if len(ids) == 0 {
		return
	}
	want := make([]float64, len(ids))
	for i, id := range ids {
		nbs := neighbours(id)
		if len(nbs) == 0 {
			want[i] = x[id]
			continue
		}
		sum := 0.0
		for _, nb := range nbs {
			sum += x[nb]
		}
		want[i] = sum / float64(len(nbs))
	}
	for i, v := range solveGaps(want, gaps) {
		x[ids[i]] = v
	}
}

// solveGaps returns the x minimising Σ(x[i]-want[i])² subject to
// x[i+1]-x[i] >= gaps[i].
//
// Substituting y[i] = x[i] - offset[i], where offset is the running sum of
// gaps, turns the constraints into y being non-decreasing; that is isotonic
// regression, solved in linear time by pooling adjacent violators.
func solveGaps(want, gaps []float64) []float64 {
	n := len(want)
	offset := make([]float64, n)
	for i := 1; i < n; i++ {
		offset[i] = offset[i-1] + gaps[i-1]
	}

	type block struct {
		sum   float64
		count int
	}
	mean := func(b block) float64 { return b.sum / float64(b.count) }

	blocks := make([]block, 0, n)
	for i := range n {
		blocks = append(blocks, block{sum: want[i] - offset[i], count: 1})
		for len(blocks) > 1 {
			last, prev := blocks[len(blocks)-1], blocks[len(blocks)-2]
			if mean(prev) <= mean(last) {
				break
			}
			blocks[len(blocks)-2] = block{sum: prev.sum + last.sum, count: prev.count + last.count}
			blocks = blocks[:len(blocks)-1]
		}
	}

	x := make([]float64, n)
	i := 0
	for _, b := range blocks {
		m := mean(b)
		for range b.count {
			x[i] = m + offset[i]
			i++
		}
	}
	return x
}
