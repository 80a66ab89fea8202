// Package layout assigns screen positions to mind-map cards using a layered
// (Sugiyama-style) hierarchical algorithm.
//
// # Pipeline
//
// [Layout] copies the nodes and edges into a [dag.DAG] and runs:
//
//  1. Rank assignment: longest path from the roots, so siblings share a rank
//  2. Subdivision: edges skipping ranks get zero-size virtual waypoints
//  3. Ordering: depth-first initial order, then barycentric sweeps that are
//     kept only when they reduce crossings
//  4. Coordinates: ranks are RankSeparation apart; within a rank, cards are
//     at least NodeSeparation apart and pulled toward the mean of their
//     parents and children
//
// The engine works with card centres. Output positions are converted to the
// top-left convention of the rendering surface by subtracting half the card
// width and height.
//
// # Direction
//
// [TopToBottom] grows the tree downward and sets edge anchors to the bottom
// face of the source and the top face of the target. [LeftToRight] grows it
// rightward with right/left anchors.
//
// # Determinism
//
// The same nodes and edges in the same order always produce bit-identical
// positions. Child order in the source document decides left-to-right
// placement.
//
//	nodes, err := layout.Layout(nodes, edges, layout.DefaultOptions())
//
// [dag.DAG]: github.com/matzehuels/mindgraft/pkg/dag
package layout
