// Package dag holds the row-indexed directed graph that the layered
// layout engine works on.
//
// The layout copies a mind map's cards into a [DAG], ranks them with
// [transform.AssignLayers], threads waypoints through long edges with
// [transform.Subdivide], then orders and spaces each row:
//
//	g := dag.New()
//	_ = g.AddNode(dag.Node{ID: "paper", Width: 350, Height: 150})
//	_ = g.AddNode(dag.Node{ID: "methods", Width: 350, Height: 150})
//	_ = g.AddEdge(dag.Edge{From: "paper", To: "methods"})
//
// Insertion order matters. [DAG.Nodes], [DAG.Sources] and [DAG.Children]
// return elements in the order they were added, so sibling order in the
// source document becomes left-to-right order on screen and two layouts
// of the same input are identical.
//
// [CountCrossings] scores a candidate row ordering; the ordering pass keeps
// a barycentric sweep only when the score drops.
//
// [transform.AssignLayers]: https://pkg.go.dev/github.com/matzehuels/mindgraft/pkg/dag/transform#AssignLayers
// [transform.Subdivide]: https://pkg.go.dev/github.com/matzehuels/mindgraft/pkg/dag/transform#Subdivide
package dag
