package graph_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/mindgraft/pkg/graph"
)

func ExampleWriteGraph() {
	g := graph.Graph{
		Nodes: []graph.Node{{
			ID:   "paper",
			Kind: graph.KindRoot,
			Data: graph.NodeData{Label: "Attention Is All You Need"},
			Size: graph.Size{Width: 350, Height: 150},
		}},
	}

	if err := graph.WriteGraph(g, os.Stdout); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "paper",
	//       "type": "root",
	//       "data": {
	//         "label": "Attention Is All You Need",
	//         "summary": ""
	//       },
	//       "position": {
	//         "x": 0,
	//         "y": 0
	//       },
	//       "width": 350,
	//       "height": 150
	//     }
	//   ],
	//   "edges": []
	// }
}

func ExampleReadGraph() {
	// A saved map: one imported branch and one card grafted by the user.
	// Edges without a type get the default routing style.
	doc := `{
		"nodes": [
			{"id": "r", "type": "root", "data": {"label": "Paper"}},
			{"id": "a", "type": "branch", "data": {"label": "Method"}},
			{"id": "manual-a-1", "type": "branch", "data": {"label": "New topic"}, "manual": true}
		],
		"edges": [
			{"id": "e-r-a", "source": "r", "target": "a", "animated": true},
			{"id": "e-a-manual-a-1", "source": "a", "target": "manual-a-1"}
		]
	}`

	g, err := graph.ReadGraph(strings.NewReader(doc))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, n := range g.Nodes {
		fmt.Printf("%s manual=%v\n", n.DisplayLabel(), n.Manual)
	}
	for _, e := range g.Edges {
		fmt.Printf("%s -> %s (%s, animated=%v)\n", e.Source, e.Target, e.Type, e.Animated)
	}
	// Output:
	// Paper manual=false
	// Method manual=false
	// New topic manual=true
	// r -> a (smoothstep, animated=true)
	// a -> manual-a-1 (smoothstep, animated=false)
}

func ExampleValidate() {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "r", Kind: graph.KindRoot}},
		Edges: []graph.Edge{graph.NewEdge(graph.EdgeID("r", "ghost"), "r", "ghost", true)},
	}
	fmt.Println(graph.Validate(g))
	// Output:
	// NODE_NOT_FOUND: edge e-r-ghost: unknown target "ghost"
}

func ExampleGraph_Roots() {
	// Two imported documents side by side form a forest.
	g := graph.Graph{Nodes: []graph.Node{
		{ID: "p1", Kind: graph.KindRoot},
		{ID: "p1-a", Kind: graph.KindBranch},
		{ID: "p2", Kind: graph.KindRoot},
	}}
	for _, r := range g.Roots() {
		fmt.Println(r.ID)
	}
	// Output:
	// p1
	// p2
}
