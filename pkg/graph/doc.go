// Package graph provides the node/edge data model of a mind map and its
// JSON serialization.
//
// This package defines the canonical wire format handed to the rendering
// surface and written by the CLI. It sits between the tree importer, the
// layout engine and the graph state store:
//
//   - pkg/tree: TreeNode document → []Node, []Edge (positions zeroed)
//   - pkg/layout: assigns Position and anchor hints
//   - pkg/store: owns the canonical collections
//
// # Core Types
//
//   - [Node]: a topic card with id, [Kind], [NodeData], [Position] and [Size]
//   - [Edge]: a directed parent → child link, smoothstep-routed
//   - [Graph]: the collections together
//
// # Serialization
//
// Graphs use JSON keys shaped for browser diagramming toolkits:
//
//	{
//	  "nodes": [{"id": "r", "type": "root", "data": {"label": "Root", "summary": ""},
//	             "position": {"x": 0, "y": 0}, "width": 350, "height": 150}],
//	  "edges": [{"id": "e-r-a", "source": "r", "target": "a", "animated": true, "type": "smoothstep"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("map.json")
//	graph.WriteGraphFile(g, "output.json")
//	data, _ := graph.MarshalGraph(g)
//
// # Concurrency
//
// Values are plain data. [Graph.Clone] copies the slices so callers can hand
// out snapshots without sharing backing arrays.
package graph
