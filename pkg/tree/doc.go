// Package tree reads mind-map documents and converts them into graph nodes
// and edges.
//
// A document is a single [Node] whose children nest to arbitrary depth. It
// is produced by the document-analysis backend and treated as immutable.
//
// # Importing
//
// [Import] walks the document depth-first in pre-order with an explicit
// stack, so very deep documents cannot exhaust the call stack:
//
//	root, err := tree.ImportJSON("mindmap.json")
//	nodes, edges, err := tree.Import(root)
//
// The output satisfies:
//
//   - len(nodes) == Count(root)
//   - len(edges) == Count(root) - 1
//   - every edge's source is the document parent of its target
//
// Positions are zero. Pass the result to the layout package to place it.
//
// # Validation
//
// [Validate] rejects documents where a node lacks an id or a topic, or an id
// repeats. The error names the node path:
//
//	INVALID_DOCUMENT: root.children[1].children[0]: missing topic
package tree
