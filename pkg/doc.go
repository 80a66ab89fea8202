// Package pkg provides the core libraries for Mindgraft mind-map layout.
//
// # Overview
//
// Mindgraft turns the topic tree of a document, as produced by an external
// analysis backend, into a positioned node/edge diagram, and lets users graft
// new topics onto any card afterwards. The pkg directory is organized as:
//
//  1. Model - [tree] (backend documents) and [graph] (nodes, edges, JSON)
//  2. Geometry - [dag], [dag/transform] and [layout] (layered placement)
//  3. State - [graft] (manual nodes) and [store] (canonical collections)
//  4. Orchestration - [pipeline] (import → layout → render) and [session]
//  5. Infrastructure - [backend], [cache], [render], [server], [observability]
//
// # Architecture
//
// The typical data flow:
//
//	Document (PDF)
//	     ↓
//	[backend] package (analysis service → tree)
//	     ↓
//	[tree] package (validate + import → nodes, edges)
//	     ↓
//	[layout] package (ranks, ordering, coordinates)
//	     ↓
//	[store] package (canonical graph; grafts and edits)
//	     ↓
//	JSON / DOT / SVG output
//
// # Quick Start
//
// Lay out a tree document and graft a child:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/mindgraft/pkg/graft"
//	    "github.com/matzehuels/mindgraft/pkg/pipeline"
//	    "github.com/matzehuels/mindgraft/pkg/store"
//	    "github.com/matzehuels/mindgraft/pkg/tree"
//	)
//
//	t, _ := tree.ImportJSON("paper.json")
//	res, _ := pipeline.NewRunner(nil, nil, nil).Execute(context.Background(), t, pipeline.Options{})
//
//	s := store.New(nil, graft.Options{})
//	s.ReplaceAll(res.Graph.Nodes, res.Graph.Edges)
//	node, edge, _ := s.AddChild(t.ID)
//
// # Main Packages
//
// [tree] - The backend's recursive topic document: decoding, validation and
// the flattening import into nodes and edges.
//
// [graph] - Node/edge data model with JSON keys shaped for browser
// diagramming toolkits.
//
// [dag] - Directed graph organized into rows, used as the layout engine's
// working structure. [dag/transform] assigns ranks and subdivides long edges.
//
// [layout] - Layered hierarchical placement: longest-path ranking,
// barycentric crossing reduction and compact coordinate assignment.
//
// [graft] - Provisional placement and identifiers for manually added nodes.
//
// [store] - Owner of the canonical collections. Applies diagramming-toolkit
// change sets, connections, grafts and explicit relayouts.
//
// [pipeline] - Import, cached layout and rendering, used by CLI and server.
//
// [session] - One interactive mind map with its upload lifecycle, and a
// registry of sessions for the HTTP server.
//
// [backend] - Client for the document-analysis service.
//
// [cache] - Document and layout caches (null, file, redis).
//
// [render] - DOT export and SVG rendering through Graphviz.
//
// [server] - HTTP session API.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//	go test -run Example       # Examples only
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/mindgraft/pkg/tree
// [graph]: https://pkg.go.dev/github.com/matzehuels/mindgraft/pkg/graph
// [dag]: https://pkg.go.dev/github.com/matzehuels/mindgraft/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/mindgraft/pkg/dag/transform
// [layout]: https://pkg.go.dev/github.com/matzehuels/mindgraft/pkg/layout
// [graft]: https://pkg.go.dev/github.com/matzehuels/mindgraft/pkg/graft
// [store]: https://pkg.go.dev/github.com/matzehuels/mindgraft/pkg/store
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/mindgraft/pkg/pipeline
// [session]: https://pkg.go.dev/github.com/matzehuels/mindgraft/pkg/session
// [backend]: https://pkg.go.dev/github.com/matzehuels/mindgraft/pkg/backend
// [cache]: https://pkg.go.dev/github.com/matzehuels/mindgraft/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/mindgraft/pkg/render
// [server]: https://pkg.go.dev/github.com/matzehuels/mindgraft/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/mindgraft/pkg/observability
package pkg
