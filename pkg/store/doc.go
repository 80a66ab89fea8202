// Package store holds the canonical node and edge collections of a mind
// map and applies every mutation to them.
//
// # Operations
//
//   - [Store.ReplaceAll]: atomic swap after import and layout, or clearing
//   - [Store.ApplyNodeChanges] / [Store.ApplyEdgeChanges]: drag, resize,
//     selection and removal deltas from the rendering surface
//   - [Store.Connect]: a user-drawn edge
//   - [Store.AddChild]: a manual graft (see package graft)
//   - [Store.Relayout]: explicit re-run of the layout engine
//
// The manual-node counter belongs to the store instance and restarts on
// every ReplaceAll, so independent stores never share id sequences.
//
// # Invariants
//
// Node ids and edge ids are unique and every edge references existing
// nodes. Removing a node removes its incident edges. User-drawn edges may
// form cycles; a later Relayout on such a graph fails with
// LAYOUT_PRECONDITION and leaves positions unchanged.
package store
