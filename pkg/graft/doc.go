// Package graft synthesizes manually added child nodes.
//
// [AddChild] is the single entry point for extending a mind map by hand.
// Whether a node offers the affordance is a pure function of its kind (see
// graph.Kind.Extensible); nodes carry no callbacks.
//
// Grafted nodes get the id "manual-{parent}-{n}" and are joined by a
// non-animated edge "edge-manual-{parent}-{n}". They are placed
// heuristically near the parent instead of re-running the layout engine, so
// positions the user has dragged stay put.
package graft
