package tree

import (
	"fmt"

	"github.com/matzehuels/mindgraft/pkg/errors"
	"github.com/matzehuels/mindgraft/pkg/graph"
)

// Import converts a tree document into flat node and edge lists.
//
// Nodes are emitted in depth-first pre-order with children in document
// order. The node at depth 0 is a [graph.KindRoot], every other node a
// [graph.KindBranch]. Each node keeps its document id, sits at (0,0) and
// carries the default card size; the layout engine assigns real positions.
// Each parent→child pair becomes an animated smoothstep edge with id
// "e-{parent}-{child}".
//
// A nil tree yields empty collections and no error. A document that fails
// [Validate] yields an INVALID_DOCUMENT error and no partial output.
//
// Import never modifies t and holds no state between calls.
func Import(t *Node) ([]graph.Node, []graph.Edge, error) {
	if t == nil {
		return []graph.Node{}, []graph.Edge{}, nil
	}
	if err := Validate(t); err != nil {
		return nil, nil, err
	}

	size := graph.Size{Width: graph.DefaultNodeWidth, Height: graph.DefaultNodeHeight}
	nodes := make([]graph.Node, 0, Count(t))
	edges := make([]graph.Edge, 0, cap(nodes)-1)

	type frame struct {
		node   *Node
		parent string
	}
	stack := []frame{{node: t}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		kind := graph.KindBranch
		if f.parent == "" {
			kind = graph.KindRoot
		}
		nodes = append(nodes, graph.Node{
			ID:   f.node.ID,
			Kind: kind,
			Data: graph.NodeData{
				Label:    f.node.Topic,
				Summary:  f.node.Summary,
				ImageURL: f.node.Image(),
			},
			Size: size,
		})
		if f.parent != "" {
			edges = append(edges, graph.NewEdge(graph.EdgeID(f.parent, f.node.ID), f.parent, f.node.ID, true))
		}

		// Push in reverse so the first child is visited next.
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], parent: f.node.ID})
		}
	}
	return nodes, edges, nil
}

// Validate checks that every node has an id and a topic and that ids are
// unique within the document. Errors carry the INVALID_DOCUMENT code and
// name the first offending node by path, e.g. "root.children[1].children[0]".
// A nil tree is valid.
func Validate(t *Node) error {
	if t == nil {
		return nil
	}

	type frame struct {
		node *Node
		path string
	}
	seen := make(map[string]string)
	stack := []frame{{node: t, path: "root"}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case f.node == nil:
			return errors.New(errors.ErrCodeInvalidDocument, "%s: node is null", f.path)
		case f.node.ID == "":
			return errors.New(errors.ErrCodeInvalidDocument, "%s: missing id", f.path)
		case f.node.Topic == "":
			return errors.New(errors.ErrCodeInvalidDocument, "%s: missing topic", f.path)
		}
		if prev, dup := seen[f.node.ID]; dup {
			return errors.New(errors.ErrCodeInvalidDocument, "%s: id %q already used at %s", f.path, f.node.ID, prev)
		}
		seen[f.node.ID] = f.path

		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				node: f.node.Children[i],
				path: fmt.Sprintf("%s.children[%d]", f.path, i),
			})
		}
	}
	return nil
}

// Count returns the number of nodes in the tree, 0 for nil.
func Count(t *Node) int {
	if t == nil {
		return 0
	}
	n := 0
	stack := []*Node{t}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		for _, c := range cur.Children {
			if c != nil {
				stack = append(stack, c)
			}
		}
	}
	return n
}
