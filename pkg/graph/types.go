package graph

import (
	"slices"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Default card dimensions in logical units. They match the rendered card
// size so layout spacing is accurate.
const (
	DefaultNodeWidth  = 350.0
	DefaultNodeHeight = 150.0
)

// EdgeTypeSmoothStep is the routing style used for every edge.
const EdgeTypeSmoothStep = "smoothstep"

// =============================================================================
// Kind - Node Classification
// =============================================================================

// Kind distinguishes the root topic of an imported tree from its branches.
type Kind string

const (
	// KindRoot is the depth-0 node of an imported tree.
	KindRoot Kind = "root"
	// KindBranch is every other node, imported or manually added.
	KindBranch Kind = "branch"
)

// Extensible reports whether the rendering surface offers an add-child
// affordance for nodes of this kind. Grafting onto the root extends the
// existing tree and never creates a second root.
func (k Kind) Extensible() bool {
	return k == KindRoot || k == KindBranch
}

// =============================================================================
// Anchor - Edge Attachment Face
// =============================================================================

// Anchor names the face of a card where edges attach.
type Anchor string

const (
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
	AnchorLeft   Anchor = "left"
	AnchorRight  Anchor = "right"
)

// =============================================================================
// Geometry
// =============================================================================

// Position is a top-left placement in screen space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the extent of a card.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// OrDefault returns s with zero dimensions replaced by the default card size.
func (s Size) OrDefault() Size {
	if s.Width <= 0 {
		s.Width = DefaultNodeWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultNodeHeight
	}
	return s
}

// =============================================================================
// Node - Positioned Topic Card
// =============================================================================

// NodeData is the read-only payload shown by the detail view.
type NodeData struct {
	Label    string `json:"label"`
	Summary  string `json:"summary"`
	ImageURL string `json:"image_url,omitempty"`
}

// Node is a single topic card. The ID is unique across the whole graph.
// For imported nodes it equals the source tree id; for manually grafted
// nodes it is synthesized by the graft package.
type Node struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"type"`
	Data     NodeData `json:"data"`
	Position Position `json:"position"`
	Size

	// Anchor hints set by the layout engine so edges attach at the
	// correct face of the card.
	SourceAnchor Anchor `json:"sourcePosition,omitempty"`
	TargetAnchor Anchor `json:"targetPosition,omitempty"`

	// Manual marks nodes grafted by the user rather than imported.
	Manual   bool `json:"manual,omitempty"`
	Selected bool `json:"selected,omitempty"`
	Dragging bool `json:"dragging,omitempty"`
}

// IsRoot reports whether the node is the root of its tree.
func (n *Node) IsRoot() bool { return n.Kind == KindRoot }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Data.Label != "" {
		return n.Data.Label
	}
	return n.ID
}

// Center returns the midpoint of the card.
func (n *Node) Center() (x, y float64) {
	s := n.Size.OrDefault()
	return n.Position.X + s.Width/2, n.Position.Y + s.Height/2
}

// =============================================================================
// Edge - Directed Parent → Child Link
// =============================================================================

// Edge is a directed link from Source (parent) to Target (child).
// Imported edges are animated; manually added edges are not.
type Edge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Animated bool   `json:"animated"`
	Type     string `json:"type"`
	Selected bool   `json:"selected,omitempty"`
}

// EdgeID returns the identifier used for imported parent→child edges.
func EdgeID(source, target string) string {
	return "e-" + source + "-" + target
}

// NewEdge builds a smoothstep edge between two nodes.
func NewEdge(id, source, target string, animated bool) Edge {
	return Edge{
		ID:       id,
		Source:   source,
		Target:   target,
		Animated: animated,
		Type:     EdgeTypeSmoothStep,
	}
}

// =============================================================================
// Graph - Canonical Collections
// =============================================================================

// Graph is the canonical node and edge collections handed to the
// rendering surface. It is also the JSON file format.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Clone returns a copy of g whose slices can be modified independently.
func (g Graph) Clone() Graph {
	return Graph{
		Nodes: slices.Clone(g.Nodes),
		Edges: slices.Clone(g.Edges),
	}
}

// Empty reports whether the graph has no nodes.
func (g Graph) Empty() bool { return len(g.Nodes) == 0 }

// Node returns the node with the given ID.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Roots returns the nodes of kind [KindRoot] in collection order.
func (g Graph) Roots() []Node {
	var roots []Node
	for _, n := range g.Nodes {
		if n.IsRoot() {
			roots = append(roots, n)
		}
	}
	return roots
}
