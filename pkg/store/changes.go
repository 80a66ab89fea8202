package store

import "github.com/matzehuels/mindgraft/pkg/graph"

// NodeChangeType names the kind of a node delta sent by the rendering surface.
type NodeChangeType string

const (
	NodeChangePosition   NodeChangeType = "position"
	NodeChangeDimensions NodeChangeType = "dimensions"
	NodeChangeSelect     NodeChangeType = "select"
	NodeChangeRemove     NodeChangeType = "remove"
	NodeChangeAdd        NodeChangeType = "add"
	NodeChangeReplace    NodeChangeType = "replace"
)

// NodeChange is one delta in a batch produced by drag, resize, selection or
// deletion on the rendering surface. Only the fields relevant to Type are
// read.
type NodeChange struct {
	Type       NodeChangeType  `json:"type"`
	ID         string          `json:"id,omitempty"`
	Position   *graph.Position `json:"position,omitempty"`
	Dragging   *bool           `json:"dragging,omitempty"`
	Dimensions *graph.Size     `json:"dimensions,omitempty"`
	Selected   *bool           `json:"selected,omitempty"`
	Item       *graph.Node     `json:"item,omitempty"`
}

// EdgeChangeType names the kind of an edge delta.
type EdgeChangeType string

const (
	EdgeChangeSelect  EdgeChangeType = "select"
	EdgeChangeRemove  EdgeChangeType = "remove"
	EdgeChangeAdd     EdgeChangeType = "add"
	EdgeChangeReplace EdgeChangeType = "replace"
)

// EdgeChange is one delta in a batch of edge changes.
type EdgeChange struct {
	Type     EdgeChangeType `json:"type"`
	ID       string         `json:"id,omitempty"`
	Selected *bool          `json:"selected,omitempty"`
	Item     *graph.Edge    `json:"item,omitempty"`
}

func (t NodeChangeType) valid() bool {
	switch t {
	case NodeChangePosition, NodeChangeDimensions, NodeChangeSelect,
		NodeChangeRemove, NodeChangeAdd, NodeChangeReplace:
		return true
	}
	return false
}

func (t EdgeChangeType) valid() bool {
	switch t {
	case EdgeChangeSelect, EdgeChangeRemove, EdgeChangeAdd, EdgeChangeReplace:
		return true
	}
	return false
}
