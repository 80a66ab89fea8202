package store

import (
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindgraft/pkg/errors"
	"github.com/matzehuels/mindgraft/pkg/graft"
	"github.com/matzehuels/mindgraft/pkg/graph"
	"github.com/matzehuels/mindgraft/pkg/layout"
)

// Store owns the canonical node and edge collections of one mind map. It is
// the only code path that mutates them; other packages return fragments
// that are fed to the store.
//
// Every method is safe for concurrent use. Reads return copies.
type Store struct {
	mu        sync.RWMutex
	nodes     []graph.Node
	edges     []graph.Edge
	nodeIndex map[string]int
	edgeIndex map[string]int
	counter   int

	graftOpts graft.Options
	logger    *log.Logger
}

// New creates an empty store. A nil logger discards output.
func New(logger *log.Logger, opts graft.Options) *Store {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Store{
		nodeIndex: map[string]int{},
		edgeIndex: map[string]int{},
		graftOpts: opts,
		logger:    logger,
	}
}

// =============================================================================
// Bulk Replacement
// =============================================================================

// ReplaceAll atomically swaps in new collections and resets the manual-node
// counter. The input is validated first; on error the previous state is
// kept. Passing nil for both clears the store.
func (s *Store) ReplaceAll(nodes []graph.Node, edges []graph.Edge) error {
	g := graph.Graph{Nodes: slices.Clone(nodes), Edges: slices.Clone(edges)}
	if err := graph.Validate(g); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes, s.edges = g.Nodes, g.Edges
	s.counter = 0
	s.reindex()
	return nil
}

// Clear empties the store.
func (s *Store) Clear() {
	_ = s.ReplaceAll(nil, nil)
}

// =============================================================================
// Incremental Changes
// =============================================================================

// ApplyNodeChanges merges a batch of node deltas. Changes naming unknown
// ids are skipped, as are adds that would duplicate an id. Added nodes are
// always branches and a replace keeps the node's kind, so a batch never
// creates or demotes a root. Removing a node also removes its incident
// edges. The batch is rejected without effect if
// any change has an unknown type.
func (s *Store) ApplyNodeChanges(changes []NodeChange) error {
	for i, c := range changes {
		if !c.Type.valid() {
			return errors.New(errors.ErrCodeInvalidInput, "node change %d: unknown type %q", i, c.Type)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := map[string]bool{}
	removedAt := map[int]bool{}
	for _, c := range changes {
		if c.Type == NodeChangeAdd {
			s.addNode(c.Item)
			continue
		}
		i, ok := s.nodeIndex[c.ID]
		if !ok {
			continue
		}
		n := &s.nodes[i]
		switch c.Type {
		case NodeChangePosition:
			if c.Position != nil {
				n.Position = *c.Position
			}
			if c.Dragging != nil {
				n.Dragging = *c.Dragging
			}
		case NodeChangeDimensions:
			if c.Dimensions != nil {
				n.Size = *c.Dimensions
			}
		case NodeChangeSelect:
			if c.Selected != nil {
				n.Selected = *c.Selected
			}
		case NodeChangeReplace:
			if c.Item != nil && c.Item.ID == c.ID {
				kind := n.Kind
				*n = *c.Item
				n.Kind = kind
			}
		case NodeChangeRemove:
			removed[c.ID] = true
			removedAt[i] = true
			delete(s.nodeIndex, c.ID)
		}
	}

	if len(removed) > 0 {
		kept := s.nodes[:0]
		for i, n := range s.nodes {
			if !removedAt[i] {
				kept = append(kept, n)
			}
		}
		s.nodes = kept
		s.edges = slices.DeleteFunc(s.edges, func(e graph.Edge) bool {
			return removed[e.Source] || removed[e.Target]
		})
		s.reindex()
	}
	return nil
}

func (s *Store) addNode(n *graph.Node) {
	if n == nil || n.ID == "" {
		return
	}
	if _, dup := s.nodeIndex[n.ID]; dup {
		s.logger.Warn("ignoring node add with duplicate id", "id", n.ID)
		return
	}
	added := *n
	// Roots only come from imports.
	added.Kind = graph.KindBranch
	s.nodeIndex[added.ID] = len(s.nodes)
	s.nodes = append(s.nodes, added)
}

// ApplyEdgeChanges merges a batch of edge deltas with the same discipline
// as [Store.ApplyNodeChanges]. Added or replacing edges must reference
// existing nodes.
func (s *Store) ApplyEdgeChanges(changes []EdgeChange) error {
	for i, c := range changes {
		if !c.Type.valid() {
			return errors.New(errors.ErrCodeInvalidInput, "edge change %d: unknown type %q", i, c.Type)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removedAt := map[int]bool{}
	for _, c := range changes {
		if c.Type == EdgeChangeAdd {
			if c.Item != nil && s.edgeFits(*c.Item) {
				if _, dup := s.edgeIndex[c.Item.ID]; !dup {
					s.edgeIndex[c.Item.ID] = len(s.edges)
					s.edges = append(s.edges, *c.Item)
				}
			}
			continue
		}
		i, ok := s.edgeIndex[c.ID]
		if !ok {
			continue
		}
		switch c.Type {
		case EdgeChangeSelect:
			if c.Selected != nil {
				s.edges[i].Selected = *c.Selected
			}
		case EdgeChangeReplace:
			if c.Item != nil && c.Item.ID == c.ID && s.edgeFits(*c.Item) {
				s.edges[i] = *c.Item
			}
		case EdgeChangeRemove:
			removedAt[i] = true
			delete(s.edgeIndex, c.ID)
		}
	}

	// Removals are swept by position so an edge re-added under the same id
	// in this batch survives.
	if len(removedAt) > 0 {
		kept := s.edges[:0]
		for i, e := range s.edges {
			if !removedAt[i] {
				kept = append(kept, e)
			}
		}
		s.edges = kept
		s.reindex()
	}
	return nil
}

func (s *Store) edgeFits(e graph.Edge) bool {
	_, srcOK := s.nodeIndex[e.Source]
	_, dstOK := s.nodeIndex[e.Target]
	if !srcOK || !dstOK {
		s.logger.Warn("ignoring edge with unknown endpoint", "id", e.ID, "source", e.Source, "target", e.Target)
		return false
	}
	return e.ID != ""
}

// Connect appends a user-drawn edge from source to target and returns it.
// If the pair is already connected the existing edge is returned and
// nothing changes. Cycles are permitted.
func (s *Store) Connect(source, target string) (graph.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range []string{source, target} {
		if _, ok := s.nodeIndex[id]; !ok {
			return graph.Edge{}, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
		}
	}
	for _, e := range s.edges {
		if e.Source == source && e.Target == target {
			return e, nil
		}
	}

	e := graph.NewEdge(graph.EdgeID(source, target), source, target, false)
	if _, dup := s.edgeIndex[e.ID]; dup {
		return graph.Edge{}, errors.New(errors.ErrCodeDuplicateID, "edge id %q already in use", e.ID)
	}
	s.edgeIndex[e.ID] = len(s.edges)
	s.edges = append(s.edges, e)
	return e, nil
}

// AddChild grafts a new branch onto parentID and appends exactly one node
// and one edge. An unknown parent is logged and reported as NODE_NOT_FOUND
// with no state change.
func (s *Store) AddChild(parentID string) (graph.Node, graph.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, edge, err := graft.AddChild(view{s}, parentID, s.next, s.graftOpts)
	if err != nil {
		s.logger.Warn("parent node not found for adding sub-branch", "id", parentID)
		return graph.Node{}, graph.Edge{}, err
	}
	s.nodeIndex[node.ID] = len(s.nodes)
	s.nodes = append(s.nodes, node)
	s.edgeIndex[edge.ID] = len(s.edges)
	s.edges = append(s.edges, edge)
	s.logger.Debug("added manual node", "id", node.ID, "parent", parentID)
	return node, edge, nil
}

func (s *Store) next() int {
	s.counter++
	return s.counter
}

// Relayout runs the layout engine over the current graph and overwrites
// every node position. It runs only on explicit request; on error nothing
// changes.
func (s *Store) Relayout(opts layout.Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	placed, err := layout.Layout(s.nodes, s.edges, opts)
	if err != nil {
		return err
	}
	s.nodes = placed
	return nil
}

// =============================================================================
// Queries
// =============================================================================

// Snapshot returns a copy of the current collections.
func (s *Store) Snapshot() graph.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return graph.Graph{Nodes: slices.Clone(s.nodes), Edges: slices.Clone(s.edges)}
}

// Node returns a copy of the node with the given id.
func (s *Store) Node(id string) (graph.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{s}.Node(id)
}

// Children returns the targets of edges leaving id, in edge order.
func (s *Store) Children(id string) []graph.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []graph.Node
	for _, e := range s.edges {
		if e.Source == id {
			if i, ok := s.nodeIndex[e.Target]; ok {
				out = append(out, s.nodes[i])
			}
		}
	}
	return out
}

// Len returns the number of nodes and edges.
func (s *Store) Len() (nodes, edges int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes), len(s.edges)
}

func (s *Store) reindex() {
	s.nodeIndex = make(map[string]int, len(s.nodes))
	for i, n := range s.nodes {
		s.nodeIndex[n.ID] = i
	}
	s.edgeIndex = make(map[string]int, len(s.edges))
	for i, e := range s.edges {
		s.edgeIndex[e.ID] = i
	}
}

// view reads store state without locking; callers hold s.mu.
type view struct{ s *Store }

var _ graft.View = view{}

func (v view) Node(id string) (graph.Node, bool) {
	i, ok := v.s.nodeIndex[id]
	if !ok {
		return graph.Node{}, false
	}
	return v.s.nodes[i], true
}

func (v view) HasEdge(id string) bool {
	_, ok := v.s.edgeIndex[id]
	return ok
}

func (v view) ChildCount(id string) int {
	n := 0
	for _, e := range v.s.edges {
		if e.Source == id {
			n++
		}
	}
	return n
}
