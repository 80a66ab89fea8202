// Package session provides interactive mind-map sessions.
//
// A [Session] owns one graph store and drives the upload flow: the file is
// sent to the analysis backend, the returned tree goes through the pipeline,
// and the positioned graph replaces the store's contents. Only the most
// recent upload may apply its result; a response that arrives after a newer
// upload started is discarded.
//
// # State
//
// Besides the graph, a session tracks:
//   - Loading: an upload is in flight
//   - Error: the user-facing message of the last failed upload
//   - Selected: the node whose read-only detail view is open
//
// # Registry
//
// The HTTP server hosts many independent sessions in a [Registry] keyed by
// uuid. Idle sessions expire after a TTL:
//
//	reg := session.NewRegistry(factory, session.DefaultTTL)
//	s := reg.Create()
//	err := s.Upload(ctx, "paper.pdf", f)
//	state := s.State()
package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindgraft/pkg/backend"
	mgerrors "github.com/matzehuels/mindgraft/pkg/errors"
	"github.com/matzehuels/mindgraft/pkg/graft"
	"github.com/matzehuels/mindgraft/pkg/graph"
	"github.com/matzehuels/mindgraft/pkg/layout"
	"github.com/matzehuels/mindgraft/pkg/observability"
	"github.com/matzehuels/mindgraft/pkg/pipeline"
	"github.com/matzehuels/mindgraft/pkg/store"
)

// ErrSuperseded is returned by [Session.Upload] when a newer upload started
// before this one finished. The session state belongs to the newer upload.
var ErrSuperseded = errors.New("upload superseded by a newer one")

// Default durations.
const (
	// DefaultTTL is how long an unused session is kept by a Registry.
	DefaultTTL = 24 * time.Hour
)

// Config holds the collaborators of a session.
type Config struct {
	Generator backend.Generator
	Runner    *pipeline.Runner
	Pipeline  pipeline.Options
	Graft     graft.Options
	Logger    *log.Logger
}

// State is a point-in-time copy of the session for rendering.
type State struct {
	ID         string      `json:"id"`
	Loading    bool        `json:"loading"`
	Error      string      `json:"error,omitempty"`
	FileName   string      `json:"file_name,omitempty"`
	Generation uint64      `json:"generation"`
	Selected   string      `json:"selected,omitempty"`
	Graph      graph.Graph `json:"graph"`
	// Bounds encloses every card, for fitting the view.
	Bounds layout.Rect `json:"bounds"`
}

// Session is one interactive mind map. It is safe for concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time

	store  *store.Store
	gen    backend.Generator
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger

	mu         sync.Mutex
	generation uint64
	loading    bool
	errMsg     string
	fileName   string
	selected   string
	lastUsed   time.Time
}

// New creates an empty session. A nil Runner gets an uncached one.
func New(id string, cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	runner := cfg.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		store:     store.New(logger.With("session", id), cfg.Graft),
		gen:       cfg.Generator,
		runner:    runner,
		opts:      cfg.Pipeline,
		logger:    logger,
		lastUsed:  now,
	}
}

// Store returns the session's graph store for direct mutation.
func (s *Session) Store() *store.Store {
	s.touch()
	return s.store
}

// Options returns the pipeline options used by uploads and relayouts.
func (s *Session) Options() pipeline.Options { return s.opts }

// Upload sends the document to the backend and replaces the graph with the
// positioned result.
//
// The graph is cleared as soon as the upload starts. On failure the error's
// user message is recorded and the graph stays empty. If another upload
// starts first, this one returns [ErrSuperseded] and changes nothing.
func (s *Session) Upload(ctx context.Context, filename string, r io.Reader) error {
	if s.gen == nil {
		return mgerrors.New(mgerrors.ErrCodeInvalidConfig, "no backend configured")
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.loading = true
	s.errMsg = ""
	s.fileName = filename
	s.selected = ""
	s.lastUsed = time.Now()
	s.store.Clear()
	s.mu.Unlock()

	hooks := observability.Pipeline()
	hooks.OnUploadStart(ctx, filename)
	start := time.Now()

	res, err := s.process(ctx, filename, r)
	hooks.OnUploadComplete(ctx, filename, time.Since(start), err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Debug("discarding stale upload", "file", filename, "generation", gen, "current", s.generation)
		return ErrSuperseded
	}
	s.loading = false
	if err == nil {
		err = s.store.ReplaceAll(res.Graph.Nodes, res.Graph.Edges)
	}
	if err != nil {
		s.errMsg = mgerrors.UserMessage(err)
		s.store.Clear()
		s.logger.Warn("upload failed", "file", filename, "error", err)
		return err
	}
	s.logger.Info("mind map loaded", "file", filename, "nodes", res.Stats.NodeCount)
	return nil
}

func (s *Session) process(ctx context.Context, filename string, r io.Reader) (*pipeline.Result, error) {
	t, err := s.gen.Generate(ctx, filename, r)
	if err != nil {
		return nil, err
	}
	return s.runner.Execute(ctx, t, s.opts)
}

// Load replaces the graph with an already positioned one, e.g. a saved file.
func (s *Session) Load(g graph.Graph) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.loading = false
	s.errMsg = ""
	s.selected = ""
	s.lastUsed = time.Now()
	return s.store.ReplaceAll(g.Nodes, g.Edges)
}

// Select opens the detail view for a node.
func (s *Session) Select(id string) error {
	if _, ok := s.store.Node(id); !ok {
		return mgerrors.New(mgerrors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	s.mu.Lock()
	s.selected = id
	s.lastUsed = time.Now()
	s.mu.Unlock()
	return nil
}

// Detail returns the payload of the selected node. It reports false when no
// node is selected or the selected node has since been removed.
func (s *Session) Detail() (graph.NodeData, bool) {
	s.mu.Lock()
	id := s.selected
	s.mu.Unlock()
	if id == "" {
		return graph.NodeData{}, false
	}
	n, ok := s.store.Node(id)
	if !ok {
		return graph.NodeData{}, false
	}
	return n.Data, true
}

// CloseDetail closes the detail view.
func (s *Session) CloseDetail() {
	s.mu.Lock()
	s.selected = ""
	s.mu.Unlock()
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.store.Snapshot()
	return State{
		ID:         s.ID,
		Loading:    s.loading,
		Error:      s.errMsg,
		FileName:   s.fileName,
		Generation: s.generation,
		Selected:   s.selected,
		Graph:      g,
		Bounds:     layout.Bounds(g.Nodes),
	}
}

// IdleSince returns when the session was last used.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}
