package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/mindgraft/pkg/errors"
	"github.com/matzehuels/mindgraft/pkg/observability"
)

// Factory builds a session for a freshly allocated id.
type Factory func(id string) *Session

// Registry holds sessions in memory keyed by uuid.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	factory  Factory
	ttl      time.Duration
	now      func() time.Time
}

// NewRegistry creates a registry. A ttl <= 0 keeps sessions until deleted.
func NewRegistry(factory Factory, ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create allocates a new session with a random uuid.
func (r *Registry) Create() *Session {
	id := uuid.NewString()
	s := r.factory(id)
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	observability.Session().OnSessionCreated(context.Background(), id)
	return s
}

// Get returns the session with the given id. Expired sessions are removed
// and reported as not found.
func (r *Registry) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	if r.expired(s) {
		r.Delete(id)
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q expired", id)
	}
	return s, nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Cleanup removes expired sessions and returns how many were removed.
func (r *Registry) Cleanup() int {
	if r.ttl <= 0 {
		return 0
	}
	now := r.now()
	idle := make(map[string]time.Duration)
	r.mu.Lock()
	for id, s := range r.sessions {
		if r.expired(s) {
			idle[id] = now.Sub(s.IdleSince())
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	hooks := observability.Session()
	for id, d := range idle {
		hooks.OnSessionExpired(context.Background(), id, d)
	}
	return len(idle)
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (r *Registry) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Cleanup()
		}
	}
}

func (r *Registry) expired(s *Session) bool {
	return r.ttl > 0 && r.now().Sub(s.IdleSince()) > r.ttl
}
