// Package observability lets the binary attach instrumentation to the
// libraries without the libraries importing a metrics or tracing stack.
//
// Four hook sets exist: [PipelineHooks] (import, layout and upload
// timings), [CacheHooks] (document and layout cache traffic), [HTTPHooks]
// (calls to the analysis backend) and [SessionHooks] (interactive session
// lifetime). Each defaults to a no-op. Libraries fetch the current set at
// the call site:
//
//	hooks := observability.Pipeline()
//	hooks.OnLayoutStart(ctx, "TB", len(nodes))
//
// The binary installs implementations once at startup. [LogHooks] writes
// every event to a charmbracelet logger and is what the CLI installs when
// run with --verbose:
//
//	observability.Install(observability.LogHooks{Logger: logger})
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives timings from the import/layout pipeline and from
// session uploads.
type PipelineHooks interface {
	OnImportStart(ctx context.Context, root string)
	OnImportComplete(ctx context.Context, root string, nodeCount int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, direction string, nodeCount int)
	OnLayoutComplete(ctx context.Context, direction string, duration time.Duration, err error)

	OnUploadStart(ctx context.Context, filename string)
	OnUploadComplete(ctx context.Context, filename string, duration time.Duration, err error)
}

// CacheHooks receives cache traffic. keyType is "doc" or "layout".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives outgoing requests to the analysis backend.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError covers transport failures; non-2xx answers go to OnResponse.
	OnError(ctx context.Context, method, host, path string, err error)
}

// SessionHooks receives the lifetime of server sessions.
type SessionHooks interface {
	OnSessionCreated(ctx context.Context, id string)
	OnSessionExpired(ctx context.Context, id string, idle time.Duration)
}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnImportStart(context.Context, string)                              {}
func (NoopPipelineHooks) OnImportComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                         {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)     {}
func (NoopPipelineHooks) OnUploadStart(context.Context, string)                              {}
func (NoopPipelineHooks) OnUploadComplete(context.Context, string, time.Duration, error)     {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

type NoopSessionHooks struct{}

func (NoopSessionHooks) OnSessionCreated(context.Context, string)                {}
func (NoopSessionHooks) OnSessionExpired(context.Context, string, time.Duration) {}

// hookSet is swapped as a whole so readers never see a partial update.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
	session  SessionHooks
}

func defaults() *hookSet {
	return &hookSet{NoopPipelineHooks{}, NoopCacheHooks{}, NoopHTTPHooks{}, NoopSessionHooks{}}
}

var current atomic.Pointer[hookSet]

func init() { current.Store(defaults()) }

// update applies fn to a copy of the current set and publishes it.
func update(fn func(*hookSet)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Install registers h for every hook interface it implements.
func Install(h any) {
	update(func(s *hookSet) {
		if p, ok := h.(PipelineHooks); ok {
			s.pipeline = p
		}
		if c, ok := h.(CacheHooks); ok {
			s.cache = c
		}
		if x, ok := h.(HTTPHooks); ok {
			s.http = x
		}
		if x, ok := h.(SessionHooks); ok {
			s.session = x
		}
	})
}

// SetPipelineHooks replaces the pipeline hooks. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *hookSet) { s.pipeline = h })
	}
}

// SetCacheHooks replaces the cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetHTTPHooks replaces the backend HTTP hooks. nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(s *hookSet) { s.http = h })
	}
}

// SetSessionHooks replaces the session hooks. nil is ignored.
func SetSessionHooks(h SessionHooks) {
	if h != nil {
		update(func(s *hookSet) { s.session = h })
	}
}

func Pipeline() PipelineHooks { return current.Load().pipeline }
func Cache() CacheHooks       { return current.Load().cache }
func HTTP() HTTPHooks         { return current.Load().http }
func Session() SessionHooks   { return current.Load().session }

// Reset restores the no-op hooks. Tests use it to isolate global state.
func Reset() { current.Store(defaults()) }
