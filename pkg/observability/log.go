package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug records to a
// logger.
type LogHooks struct {
	Logger *log.Logger
}

var (
	_ PipelineHooks = LogHooks{}
	_ CacheHooks    = LogHooks{}
	_ HTTPHooks     = LogHooks{}
	_ SessionHooks  = LogHooks{}
)

func (h LogHooks) OnImportStart(_ context.Context, root string) {
	h.Logger.Debug("import started", "root", root)
}

func (h LogHooks) OnImportComplete(_ context.Context, root string, nodeCount int, d time.Duration, err error) {
	h.Logger.Debug("import finished", "root", root, "nodes", nodeCount, "took", d, "err", err)
}

func (h LogHooks) OnLayoutStart(_ context.Context, direction string, nodeCount int) {
	h.Logger.Debug("layout started", "direction", direction, "nodes", nodeCount)
}

func (h LogHooks) OnLayoutComplete(_ context.Context, direction string, d time.Duration, err error) {
	h.Logger.Debug("layout finished", "direction", direction, "took", d, "err", err)
}

func (h LogHooks) OnUploadStart(_ context.Context, filename string) {
	h.Logger.Debug("upload started", "file", filename)
}

func (h LogHooks) OnUploadComplete(_ context.Context, filename string, d time.Duration, err error) {
	h.Logger.Debug("upload finished", "file", filename, "took", d, "err", err)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d)
}

func (h LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

func (h LogHooks) OnSessionCreated(_ context.Context, id string) {
	h.Logger.Debug("session created", "session", id)
}

func (h LogHooks) OnSessionExpired(_ context.Context, id string, idle time.Duration) {
	h.Logger.Debug("session expired", "session", id, "idle", idle.Round(time.Second))
}
