// Package cache provides byte caches and deterministic cache keys for
// documents produced by the backend and for computed layouts.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: shared cache for server deployments
//
// # Keys
//
// A [Keyer] builds keys from content hashes, so identical input always maps
// to the same entry:
//
//	k := cache.NewDefaultKeyer()
//	docKey := k.DocumentKey(cache.Hash(pdfBytes))
//	layoutKey := k.LayoutKey(cache.Hash(treeJSON), cache.LayoutKeyOpts{Direction: "TB"})
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional time-to-live.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// DocumentKey addresses the tree the backend produced for a file.
	DocumentKey(fileHash string) string

	// LayoutKey addresses a positioned graph for a tree and layout options.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts holds every option that changes layout output.
type LayoutKeyOpts struct {
	Direction      string  `json:"direction"`
	NodeSeparation float64 `json:"node_sep"`
	RankSeparation float64 `json:"rank_sep"`
	Sweeps         int     `json:"sweeps"`
	NodeWidth      float64 `json:"node_width"`
	NodeHeight     float64 `json:"node_height"`
}

// DefaultKeyer produces keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DocumentKey returns "doc:<fileHash>".
func (DefaultKeyer) DocumentKey(fileHash string) string {
	return "doc:" + fileHash
}

// LayoutKey hashes the tree hash together with the options.
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}
