package cache

import "strings"

// ScopedKeyer namespaces the keys of another Keyer, so mindgraft can share
// a redis database with other applications:
//
//	k := cache.NewScopedKeyer(nil, "mindgraft")
//	k.DocumentKey(sum) // "mindgraft:doc:<sum>"
//
// [RedisCache.Purge] with [ScopedKeyer.Prefix] removes exactly these keys.
type ScopedKeyer struct {
	Keyer
	prefix string
}

// NewScopedKeyer joins scope with ":" into a prefix. A nil inner keyer
// means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, scope ...string) *ScopedKeyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	prefix := ""
	if len(scope) > 0 {
		prefix = strings.Join(scope, ":") + ":"
	}
	return &ScopedKeyer{Keyer: inner, prefix: prefix}
}

func (k *ScopedKeyer) DocumentKey(fileHash string) string {
	return k.prefix + k.Keyer.DocumentKey(fileHash)
}

func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.Keyer.LayoutKey(treeHash, opts)
}

// Prefix returns the namespace, including the trailing separator.
func (k *ScopedKeyer) Prefix() string { return k.prefix }
