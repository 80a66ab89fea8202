package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
)

// hashKey builds "prefix:<sha256 of the JSON-encoded parts>". Layout keys
// hash the tree hash together with every option that moves a card, so two
// runs share an entry only when they would produce identical positions.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashReader drains r and returns its SHA-256 hex digest together with the
// bytes read, so an upload can be keyed and then forwarded unchanged.
func HashReader(r io.Reader) (string, []byte, error) {
	var buf bytes.Buffer
	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(&buf, h), r); err != nil {
		return "", nil, err
	}
	return hex.EncodeToString(h.Sum(nil)), buf.Bytes(), nil
}
