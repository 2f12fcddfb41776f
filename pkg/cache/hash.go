package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a namespaced cache key of the form "prefix:digest", where
// the digest is the SHA-256 of the JSON-serialized parts. Key stability
// therefore depends on the parts serializing deterministically; the pipeline
// stages guarantee that by deriving record IDs from content.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex-encoded SHA-256 digest of data. Stage keys use the
// full digest rather than a truncated one so distinct inputs cannot share
// cached artifacts.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
