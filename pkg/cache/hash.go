package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// artifactKeyPrefix namespaces encoded-image keys.
const artifactKeyPrefix = "artifact:"

// artifactKey digests the JSON form of opts. Field order is fixed by the
// struct, so a given kind, size and format always map to the same key.
func artifactKey(opts ArtifactKeyOpts) string {
	data, _ := json.Marshal(opts) // strings and ints only
	return artifactKeyPrefix + Hash(data)
}

// Hash returns the hex SHA-256 of data. FileCache names its entry files with
// it, which keeps scoped keys with ':' and '/' out of the path.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
