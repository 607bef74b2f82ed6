package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 of data (64 characters). Preview keys are
// derived from the hash of the artifact bytes they shrink.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON returns the hex SHA-256 of v's JSON encoding. Struct fields
// encode in declaration order, so equal configs give equal hashes.
func HashJSON(v any) (string, error) {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(v); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// hashKey builds "kind:" followed by the hash of parts.
func hashKey(kind string, parts ...any) string {
	sum, err := HashJSON(parts)
	if err != nil {
		// parts are strings, numbers and flat structs.
		panic("cache: unhashable key parts: " + err.Error())
	}
	return kind + ":" + sum
}
