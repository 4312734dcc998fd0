package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the content address of an assembled slide: the lowercase hex
// SHA-256 digest of its exact bytes.
func Hash(assembled string) string {
	sum := sha256.Sum256([]byte(assembled))
	return hex.EncodeToString(sum[:])
}
