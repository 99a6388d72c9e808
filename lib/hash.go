package lib

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

func HashBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashStrings hashes an ordered sequence of fields with a separator that
// cannot appear in URLs or rule codes, so the digest is stable per field set.
func HashStrings(parts ...string) string {
	return HashBytes([]byte(strings.Join(parts, "\x1f")))
}
