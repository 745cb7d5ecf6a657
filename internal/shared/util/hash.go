package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserKey returns a path-safe directory name for a user id. Guest ids
// contain a colon and must not reach the filesystem verbatim.
func HashUserKey(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])
}
