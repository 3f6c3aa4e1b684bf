package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashRefreshToken hashes a refresh token for storage. Sessions persist only
// this hex-encoded SHA-256 digest, so a leaked sessions table cannot be
// replayed against the refresh endpoint.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RefreshTokenHashEqual reports whether the presented token matches the stored
// digest. The comparison is constant time.
func RefreshTokenHashEqual(presented, storedHash string) bool {
	digest := HashRefreshToken(presented)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(storedHash)) == 1
}
