package security

import (
	"golang.org/x/crypto/bcrypt"
)

// CodeHasher hashes and verifies one-time verification codes using bcrypt.
// Only the hash is stored with a challenge; callers must not log plain codes.
type CodeHasher struct {
	Cost int
}

// NewCodeHasher returns a CodeHasher with the given bcrypt cost (4–31). Cost 12
// is a reasonable default for short-lived OTP codes.
func NewCodeHasher(cost int) *CodeHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &CodeHasher{Cost: cost}
}

// Hash produces a bcrypt hash of code suitable for storage alongside a challenge.
func (h *CodeHasher) Hash(code string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(code), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare verifies code against the stored hash. Returns nil if they match;
// returns an error (including bcrypt.ErrMismatchedHashAndPassword) if they do not.
func (h *CodeHasher) Compare(hash, code string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
}
