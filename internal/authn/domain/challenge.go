package domain

import "time"

// Challenge represents one pending OTP verification attempt for a phone
// number. It is created when a code is dispatched and consumed exactly once
// on successful confirmation; a rejected code leaves it in place for retry
// until it expires.
type Challenge struct {
	ID        string
	Phone     string
	CodeHash  string // bcrypt hash of the 6-digit code; plain code is never stored
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the challenge's validity window has passed at now.
func (c *Challenge) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
