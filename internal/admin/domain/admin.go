package domain

import "time"

// Admin is an entry in the district office's admin directory. Entries are
// maintained out-of-band (seed tool or operator); a phone match here is
// authoritative and bypasses OTP verification for login routing.
type Admin struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}
