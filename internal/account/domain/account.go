package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Role distinguishes administrative accounts from ordinary constituents.
// An empty Role is treated as an ordinary user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// EmergencyContact is an optional contact person on an account.
type EmergencyContact struct {
	Name     string
	Phone    string
	Relation string
}

// Account is a constituent profile record. It is created by the
// profile-completion flow after the owner's first successful phone
// verification and keyed by the account id minted at that point.
type Account struct {
	ID          string
	Phone       string
	Name        string
	DOB         string // YYYY-MM-DD
	Gender      string
	Address     string
	Barangay    string
	Email       string // optional
	Occupation  string
	Nationality string
	Emergency   EmergencyContact
	Role        Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var (
	dobPattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// validGenders matches the options offered by the profile form.
var validGenders = map[string]bool{"Male": true, "Female": true, "Other": true}

// Validate validates the account for persistence. All fields except email,
// occupation, nationality, and the emergency contact are required. Returns an
// error describing the first validation failure.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("name is required")
	}
	if !dobPattern.MatchString(a.DOB) {
		return errors.New("date of birth must be in YYYY-MM-DD format")
	}
	if !validGenders[a.Gender] {
		return errors.New("gender must be one of Male, Female, Other")
	}
	if len(strings.TrimSpace(a.Address)) < 3 {
		return errors.New("address must be at least 3 characters long")
	}
	if len(strings.TrimSpace(a.Barangay)) < 3 {
		return errors.New("barangay must be at least 3 characters long")
	}
	if a.Email != "" && !emailPattern.MatchString(a.Email) {
		return errors.New("invalid email format")
	}
	if a.Role != "" && a.Role != RoleAdmin && a.Role != RoleUser {
		return errors.New("role must be admin or user")
	}
	return nil
}

// IsAdmin reports whether the account carries the authoritative admin role.
func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}
