package domain

import (
	"errors"
	"strings"
	"time"
)

// Status of a submitted concern.
const (
	StatusOpen     = "open"
	StatusInReview = "in_review"
	StatusResolved = "resolved"
)

// Concern is one issue submitted by a constituent to the district office.
type Concern struct {
	ID          string
	AccountID   string
	Title       string
	Description string
	Status      string
	CreatedAt   time.Time
}

// Validate validates the concern for persistence.
func (c *Concern) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(c.Description) == "" {
		return errors.New("description is required")
	}
	return nil
}

// ValidStatus reports whether s is a recognized concern status.
func ValidStatus(s string) bool {
	return s == StatusOpen || s == StatusInReview || s == StatusResolved
}
