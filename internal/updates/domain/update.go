package domain

import (
	"errors"
	"strings"
	"time"
)

// Update is one news item published by the district office.
type Update struct {
	ID          string
	Title       string
	Description string
	PublishedOn string
	CreatedAt   time.Time
}

// Validate validates the update for persistence.
func (u *Update) Validate() error {
	if strings.TrimSpace(u.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(u.Description) == "" {
		return errors.New("description is required")
	}
	return nil
}
