package domain

import (
	"errors"
	"strings"
	"time"
)

// Status of a public-works project.
const (
	StatusPlanned   = "planned"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
)

// Project is one public-works project in the district.
type Project struct {
	ID          string
	Title       string
	Description string
	Barangay    string
	Status      string
	StartedOn   string
	CompletedOn string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate validates the project for persistence.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("title is required")
	}
	switch p.Status {
	case StatusPlanned, StatusOngoing, StatusCompleted:
		return nil
	default:
		return errors.New("status must be planned, ongoing, or completed")
	}
}
