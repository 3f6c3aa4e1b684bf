package domain

import (
	"errors"
	"strings"
	"time"
)

// Bill is one legislative measure authored or co-authored by the representative.
// Dates are kept as the display strings published by the chamber (e.g.
// "2022-07-04" or "First Regular Session"), not parsed timestamps.
type Bill struct {
	ID                        string
	BillNumber                string
	Title                     string
	Significance              string
	DateFiled                 string
	PrincipalAuthors          []string
	DateRead                  string
	PrimaryReferral           string
	DateApprovedSecondReading string
	DateTransmitted           string
	Status                    string
	CoAuthored                bool
	Committees                []string
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// Validate validates the bill for persistence.
func (b *Bill) Validate() error {
	if strings.TrimSpace(b.BillNumber) == "" {
		return errors.New("bill number is required")
	}
	if strings.TrimSpace(b.Title) == "" {
		return errors.New("title is required")
	}
	return nil
}
