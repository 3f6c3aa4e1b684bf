package domain

import "time"

// Representative is the district office's single bio record shown on the
// about screen. There is exactly one row; SingletonID keys it.
const SingletonID = "representative"

type Representative struct {
	ID         string
	Name       string
	Biography  string
	Committees []string
	UpdatedAt  time.Time
}
