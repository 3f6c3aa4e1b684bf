package domain

import (
	"encoding/json"
	"time"
)

// Event represents one telemetry event (login outcome, content access, admin action).
type Event struct {
	AccountID string          `json:"accountId,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	EventType string          `json:"eventType"`
	Source    string          `json:"source"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
