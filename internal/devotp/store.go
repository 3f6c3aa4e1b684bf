// Package devotp provides an in-memory store for plain OTP codes by challenge
// id, used only when dev OTP mode is enabled (GET /dev/otp).
package devotp

import (
	"context"
	"sync"
	"time"
)

// Store holds plain OTP codes for dev-only retrieval. Not used in production.
type Store interface {
	// Put stores otp for challengeID until expiresAt.
	Put(ctx context.Context, challengeID, phone, otp string, expiresAt time.Time)
	// Get returns the otp and phone for challengeID if present and not expired.
	Get(ctx context.Context, challengeID string) (otp, phone string, ok bool)
	// Delete removes the entry for challengeID. Called once the challenge is consumed.
	Delete(ctx context.Context, challengeID string)
}

type entry struct {
	otp       string
	phone     string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[string]entry
	nowF func() time.Time
}

// NewMemoryStore returns a new in-memory dev OTP store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:    make(map[string]entry),
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Put(_ context.Context, challengeID, phone, otp string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[challengeID] = entry{otp: otp, phone: phone, expiresAt: expiresAt}
}

func (s *MemoryStore) Get(_ context.Context, challengeID string) (string, string, bool) {
	s.mu.RLock()
	e, ok := s.m[challengeID]
	s.mu.RUnlock()
	if !ok {
		return "", "", false
	}
	if !e.expiresAt.After(s.nowF()) {
		s.mu.Lock()
		delete(s.m, challengeID)
		s.mu.Unlock()
		return "", "", false
	}
	return e.otp, e.phone, true
}

func (s *MemoryStore) Delete(_ context.Context, challengeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, challengeID)
}
