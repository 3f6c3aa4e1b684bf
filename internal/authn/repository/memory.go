package repository

import (
	"context"
	"sync"

	"constituent-connect/backend/internal/authn/domain"
)

// MemoryChallengeStore keeps challenges in process memory. It is used in
// tests and in single-node dev setups without Redis or Postgres.
type MemoryChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]*domain.Challenge
}

func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{challenges: make(map[string]*domain.Challenge)}
}

func (s *MemoryChallengeStore) Create(_ context.Context, c *domain.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.challenges[c.ID] = &cp
	return nil
}

func (s *MemoryChallengeStore) GetByID(_ context.Context, id string) (*domain.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryChallengeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, id)
	return nil
}

// MemoryIdentityRepository is an in-memory phone-to-account binding used in tests.
type MemoryIdentityRepository struct {
	mu       sync.Mutex
	bindings map[string]string
}

func NewMemoryIdentityRepository() *MemoryIdentityRepository {
	return &MemoryIdentityRepository{bindings: make(map[string]string)}
}

func (r *MemoryIdentityRepository) GetAccountID(_ context.Context, phone string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bindings[phone], nil
}

func (r *MemoryIdentityRepository) Bind(_ context.Context, phone, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bindings[phone]; !ok {
		r.bindings[phone] = accountID
	}
	return nil
}

func (r *MemoryIdentityRepository) GetPhone(_ context.Context, accountID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for phone, id := range r.bindings {
		if id == accountID {
			return phone, nil
		}
	}
	return "", nil
}
