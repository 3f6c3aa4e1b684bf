package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"constituent-connect/backend/internal/concerns/domain"
	"constituent-connect/backend/internal/concerns/repository"
)

// Sentinel errors for the concern service; the handler maps them to HTTP codes.
var (
	ErrInvalidConcern  = errors.New("invalid concern")
	ErrConcernNotFound = errors.New("concern not found")
	ErrInvalidStatus   = errors.New("unknown concern status")
)

// ConcernService records and tracks constituent concerns.
type ConcernService struct {
	concerns repository.Repository
	nowF     func() time.Time
}

// NewConcernService returns a ConcernService backed by concerns.
func NewConcernService(concerns repository.Repository) *ConcernService {
	return &ConcernService{
		concerns: concerns,
		nowF:     func() time.Time { return time.Now().UTC() },
	}
}

// Submit records a new concern for accountID. New concerns start open.
func (s *ConcernService) Submit(ctx context.Context, accountID, title, description string) (*domain.Concern, error) {
	c := &domain.Concern{
		ID:          uuid.New().String(),
		AccountID:   accountID,
		Title:       title,
		Description: description,
		Status:      domain.StatusOpen,
		CreatedAt:   s.nowF(),
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidConcern, err)
	}
	if err := s.concerns.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListMine returns the caller's own concerns.
func (s *ConcernService) ListMine(ctx context.Context, accountID string, limit, offset int) ([]*domain.Concern, error) {
	return s.concerns.ListByAccount(ctx, accountID, limit, offset)
}

// ListAll returns every concern. Admin only; the handler enforces that.
func (s *ConcernService) ListAll(ctx context.Context, limit, offset int) ([]*domain.Concern, error) {
	return s.concerns.List(ctx, limit, offset)
}

// SetStatus moves the concern to the given status.
func (s *ConcernService) SetStatus(ctx context.Context, id, status string) (*domain.Concern, error) {
	if !domain.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	existing, err := s.concerns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrConcernNotFound
	}
	if err := s.concerns.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	existing.Status = status
	return existing, nil
}
