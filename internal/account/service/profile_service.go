package service

import (
	"context"
	"errors"
	"time"

	"constituent-connect/backend/internal/account/domain"
	"constituent-connect/backend/internal/account/repository"
)

// Sentinel errors for the profile service; the handler maps them to HTTP codes.
var (
	ErrInvalidProfile  = errors.New("invalid profile")
	ErrProfileExists   = errors.New("profile already completed for this account")
	ErrProfileNotFound = errors.New("profile not found")
	ErrNotOwner        = errors.New("only the owner or an admin may edit a profile")
	ErrWriteFailed     = errors.New("profile write failed")
)

// ProfileInput carries the editable profile fields. Phone and role are not
// editable through the profile flow.
type ProfileInput struct {
	Name        string
	DOB         string
	Gender      string
	Address     string
	Barangay    string
	Email       string
	Occupation  string
	Nationality string
	Emergency   domain.EmergencyContact
}

// ProfileService completes and edits constituent profiles. Completion is
// all-or-nothing: the record is validated in full before anything is written.
type ProfileService struct {
	accounts repository.Repository
	nowF     func() time.Time
}

// NewProfileService returns a ProfileService backed by accounts.
func NewProfileService(accounts repository.Repository) *ProfileService {
	return &ProfileService{
		accounts: accounts,
		nowF:     func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the profile for accountID, or ErrProfileNotFound.
func (s *ProfileService) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrProfileNotFound
	}
	return acct, nil
}

// Complete creates the profile record for a freshly verified account. phone
// is the verified number the account was minted for; it is recorded on the
// profile and never taken from user input.
func (s *ProfileService) Complete(ctx context.Context, accountID, phone string, in ProfileInput) (*domain.Account, error) {
	existing, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrProfileExists
	}
	now := s.nowF()
	acct := &domain.Account{
		ID:          accountID,
		Phone:       phone,
		Name:        in.Name,
		DOB:         in.DOB,
		Gender:      in.Gender,
		Address:     in.Address,
		Barangay:    in.Barangay,
		Email:       in.Email,
		Occupation:  in.Occupation,
		Nationality: in.Nationality,
		Emergency:   in.Emergency,
		Role:        domain.RoleUser,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := acct.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidProfile, err)
	}
	if err := s.accounts.Create(ctx, acct); err != nil {
		return nil, errors.Join(ErrWriteFailed, err)
	}
	return acct, nil
}

// Update edits the profile identified by accountID. Only the owner or an
// admin caller may edit; phone and role are preserved from the stored record.
func (s *ProfileService) Update(ctx context.Context, callerID string, callerRole domain.Role, accountID string, in ProfileInput) (*domain.Account, error) {
	if callerID != accountID && callerRole != domain.RoleAdmin {
		return nil, ErrNotOwner
	}
	existing, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrProfileNotFound
	}
	updated := *existing
	updated.Name = in.Name
	updated.DOB = in.DOB
	updated.Gender = in.Gender
	updated.Address = in.Address
	updated.Barangay = in.Barangay
	updated.Email = in.Email
	updated.Occupation = in.Occupation
	updated.Nationality = in.Nationality
	updated.Emergency = in.Emergency
	updated.UpdatedAt = s.nowF()
	if err := updated.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidProfile, err)
	}
	if err := s.accounts.Update(ctx, &updated); err != nil {
		return nil, errors.Join(ErrWriteFailed, err)
	}
	return &updated, nil
}
