package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"constituent-connect/backend/internal/authn"
	"constituent-connect/backend/internal/authn/domain"
	"constituent-connect/backend/internal/authn/repository"
	"constituent-connect/backend/internal/authn/sms"
	"constituent-connect/backend/internal/devotp"
	"constituent-connect/backend/internal/security"
)

// Sentinel errors for the OTP service; callers map them to their own taxonomy.
var (
	ErrCodeRejected     = errors.New("verification code rejected")
	ErrSendFailed       = errors.New("could not send verification code")
	ErrStoreUnavailable = errors.New("challenge store unavailable")
)

// OTPService issues and confirms SMS one-time-code challenges. Codes are
// stored bcrypt-hashed; the plain code only leaves the process through the
// SMS provider (or the dev store when dev OTP mode is on).
type OTPService struct {
	store      repository.ChallengeStore
	identities repository.IdentityRepository
	sender     sms.Sender
	hasher     *security.CodeHasher
	devStore   devotp.Store
	ttl        time.Duration
	nowF       func() time.Time
}

// NewOTPService returns an OTPService. devStore may be nil when dev OTP mode
// is disabled.
func NewOTPService(
	store repository.ChallengeStore,
	identities repository.IdentityRepository,
	sender sms.Sender,
	hasher *security.CodeHasher,
	devStore devotp.Store,
	ttl time.Duration,
) *OTPService {
	return &OTPService{
		store:      store,
		identities: identities,
		sender:     sender,
		hasher:     hasher,
		devStore:   devStore,
		ttl:        ttl,
		nowF:       func() time.Time { return time.Now().UTC() },
	}
}

// SendChallenge generates a fresh code for phone, stores its hash, and
// dispatches it by SMS. The returned challenge carries only the hash.
func (s *OTPService) SendChallenge(ctx context.Context, phone string) (*domain.Challenge, error) {
	code, err := authn.GenerateOTP()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(code)
	if err != nil {
		return nil, err
	}
	now := s.nowF()
	ch := &domain.Challenge{
		ID:        uuid.New().String(),
		Phone:     phone,
		CodeHash:  hash,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.store.Create(ctx, ch); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	if err := s.sender.SendOTP(ctx, phone, code); err != nil {
		_ = s.store.Delete(ctx, ch.ID)
		return nil, errors.Join(ErrSendFailed, err)
	}
	if s.devStore != nil {
		s.devStore.Put(ctx, ch.ID, phone, code, ch.ExpiresAt)
	}
	return ch, nil
}

// Confirm checks code against the stored challenge. On success the challenge
// is consumed and the phone's account id is returned, minting and binding a
// new id for phones seen for the first time. Missing, expired, and
// wrong-code challenges all return ErrCodeRejected.
func (s *OTPService) Confirm(ctx context.Context, challengeID, code string) (string, error) {
	ch, err := s.store.GetByID(ctx, challengeID)
	if err != nil {
		return "", errors.Join(ErrStoreUnavailable, err)
	}
	if ch == nil || ch.Expired(s.nowF()) {
		return "", ErrCodeRejected
	}
	if err := s.hasher.Compare(ch.CodeHash, code); err != nil {
		return "", ErrCodeRejected
	}
	_ = s.store.Delete(ctx, challengeID)
	if s.devStore != nil {
		s.devStore.Delete(ctx, challengeID)
	}
	accountID, err := s.identities.GetAccountID(ctx, ch.Phone)
	if err != nil {
		return "", err
	}
	if accountID == "" {
		accountID = uuid.New().String()
		if err := s.identities.Bind(ctx, ch.Phone, accountID); err != nil {
			return "", err
		}
		// Bind keeps the existing binding on a concurrent first confirm;
		// re-read so both callers resolve to the same account.
		bound, err := s.identities.GetAccountID(ctx, ch.Phone)
		if err != nil {
			return "", err
		}
		if bound != "" {
			accountID = bound
		}
	}
	return accountID, nil
}
