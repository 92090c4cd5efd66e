package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/account/dao"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/account/entity"
)

// Service handles connected Instagram accounts. Connection runs in demo mode:
// no OAuth exchange happens, the external id and token are synthetic.
type Service struct {
	accounts dao.AccountRepository
	tokenTTL time.Duration
	now      func() time.Time
}

// New creates a new account service. A zero tokenTTL means demo tokens never expire.
func New(accounts dao.AccountRepository, tokenTTL time.Duration) *Service {
	return &Service{
		accounts: accounts,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// Connect creates a placeholder connected account for username
func (s *Service) Connect(ctx context.Context, ownerID, username string) (*entity.Account, error) {
	if ownerID == "" {
		return nil, entity.ErrEmptyOwnerID
	}

	username = entity.NormalizeUsername(username)
	if err := entity.ValidateUsername(username); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	stamp := now.UnixMilli()

	acc := &entity.Account{
		ID:              uuid.New().String(),
		OwnerID:         ownerID,
		InstagramUserID: fmt.Sprintf("demo_%d", stamp),
		Username:        username,
		AccessToken:     fmt.Sprintf("demo_token_%d", stamp),
		IsActive:        true,
		ConnectedAt:     now,
	}
	if s.tokenTTL > 0 {
		expires := now.Add(s.tokenTTL)
		acc.ExpiresAt = &expires
	}

	if err := s.accounts.Create(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// ListActive returns the owner's active accounts
func (s *Service) ListActive(ctx context.Context, ownerID string) ([]entity.Account, error) {
	if ownerID == "" {
		return nil, entity.ErrEmptyOwnerID
	}
	return s.accounts.ListActive(ctx, ownerID)
}

// IsActive reports whether id is one of the owner's active accounts
func (s *Service) IsActive(ctx context.Context, ownerID, id string) (bool, error) {
	return s.accounts.IsActive(ctx, ownerID, id)
}

// Disconnect deactivates an account. Posts that reference it are left untouched.
func (s *Service) Disconnect(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return entity.ErrEmptyOwnerID
	}
	return s.accounts.Deactivate(ctx, ownerID, id)
}

// SweepExpired deactivates accounts whose demo credential expired
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	return s.accounts.DeactivateExpired(ctx, s.now().UTC())
}
