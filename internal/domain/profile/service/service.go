package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/profile/dao"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/profile/entity"
)

// Service handles profile reads and updates
type Service struct {
	profiles dao.ProfileRepository
	now      func() time.Time
}

// New creates a new profile service
func New(profiles dao.ProfileRepository) *Service {
	return &Service{profiles: profiles, now: time.Now}
}

// Get returns the owner's profile. An owner without a stored row gets an empty profile.
func (s *Service) Get(ctx context.Context, ownerID string) (*entity.Profile, error) {
	p, err := s.profiles.Get(ctx, ownerID)
	if errors.Is(err, entity.ErrProfileNotFound) {
		return &entity.Profile{ID: ownerID}, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// TimeZone returns the owner's stored time zone, or "" when none is set
func (s *Service) TimeZone(ctx context.Context, ownerID string) (string, error) {
	p, err := s.Get(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return p.TimeZone, nil
}

// UpdateInput holds the editable profile fields
type UpdateInput struct {
	OwnerID   string
	Username  string
	FullName  string
	AvatarURL string
	TimeZone  string
}

// Update validates and stores the owner's profile
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Profile, error) {
	p := &entity.Profile{
		ID:        in.OwnerID,
		Username:  strings.TrimSpace(in.Username),
		FullName:  strings.TrimSpace(in.FullName),
		AvatarURL: strings.TrimSpace(in.AvatarURL),
		TimeZone:  strings.TrimSpace(in.TimeZone),
		UpdatedAt: s.now().UTC(),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}
