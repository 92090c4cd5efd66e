package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/dao"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/entity"
)

// Service handles business logic for posts
type Service struct {
	posts dao.PostRepository
	now   func() time.Time
}

// New creates a new post service
func New(posts dao.PostRepository) *Service {
	return &Service{
		posts: posts,
		now:   time.Now,
	}
}

// CreateInput represents input for creating a post
type CreateInput struct {
	OwnerID      string
	AccountID    *string
	Caption      string
	ImageURL     string
	ScheduledFor time.Time
}

// Validate applies the post rules to the input without touching storage
func (in CreateInput) Validate() error {
	post := entity.Post{
		OwnerID:      in.OwnerID,
		AccountID:    in.AccountID,
		Caption:      in.Caption,
		ImageURL:     in.ImageURL,
		ScheduledFor: in.ScheduledFor,
		Status:       entity.StatusScheduled,
	}
	return post.Validate()
}

// CreatePost validates and stores a new post. Status always starts as scheduled.
func (s *Service) CreatePost(ctx context.Context, in CreateInput) (*entity.Post, error) {
	now := s.now().UTC()

	post := &entity.Post{
		ID:           uuid.New().String(),
		OwnerID:      in.OwnerID,
		AccountID:    in.AccountID,
		Caption:      in.Caption,
		ImageURL:     in.ImageURL,
		ScheduledFor: in.ScheduledFor,
		Status:       entity.StatusScheduled,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// ListPosts returns all posts of an owner, earliest scheduled first
func (s *Service) ListPosts(ctx context.Context, ownerID string) ([]entity.Post, error) {
	if ownerID == "" {
		return nil, entity.ErrEmptyOwnerID
	}
	return s.posts.ListByOwner(ctx, ownerID)
}

// GetPost retrieves one post of an owner
func (s *Service) GetPost(ctx context.Context, ownerID, id string) (*entity.Post, error) {
	if ownerID == "" {
		return nil, entity.ErrEmptyOwnerID
	}
	return s.posts.GetByID(ctx, ownerID, id)
}

// UpdateInput represents input for editing a post. Nil fields stay unchanged.
type UpdateInput struct {
	OwnerID      string
	ID           string
	Caption      *string
	ImageURL     *string
	ScheduledFor *time.Time
	AccountID    *string
	ClearAccount bool
}

// Validate checks the fields being changed without touching storage.
// The merged post is validated again before it is saved.
func (in UpdateInput) Validate() error {
	if in.OwnerID == "" {
		return entity.ErrEmptyOwnerID
	}
	if err := v.Validate(in.ID, v.Required, is.UUID); err != nil {
		return entity.ErrPostNotFound
	}
	if in.Caption != nil {
		if strings.TrimSpace(*in.Caption) == "" {
			return entity.ErrEmptyCaption
		}
		if utf8.RuneCountInString(*in.Caption) > entity.MaxCaptionLength {
			return entity.ErrCaptionTooLong
		}
	}
	if in.ScheduledFor != nil && in.ScheduledFor.IsZero() {
		return entity.ErrMissingSchedule
	}
	if in.AccountID != nil && !in.ClearAccount {
		if err := v.Validate(*in.AccountID, v.Required, is.UUID); err != nil {
			return entity.ErrInvalidAccountID
		}
	}
	return nil
}

// UpdatePost edits a scheduled post
func (s *Service) UpdatePost(ctx context.Context, in UpdateInput) (*entity.Post, error) {
	post, err := s.GetPost(ctx, in.OwnerID, in.ID)
	if err != nil {
		return nil, err
	}

	if !post.IsEditable() {
		return nil, entity.ErrPostNotEditable
	}

	if in.Caption != nil {
		post.Caption = *in.Caption
	}
	if in.ImageURL != nil {
		post.ImageURL = *in.ImageURL
	}
	if in.ScheduledFor != nil {
		post.ScheduledFor = *in.ScheduledFor
	}
	if in.ClearAccount {
		post.AccountID = nil
	} else if in.AccountID != nil {
		post.AccountID = in.AccountID
	}

	post.UpdatedAt = s.now().UTC()

	// Validate before saving
	if err := post.Validate(); err != nil {
		return nil, err
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// DeletePost removes a post owned by ownerID
func (s *Service) DeletePost(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return entity.ErrEmptyOwnerID
	}
	return s.posts.Delete(ctx, ownerID, id)
}
