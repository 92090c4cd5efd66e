package dao

import (
	"context"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/entity"
)

// PostRepository defines the interface for post data access.
// Every operation is scoped to the owning user.
type PostRepository interface {
	// ListByOwner returns all posts of the owner ordered by scheduled time ascending
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Post, error)

	// GetByID returns the owner's post or entity.ErrPostNotFound
	GetByID(ctx context.Context, ownerID, id string) (*entity.Post, error)

	// Create inserts a new post
	Create(ctx context.Context, post *entity.Post) error

	// Update persists caption, image, account and schedule changes
	Update(ctx context.Context, post *entity.Post) error

	// Delete removes the row matching both id and owner, or returns entity.ErrPostNotFound
	Delete(ctx context.Context, ownerID, id string) error
}
