package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/entity"
)

const postColumns = `id, user_id, instagram_account_id, caption, image_url, scheduled_for,
		       status, instagram_media_id, error_message, created_at, updated_at`

// PostPostgres implements PostRepository for PostgreSQL
type PostPostgres struct {
	pool *pgxpool.Pool
}

var _ PostRepository = (*PostPostgres)(nil)

// NewPostPostgres creates a new PostgreSQL post repository
func NewPostPostgres(pool *pgxpool.Pool) *PostPostgres {
	return &PostPostgres{pool: pool}
}

// ListByOwner retrieves every post of an owner, earliest first
func (r *PostPostgres) ListByOwner(ctx context.Context, ownerID string) ([]entity.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE user_id = $1
		ORDER BY scheduled_for ASC, created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	posts := make([]entity.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}

	return posts, nil
}

// GetByID retrieves a single post of an owner
func (r *PostPostgres) GetByID(ctx context.Context, ownerID, id string) (*entity.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE id = $1 AND user_id = $2
	`

	post, err := scanPost(r.pool.QueryRow(ctx, query, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning post: %w", err)
	}

	return post, nil
}

// Create inserts a new post
func (r *PostPostgres) Create(ctx context.Context, post *entity.Post) error {
	query := `
		INSERT INTO posts (id, user_id, instagram_account_id, caption, image_url, scheduled_for,
		                   status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.OwnerID,
		post.AccountID,
		post.Caption,
		nullable(post.ImageURL),
		post.ScheduledFor,
		post.Status,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}

	return nil
}

// Update updates the editable fields of a post
func (r *PostPostgres) Update(ctx context.Context, post *entity.Post) error {
	query := `
		UPDATE posts
		SET caption = $3, image_url = $4, scheduled_for = $5, instagram_account_id = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query,
		post.ID,
		post.OwnerID,
		post.Caption,
		nullable(post.ImageURL),
		post.ScheduledFor,
		post.AccountID,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrPostNotFound
	}

	return nil
}

// Delete removes a post owned by ownerID
func (r *PostPostgres) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM posts WHERE id = $1 AND user_id = $2", id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrPostNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (*entity.Post, error) {
	var post entity.Post
	var imageURL, instagramMediaID, errorMessage *string
	var scheduledFor time.Time

	err := row.Scan(
		&post.ID,
		&post.OwnerID,
		&post.AccountID,
		&post.Caption,
		&imageURL,
		&scheduledFor,
		&post.Status,
		&instagramMediaID,
		&errorMessage,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.ScheduledFor = scheduledFor
	if imageURL != nil {
		post.ImageURL = *imageURL
	}
	if instagramMediaID != nil {
		post.InstagramMediaID = *instagramMediaID
	}
	if errorMessage != nil {
		post.ErrorMessage = *errorMessage
	}

	return &post, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
