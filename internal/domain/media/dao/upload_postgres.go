package dao

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/media/entity"
)

// UploadRepository defines the interface for upload records
type UploadRepository interface {
	Create(ctx context.Context, u *entity.Upload) error
}

// UploadPostgres implements UploadRepository for PostgreSQL
type UploadPostgres struct {
	pool *pgxpool.Pool
}

var _ UploadRepository = (*UploadPostgres)(nil)

// NewUploadPostgres creates a new PostgreSQL upload repository
func NewUploadPostgres(pool *pgxpool.Pool) *UploadPostgres {
	return &UploadPostgres{pool: pool}
}

// Create records an upload
func (r *UploadPostgres) Create(ctx context.Context, u *entity.Upload) error {
	query := `
		INSERT INTO uploads (id, user_id, filename, file_path, file_size, mime_type, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		u.ID,
		u.OwnerID,
		u.Filename,
		u.FilePath,
		u.FileSize,
		u.MimeType,
		u.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting upload: %w", err)
	}

	return nil
}
