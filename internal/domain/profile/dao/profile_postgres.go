package dao

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/profile/entity"
)

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	Get(ctx context.Context, id string) (*entity.Profile, error)
	Upsert(ctx context.Context, p *entity.Profile) error
}

// ProfilePostgres implements ProfileRepository for PostgreSQL
type ProfilePostgres struct {
	pool *pgxpool.Pool
}

var _ ProfileRepository = (*ProfilePostgres)(nil)

// NewProfilePostgres creates a new PostgreSQL profile repository
func NewProfilePostgres(pool *pgxpool.Pool) *ProfilePostgres {
	return &ProfilePostgres{pool: pool}
}

// Get retrieves a profile by user ID
func (r *ProfilePostgres) Get(ctx context.Context, id string) (*entity.Profile, error) {
	query := `
		SELECT id, COALESCE(username, ''), COALESCE(full_name, ''), COALESCE(avatar_url, ''),
		       COALESCE(timezone, ''), created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var p entity.Profile
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Username,
		&p.FullName,
		&p.AvatarURL,
		&p.TimeZone,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning profile: %w", err)
	}

	return &p, nil
}

// Upsert inserts a profile or updates the existing one
func (r *ProfilePostgres) Upsert(ctx context.Context, p *entity.Profile) error {
	query := `
		INSERT INTO profiles (id, username, full_name, avatar_url, timezone, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $6)
		ON CONFLICT (id) DO UPDATE SET
			username   = EXCLUDED.username,
			full_name  = EXCLUDED.full_name,
			avatar_url = EXCLUDED.avatar_url,
			timezone   = EXCLUDED.timezone,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		p.ID,
		p.Username,
		p.FullName,
		p.AvatarURL,
		p.TimeZone,
		p.UpdatedAt,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}

	return nil
}
