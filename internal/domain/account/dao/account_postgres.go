package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/account/entity"
)

// AccountRepository defines the interface for connected account data access
type AccountRepository interface {
	Create(ctx context.Context, acc *entity.Account) error
	ListActive(ctx context.Context, ownerID string) ([]entity.Account, error)
	IsActive(ctx context.Context, ownerID, id string) (bool, error)
	Deactivate(ctx context.Context, ownerID, id string) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// AccountPostgres implements AccountRepository for PostgreSQL
type AccountPostgres struct {
	pool *pgxpool.Pool
}

var _ AccountRepository = (*AccountPostgres)(nil)

// NewAccountPostgres creates a new PostgreSQL account repository
func NewAccountPostgres(pool *pgxpool.Pool) *AccountPostgres {
	return &AccountPostgres{pool: pool}
}

// Create inserts a connected account
func (r *AccountPostgres) Create(ctx context.Context, acc *entity.Account) error {
	query := `
		INSERT INTO instagram_accounts
			(id, user_id, instagram_user_id, username, access_token, is_active, connected_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		acc.ID,
		acc.OwnerID,
		acc.InstagramUserID,
		acc.Username,
		acc.AccessToken,
		acc.IsActive,
		acc.ConnectedAt,
		acc.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}

	return nil
}

// ListActive returns the owner's active accounts, oldest connection first
func (r *AccountPostgres) ListActive(ctx context.Context, ownerID string) ([]entity.Account, error) {
	query := `
		SELECT id, user_id, instagram_user_id, username, access_token, is_active, connected_at, expires_at
		FROM instagram_accounts
		WHERE user_id = $1 AND is_active
		ORDER BY connected_at ASC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]entity.Account, 0)
	for rows.Next() {
		var acc entity.Account
		err := rows.Scan(
			&acc.ID,
			&acc.OwnerID,
			&acc.InstagramUserID,
			&acc.Username,
			&acc.AccessToken,
			&acc.IsActive,
			&acc.ConnectedAt,
			&acc.ExpiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}

	return accounts, nil
}

// IsActive reports whether the owner has an active account with this id
func (r *AccountPostgres) IsActive(ctx context.Context, ownerID, id string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM instagram_accounts WHERE id = $1 AND user_id = $2 AND is_active)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking account: %w", err)
	}
	return exists, nil
}

// Deactivate marks one of the owner's accounts inactive. Posts keep their reference.
func (r *AccountPostgres) Deactivate(ctx context.Context, ownerID, id string) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE instagram_accounts SET is_active = FALSE WHERE id = $1 AND user_id = $2 AND is_active",
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("deactivating account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrAccountNotFound
	}
	return nil
}

// DeactivateExpired deactivates every active account whose credential expired
func (r *AccountPostgres) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		"UPDATE instagram_accounts SET is_active = FALSE WHERE is_active AND expires_at IS NOT NULL AND expires_at <= $1",
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("deactivating expired accounts: %w", err)
	}
	return tag.RowsAffected(), nil
}
