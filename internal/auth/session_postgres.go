package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionPostgres verifies bearer tokens against the sessions table.
// Only the sha256 of a token is stored.
type SessionPostgres struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ Verifier = (*SessionPostgres)(nil)

// NewSessionPostgres creates a new PostgreSQL session verifier
func NewSessionPostgres(pool *pgxpool.Pool) *SessionPostgres {
	return &SessionPostgres{pool: pool, now: time.Now}
}

// Verify returns the owner of a live session
func (s *SessionPostgres) Verify(ctx context.Context, token string) (string, error) {
	query := `SELECT user_id FROM sessions WHERE token_hash = $1 AND expires_at > $2`

	var ownerID string
	err := s.pool.QueryRow(ctx, query, HashToken(token), s.now().UTC()).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("looking up session: %w", err)
	}

	return ownerID, nil
}

// Issue creates a session for ownerID and returns the plain token
func (s *SessionPostgres) Issue(ctx context.Context, ownerID string, ttl time.Duration) (string, error) {
	token, err := NewToken()
	if err != nil {
		return "", err
	}

	query := `INSERT INTO sessions (token_hash, user_id, expires_at) VALUES ($1, $2, $3)`
	if _, err := s.pool.Exec(ctx, query, HashToken(token), ownerID, s.now().UTC().Add(ttl)); err != nil {
		return "", fmt.Errorf("inserting session: %w", err)
	}

	return token, nil
}

// HashToken returns the hex sha256 of token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// NewToken returns a random 256-bit token
func NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
