package entity

import (
	"errors"
	"regexp"
	"strings"
	"time"

	v "github.com/go-ozzo/ozzo-validation/v4"
)

// Domain errors for connected accounts
var (
	ErrEmptyOwnerID    = errors.New("owner ID is required")
	ErrEmptyUsername   = errors.New("username is required")
	ErrUsernameTooLong = errors.New("username exceeds maximum length of 30 characters")
	ErrInvalidUsername = errors.New("username may only contain letters, digits, periods and underscores")
	ErrAccountNotFound = errors.New("instagram account not found")
)

// MaxUsernameLength is Instagram's username limit
const MaxUsernameLength = 30

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9._]+$`)

// Account is an Instagram account connected by a user
type Account struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"user_id"`
	InstagramUserID string     `json:"instagram_user_id"`
	Username        string     `json:"username"`
	AccessToken     string     `json:"-"`
	IsActive        bool       `json:"is_active"`
	ConnectedAt     time.Time  `json:"connected_at"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

// IsExpired reports whether the credential expired at or before now
func (a *Account) IsExpired(now time.Time) bool {
	return a.ExpiresAt != nil && !a.ExpiresAt.After(now)
}

// NormalizeUsername trims whitespace and a leading '@'
func NormalizeUsername(username string) string {
	return strings.TrimPrefix(strings.TrimSpace(username), "@")
}

// ValidateUsername checks an Instagram handle
func ValidateUsername(username string) error {
	if username == "" {
		return ErrEmptyUsername
	}
	if len(username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	if err := v.Validate(username, v.Match(handlePattern)); err != nil {
		return ErrInvalidUsername
	}
	return nil
}
