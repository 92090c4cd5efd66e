package entity

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// MaxCaptionLength is Instagram's caption limit
const MaxCaptionLength = 2200

// Status represents the publishing status of a post. Only Scheduled is ever
// written by this service; the other values come from an external publisher.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
	StatusFailed    Status = "failed"
)

// ParseStatus parses a status name
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusScheduled, StatusPublished, StatusFailed:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Post is a captioned image scheduled for a future publish time
type Post struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"user_id"`
	AccountID        *string   `json:"instagram_account_id,omitempty"`
	Caption          string    `json:"caption"`
	ImageURL         string    `json:"image_url,omitempty"`
	ScheduledFor     time.Time `json:"scheduled_for"`
	Status           Status    `json:"status"`
	InstagramMediaID string    `json:"instagram_media_id,omitempty"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsEditable returns true if the post can still be changed
func (p *Post) IsEditable() bool {
	return p.Status == StatusScheduled
}

// HasSchedule returns true if the post carries a scheduled timestamp
func (p *Post) HasSchedule() bool {
	return !p.ScheduledFor.IsZero()
}

// Hashtags returns the words of the caption starting with '#', in order
func (p *Post) Hashtags() []string {
	var tags []string
	for _, word := range strings.Fields(p.Caption) {
		if len(word) > 1 && strings.HasPrefix(word, "#") {
			tags = append(tags, word)
		}
	}
	return tags
}

// Validate checks the fields required to persist a post. The first failing
// rule is returned as one of the sentinel errors above.
func (p *Post) Validate() error {
	if p.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if strings.TrimSpace(p.Caption) == "" {
		return ErrEmptyCaption
	}
	if utf8.RuneCountInString(p.Caption) > MaxCaptionLength {
		return ErrCaptionTooLong
	}
	if !p.HasSchedule() {
		return ErrMissingSchedule
	}
	if err := v.Validate(p.ImageURL, is.URL); err != nil || hasBadScheme(p.ImageURL) {
		return ErrInvalidImageURL
	}
	if p.AccountID != nil {
		if err := v.Validate(*p.AccountID, v.Required, is.UUID); err != nil {
			return ErrInvalidAccountID
		}
	}
	if _, err := ParseStatus(string(p.Status)); err != nil {
		return err
	}
	return nil
}

func hasBadScheme(raw string) bool {
	if raw == "" {
		return false
	}
	return !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://")
}

// IsValidationError reports whether err is one of the post field errors.
// A missing owner is an authentication failure and is not included.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrEmptyCaption, ErrCaptionTooLong, ErrMissingSchedule,
		ErrInvalidImageURL, ErrInvalidStatus, ErrInvalidAccountID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
