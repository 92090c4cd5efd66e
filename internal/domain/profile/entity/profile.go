package entity

import (
	"errors"
	"time"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/calendar"
)

// Domain errors for profiles
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidTimeZone = errors.New("time zone is not a known IANA name")
)

// Profile holds per-user settings
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	FullName  string    `json:"full_name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	TimeZone  string    `json:"timezone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the editable fields
func (p *Profile) Validate() error {
	return v.ValidateStruct(p,
		v.Field(&p.ID, v.Required, is.UUID),
		v.Field(&p.Username, v.Length(0, 30)),
		v.Field(&p.FullName, v.Length(0, 120)),
		v.Field(&p.AvatarURL, is.URL),
		v.Field(&p.TimeZone, v.By(validTimeZone)),
	)
}

func validTimeZone(value interface{}) error {
	name, _ := value.(string)
	if name == "" {
		return nil
	}
	if _, err := calendar.ResolveLocation(name); err != nil {
		return ErrInvalidTimeZone
	}
	return nil
}
