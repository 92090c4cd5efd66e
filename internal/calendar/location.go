package calendar

import (
	"fmt"
	"strings"
	"time"
)

// ResolveLocation turns a configured time zone name into a location.
// "" and "UTC" give UTC, "Local" gives the process time zone, anything else
// must be an IANA name.
func ResolveLocation(name string) (*time.Location, error) {
	switch strings.TrimSpace(name) {
	case "", "UTC", "utc":
		return time.UTC, nil
	case "Local", "local":
		return time.Local, nil
	}

	loc, err := time.LoadLocation(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	return loc, nil
}

// Locator picks the location used to bucket a given owner's posts
type Locator struct {
	fallback   *time.Location
	preferUser bool
}

// NewLocator creates a locator with a service-wide default. When preferUser is
// set, a valid per-owner zone overrides the default.
func NewLocator(fallback *time.Location, preferUser bool) *Locator {
	if fallback == nil {
		fallback = time.UTC
	}
	return &Locator{fallback: fallback, preferUser: preferUser}
}

// For returns the location for an owner whose stored zone is userZone.
// An invalid stored zone silently yields the default.
func (l *Locator) For(userZone string) *time.Location {
	if !l.preferUser || strings.TrimSpace(userZone) == "" {
		return l.fallback
	}
	loc, err := ResolveLocation(userZone)
	if err != nil {
		return l.fallback
	}
	return loc
}

// Default returns the service-wide location
func (l *Locator) Default() *time.Location {
	return l.fallback
}

// PrefersUser reports whether per-owner zones are consulted at all
func (l *Locator) PrefersUser() bool {
	return l.preferUser
}
