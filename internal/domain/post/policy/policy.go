package policy

import (
	"context"
	"time"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/calendar"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/entity"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/service"
)

// AccountChecker reports whether a connected account is usable by an owner.
// Defined here (consumer) and satisfied by the account service.
type AccountChecker interface {
	IsActive(ctx context.Context, ownerID, accountID string) (bool, error)
}

// ProfileLookup returns the time zone an owner stored in their profile
type ProfileLookup interface {
	TimeZone(ctx context.Context, ownerID string) (string, error)
}

// UpcomingOptions bounds the upcoming posts listing
type UpcomingOptions struct {
	Window time.Duration
	Limit  int
}

// Policy orchestrates post use-cases across the service, accounts and calendar
type Policy struct {
	svc      *service.Service
	accounts AccountChecker
	profiles ProfileLookup
	locator  *calendar.Locator
	upcoming UpcomingOptions
	now      func() time.Time
}

// New creates a new post policy
func New(svc *service.Service, accounts AccountChecker, profiles ProfileLookup, locator *calendar.Locator, upcoming UpcomingOptions) *Policy {
	return &Policy{
		svc:      svc,
		accounts: accounts,
		profiles: profiles,
		locator:  locator,
		upcoming: upcoming,
		now:      time.Now,
	}
}

// CreatePost stores a new scheduled post. A referenced account must be active and owned by the caller.
// The input is validated before the account is looked up.
func (p *Policy) CreatePost(ctx context.Context, in service.CreateInput) (*entity.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := p.checkAccount(ctx, in.OwnerID, in.AccountID); err != nil {
		return nil, err
	}
	return p.svc.CreatePost(ctx, in)
}

// ListPosts returns all posts of an owner, earliest scheduled first
func (p *Policy) ListPosts(ctx context.Context, ownerID string) ([]entity.Post, error) {
	return p.svc.ListPosts(ctx, ownerID)
}

// GetPost returns one post of an owner
func (p *Policy) GetPost(ctx context.Context, ownerID, id string) (*entity.Post, error) {
	return p.svc.GetPost(ctx, ownerID, id)
}

// UpdatePost edits a scheduled post
func (p *Policy) UpdatePost(ctx context.Context, in service.UpdateInput) (*entity.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if !in.ClearAccount {
		if err := p.checkAccount(ctx, in.OwnerID, in.AccountID); err != nil {
			return nil, err
		}
	}
	return p.svc.UpdatePost(ctx, in)
}

// DeletePost removes a post of an owner
func (p *Policy) DeletePost(ctx context.Context, ownerID, id string) error {
	return p.svc.DeletePost(ctx, ownerID, id)
}

// MonthView is one calendar month of an owner's posts
type MonthView struct {
	Year     int              `json:"year"`
	Month    time.Month       `json:"month"`
	TimeZone string           `json:"timezone"`
	Days     calendar.Buckets `json:"days"`
	Stats    calendar.Stats   `json:"stats"`
}

// Calendar buckets the owner's posts by day in their location and summarises the month
func (p *Policy) Calendar(ctx context.Context, ownerID string, year int, month time.Month) (*MonthView, error) {
	posts, err := p.svc.ListPosts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	loc, err := p.Location(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	buckets, err := calendar.Bucket(posts, loc)
	if err != nil {
		return nil, err
	}

	return &MonthView{
		Year:     year,
		Month:    month,
		TimeZone: loc.String(),
		Days:     calendar.FilterMonth(buckets, year, month),
		Stats:    calendar.MonthlyStats(buckets, year, month),
	}, nil
}

// Upcoming returns the owner's next posts within the configured window
func (p *Policy) Upcoming(ctx context.Context, ownerID string) ([]entity.Post, error) {
	posts, err := p.svc.ListPosts(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return calendar.Upcoming(posts, p.now(), p.upcoming.Window, p.upcoming.Limit), nil
}

// Location resolves the location used to place an owner's posts on dates
func (p *Policy) Location(ctx context.Context, ownerID string) (*time.Location, error) {
	if p.profiles == nil || !p.locator.PrefersUser() {
		return p.locator.Default(), nil
	}

	zone, err := p.profiles.TimeZone(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return p.locator.For(zone), nil
}

func (p *Policy) checkAccount(ctx context.Context, ownerID string, accountID *string) error {
	if accountID == nil || *accountID == "" {
		return nil
	}

	active, err := p.accounts.IsActive(ctx, ownerID, *accountID)
	if err != nil {
		return err
	}
	if !active {
		return entity.ErrAccountNotFound
	}
	return nil
}
