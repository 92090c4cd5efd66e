package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/calendar"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/entity"
)

var (
	// ErrMutationInFlight is returned when a create or delete is submitted while another one is outstanding
	ErrMutationInFlight = errors.New("another create or delete is still in progress")
	// ErrSuperseded is returned by a fetch whose result was dropped because a newer fetch started
	ErrSuperseded = errors.New("fetch superseded by a newer one")
)

// PostAPI is the subset of the backend the store needs
type PostAPI interface {
	ListPosts(ctx context.Context) ([]entity.Post, error)
	CreatePost(ctx context.Context, in CreatePostInput) (*entity.Post, error)
	DeletePost(ctx context.Context, id string) error
}

// PostStore keeps the caller's post list in sync with the backend.
// The last successfully fetched list is kept when a fetch fails. Only the
// newest fetch may update the list; an older one is cancelled and its result dropped.
type PostStore struct {
	api PostAPI

	mu       sync.Mutex
	posts    []entity.Post
	lastErr  error
	gen      uint64
	inFlight int
	cancel   context.CancelFunc
	mutating bool
}

// NewPostStore creates an empty store
func NewPostStore(api PostAPI) *PostStore {
	return &PostStore{api: api}
}

// Posts returns a copy of the current list
func (s *PostStore) Posts() []entity.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Loading reports whether a fetch is in flight
func (s *PostStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// Err returns the error of the last completed fetch, nil after a success
func (s *PostStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Refresh re-fetches the full list. A fetch already in flight is cancelled.
func (s *PostStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.inFlight++
	s.mu.Unlock()

	defer cancel()

	posts, err := s.api.ListPosts(fetchCtx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.inFlight--
	if gen != s.gen {
		return ErrSuperseded
	}
	s.cancel = nil

	if err != nil {
		s.lastErr = err
		return err
	}

	s.posts = posts
	s.lastErr = nil
	return nil
}

// Create submits a new post and then re-fetches the list. When the post was
// created but the re-fetch failed, both the post and the fetch error are returned.
func (s *PostStore) Create(ctx context.Context, in CreatePostInput) (*entity.Post, error) {
	if err := s.beginMutation(); err != nil {
		return nil, err
	}
	defer s.endMutation()

	post, err := s.api.CreatePost(ctx, in)
	if err != nil {
		return nil, err
	}

	return post, s.Refresh(ctx)
}

// Delete removes a post and then re-fetches the list
func (s *PostStore) Delete(ctx context.Context, id string) error {
	if err := s.beginMutation(); err != nil {
		return err
	}
	defer s.endMutation()

	if err := s.api.DeletePost(ctx, id); err != nil {
		return err
	}

	return s.Refresh(ctx)
}

// Buckets groups the current list by calendar date in loc
func (s *PostStore) Buckets(loc *time.Location) (calendar.Buckets, error) {
	return calendar.Bucket(s.Posts(), loc)
}

// MonthlyStats computes the statistics of a month over the current list
func (s *PostStore) MonthlyStats(loc *time.Location, year int, month time.Month) (calendar.Stats, error) {
	b, err := s.Buckets(loc)
	if err != nil {
		return calendar.Stats{}, err
	}
	return calendar.MonthlyStats(b, year, month), nil
}

func (s *PostStore) beginMutation() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mutating {
		return ErrMutationInFlight
	}
	s.mutating = true
	return nil
}

func (s *PostStore) endMutation() {
	s.mu.Lock()
	s.mutating = false
	s.mu.Unlock()
}
