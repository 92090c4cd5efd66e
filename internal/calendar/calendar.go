// Package calendar groups posts by calendar date and derives the monthly
// figures shown next to the calendar. Everything here is pure: results depend
// only on the arguments and are recomputed on every call.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/apperr"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/entity"
)

// DateLayout is the layout of bucket keys
const DateLayout = "2006-01-02"

// Buckets maps a YYYY-MM-DD date to the posts scheduled on it
type Buckets map[string][]entity.Post

// DateKey returns the bucket key of t as seen in loc
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// Bucket groups posts by the calendar date of their scheduled timestamp in loc.
// Posts keep their relative input order inside a day. A post without a
// scheduled timestamp is rejected with *apperr.ValidationError.
func Bucket(posts []entity.Post, loc *time.Location) (Buckets, error) {
	buckets := make(Buckets)
	for i := range posts {
		if !posts[i].HasSchedule() {
			return nil, &apperr.ValidationError{
				Field:  "scheduled_for",
				Reason: fmt.Sprintf("is missing on post %q", posts[i].ID),
			}
		}
		key := DateKey(posts[i].ScheduledFor, loc)
		buckets[key] = append(buckets[key], posts[i])
	}
	return buckets, nil
}

// HasPosts reports whether any post is scheduled on date (YYYY-MM-DD)
func (b Buckets) HasPosts(date string) bool {
	return len(b[date]) > 0
}

// Posts returns the posts of a date, nil when there are none
func (b Buckets) Posts(date string) []entity.Post {
	return b[date]
}

// Dates returns the non-empty dates in ascending order
func (b Buckets) Dates() []string {
	dates := make([]string, 0, len(b))
	for date, posts := range b {
		if len(posts) > 0 {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates
}

// FilterMonth returns the buckets whose date falls in the given month
func FilterMonth(b Buckets, year int, month time.Month) Buckets {
	prefix := monthPrefix(year, month)
	out := make(Buckets)
	for date, posts := range b {
		if strings.HasPrefix(date, prefix) {
			out[date] = posts
		}
	}
	return out
}

func monthPrefix(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d-", year, int(month))
}
