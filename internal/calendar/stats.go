package calendar

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/entity"
)

// Stats summarises one month of buckets
type Stats struct {
	Year        int        `json:"year"`
	Month       time.Month `json:"month"`
	TotalPosts  int        `json:"total_posts"`
	ActiveDays  int        `json:"active_days"`
	MaxPerDay   int        `json:"max_per_day"`
	SuccessRate int        `json:"success_rate"` // percent of posts not failed, 0 when empty
	Scheduled   int        `json:"scheduled"`
	Published   int        `json:"published"`
	Failed      int        `json:"failed"`
}

// MonthlyStats computes the figures for the given month from date buckets
func MonthlyStats(b Buckets, year int, month time.Month) Stats {
	stats := Stats{Year: year, Month: month}
	prefix := monthPrefix(year, month)

	for date, posts := range b {
		if !strings.HasPrefix(date, prefix) || len(posts) == 0 {
			continue
		}

		stats.ActiveDays++
		stats.TotalPosts += len(posts)
		if len(posts) > stats.MaxPerDay {
			stats.MaxPerDay = len(posts)
		}

		for i := range posts {
			switch posts[i].Status {
			case entity.StatusScheduled:
				stats.Scheduled++
			case entity.StatusPublished:
				stats.Published++
			case entity.StatusFailed:
				stats.Failed++
			}
		}
	}

	if stats.TotalPosts > 0 {
		ok := float64(stats.Scheduled + stats.Published)
		stats.SuccessRate = int(math.Round(ok / float64(stats.TotalPosts) * 100))
	}

	return stats
}

// Upcoming returns posts scheduled within [now, now+window], earliest first,
// capped at limit (no cap when limit <= 0). Equal timestamps keep input order.
func Upcoming(posts []entity.Post, now time.Time, window time.Duration, limit int) []entity.Post {
	end := now.Add(window)

	var out []entity.Post
	for i := range posts {
		at := posts[i].ScheduledFor
		if !posts[i].HasSchedule() || at.Before(now) || at.After(end) {
			continue
		}
		out = append(out, posts[i])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScheduledFor.Before(out[j].ScheduledFor)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
