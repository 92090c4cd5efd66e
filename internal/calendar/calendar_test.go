package calendar

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/apperr"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/entity"
)

func post(id string, at time.Time, status entity.Status) entity.Post {
	return entity.Post{ID: id, Caption: "caption " + id, ScheduledFor: at, Status: status}
}

func ids(posts []entity.Post) []string {
	out := make([]string, len(posts))
	for i := range posts {
		out[i] = posts[i].ID
	}
	return out
}

func TestBucketDistinctDates(t *testing.T) {
	start := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	var posts []entity.Post
	for i := 0; i < 10; i++ {
		posts = append(posts, post(fmt.Sprintf("p%d", i), start.AddDate(0, 0, i), entity.StatusScheduled))
	}

	buckets, err := Bucket(posts, time.UTC)
	require.NoError(t, err)
	require.Len(t, buckets, len(posts))

	for _, p := range posts {
		key := p.ScheduledFor.Format(DateLayout)
		require.Len(t, buckets[key], 1, key)
		assert.Equal(t, p.ID, buckets[key][0].ID)
	}
}

func TestBucketScenario(t *testing.T) {
	posts := []entity.Post{
		post("post1", time.Date(2025, 5, 28, 9, 0, 0, 0, time.UTC), entity.StatusScheduled),
		post("post2", time.Date(2025, 5, 29, 18, 0, 0, 0, time.UTC), entity.StatusScheduled),
		post("post3", time.Date(2025, 5, 29, 20, 30, 0, 0, time.UTC), entity.StatusScheduled),
	}

	buckets, err := Bucket(posts, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-05-28", "2025-05-29"}, buckets.Dates())
	assert.Equal(t, []string{"post1"}, ids(buckets["2025-05-28"]))
	assert.Equal(t, []string{"post2", "post3"}, ids(buckets["2025-05-29"]))
	assert.True(t, buckets.HasPosts("2025-05-29"))
	assert.False(t, buckets.HasPosts("2025-05-30"))
	assert.Nil(t, buckets.Posts("2025-05-30"))
}

func TestBucketPreservesInputOrderWithinDay(t *testing.T) {
	// input order wins even when it is not chronological
	posts := []entity.Post{
		post("late", time.Date(2025, 6, 1, 21, 0, 0, 0, time.UTC), entity.StatusScheduled),
		post("early", time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC), entity.StatusScheduled),
	}

	buckets, err := Bucket(posts, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []string{"late", "early"}, ids(buckets["2025-06-01"]))
}

func TestBucketMissingSchedule(t *testing.T) {
	posts := []entity.Post{
		post("ok", time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC), entity.StatusScheduled),
		{ID: "broken", Caption: "no time", Status: entity.StatusScheduled},
	}

	buckets, err := Bucket(posts, time.UTC)
	assert.Nil(t, buckets)
	require.Error(t, err)

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "scheduled_for", verr.Field)
	assert.Contains(t, verr.Error(), "broken")
}

func TestBucketUsesLocation(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	// 23:30 UTC on May 28 is already May 29 in Warsaw (UTC+2 in summer)
	posts := []entity.Post{post("p", time.Date(2025, 5, 28, 23, 30, 0, 0, time.UTC), entity.StatusScheduled)}

	utc, err := Bucket(posts, time.UTC)
	require.NoError(t, err)
	assert.True(t, utc.HasPosts("2025-05-28"))

	local, err := Bucket(posts, warsaw)
	require.NoError(t, err)
	assert.True(t, local.HasPosts("2025-05-29"))
	assert.False(t, local.HasPosts("2025-05-28"))
}

func TestBucketAfterDeleteDropsPost(t *testing.T) {
	posts := []entity.Post{
		post("a", time.Date(2025, 5, 29, 9, 0, 0, 0, time.UTC), entity.StatusScheduled),
		post("b", time.Date(2025, 5, 29, 10, 0, 0, 0, time.UTC), entity.StatusScheduled),
	}
	remaining := posts[1:]

	buckets, err := Bucket(remaining, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(buckets["2025-05-29"]))
}

func TestFilterMonth(t *testing.T) {
	buckets := Buckets{
		"2025-04-30": {post("a", time.Date(2025, 4, 30, 9, 0, 0, 0, time.UTC), entity.StatusScheduled)},
		"2025-05-01": {post("b", time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC), entity.StatusScheduled)},
		"2025-05-31": {post("c", time.Date(2025, 5, 31, 9, 0, 0, 0, time.UTC), entity.StatusScheduled)},
		"2026-05-02": {post("d", time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC), entity.StatusScheduled)},
	}

	may := FilterMonth(buckets, 2025, time.May)
	assert.Equal(t, []string{"2025-05-01", "2025-05-31"}, may.Dates())
}
