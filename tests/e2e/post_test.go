package e2e

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/apperr"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/calendar"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/client"
)

// These tests run against a live server:
//
//	INSTACAL_BASE_URL=http://localhost:8080 INSTACAL_TOKEN=$(migrate session USER_ID) go test ./tests/e2e
func setup(t *testing.T) (*client.Client, string) {
	t.Helper()

	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}
	baseURL := os.Getenv("INSTACAL_BASE_URL")
	token := os.Getenv("INSTACAL_TOKEN")
	if baseURL == "" || token == "" {
		t.Skip("INSTACAL_BASE_URL and INSTACAL_TOKEN are required")
	}

	return client.New(baseURL, client.WithToken(token), client.WithTimeout(10*time.Second)), baseURL
}

// Helper function to create a test post that is removed after the test
func createTestPost(t *testing.T, c *client.Client, caption string, at time.Time) string {
	t.Helper()

	post, err := c.CreatePost(context.Background(), client.CreatePostInput{Caption: caption, ScheduledFor: at})
	require.NoError(t, err)
	require.NotEmpty(t, post.ID)

	t.Cleanup(func() { _ = c.DeletePost(context.Background(), post.ID) })
	return post.ID
}

func TestUnauthorized(t *testing.T) {
	_, baseURL := setup(t)

	resp, err := http.Get(baseURL + "/api/v1/posts")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPostLifecycle(t *testing.T) {
	c, _ := setup(t)
	ctx := context.Background()

	at := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	id := createTestPost(t, c, "e2e lifecycle #test", at)

	posts, err := c.ListPosts(ctx)
	require.NoError(t, err)

	var found bool
	for _, p := range posts {
		if p.ID == id {
			found = true
			assert.True(t, p.ScheduledFor.Equal(at))
			assert.Equal(t, "scheduled", string(p.Status))
		}
	}
	assert.True(t, found, "created post is listed")

	caption := "e2e lifecycle edited"
	updated, err := c.UpdatePost(ctx, id, client.UpdatePostInput{Caption: &caption})
	require.NoError(t, err)
	assert.Equal(t, caption, updated.Caption)

	require.NoError(t, c.DeletePost(ctx, id))

	err = c.DeletePost(ctx, id)
	assert.True(t, apperr.IsStore(err), "second delete fails with a store error")
}

func TestPostStoreAndCalendar(t *testing.T) {
	c, _ := setup(t)
	ctx := context.Background()

	at := time.Now().UTC().AddDate(0, 0, 3).Truncate(time.Second)
	createTestPost(t, c, "e2e calendar", at)

	store := client.NewPostStore(c)
	require.NoError(t, store.Refresh(ctx))

	buckets, err := store.Buckets(time.UTC)
	require.NoError(t, err)
	assert.True(t, buckets.HasPosts(calendar.DateKey(at, time.UTC)))

	local, err := store.MonthlyStats(time.UTC, at.Year(), at.Month())
	require.NoError(t, err)

	view, err := c.MonthlyCalendar(ctx, at.Year(), at.Month())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, view.Stats.TotalPosts, 1)
	if view.TimeZone == "UTC" {
		assert.Equal(t, local.TotalPosts, view.Stats.TotalPosts)
	}
}

func TestCreateValidationNeverReachesServer(t *testing.T) {
	c, _ := setup(t)

	_, err := c.CreatePost(context.Background(), client.CreatePostInput{ScheduledFor: time.Now()})
	assert.True(t, apperr.IsValidation(err))
}

func TestConnectAccount(t *testing.T) {
	c, _ := setup(t)
	ctx := context.Background()

	account, err := c.ConnectAccount(ctx, "e2e_studio")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.DisconnectAccount(context.Background(), account.ID) })

	assert.Equal(t, "e2e_studio", account.Username)
	assert.True(t, account.IsActive)

	accounts, err := c.ListAccounts(ctx)
	require.NoError(t, err)

	var found bool
	for _, a := range accounts {
		found = found || a.ID == account.ID
	}
	assert.True(t, found)
}
