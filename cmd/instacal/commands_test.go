package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/apperr"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/client"
)

const postsJSON = `{"posts":[
	{"id":"p1","caption":"Launch day #launch #june","scheduled_for":"2025-06-03T09:00:00Z","status":"scheduled"},
	{"id":"p2","caption":"Recap","scheduled_for":"2025-06-03T18:00:00Z","status":"failed"},
	{"id":"p3","caption":"Next month","scheduled_for":"2025-07-01T08:00:00Z","status":"published"}
],"total":3}`

func newRunner(t *testing.T, mux *http.ServeMux) (*runner, *bytes.Buffer) {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := client.New(srv.URL, client.WithToken("token"), client.WithTimeout(2*time.Second))
	out := &bytes.Buffer{}
	return &runner{
		api:   c,
		store: client.NewPostStore(c),
		loc:   time.UTC,
		state: client.NewAppState(),
		out:   out,
		now:   func() time.Time { return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC) },
	}, out
}

func writeJSON(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

func TestCalendarCommand(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, postsJSON)
	})
	r, out := newRunner(t, mux)

	require.NoError(t, r.run(context.Background(), "calendar", []string{"--month", "2025-06"}))

	text := out.String()
	assert.Contains(t, text, "June 2025")
	assert.Contains(t, text, " 3·2")
	assert.Contains(t, text, "Posts this month: 2")
	assert.Contains(t, text, "Success rate:     50%")
	assert.Equal(t, client.TabCalendar, r.state.ActiveTab)
}

func TestCalendarCommandRejectsBadMonth(t *testing.T) {
	r, _ := newRunner(t, http.NewServeMux())

	err := r.run(context.Background(), "calendar", []string{"--month", "June"})
	assert.ErrorIs(t, err, errUsage)
}

func TestCreateCommand(t *testing.T) {
	var got map[string]interface{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /functions/v1/schedule-post", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, `{"success":true,"post":{"id":"p9","caption":"hi","scheduled_for":"2025-06-20T08:00:00Z","status":"scheduled"}}`)
	})
	mux.HandleFunc("GET /api/v1/posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"posts":[{"id":"p9","caption":"hi","scheduled_for":"2025-06-20T08:00:00Z","status":"scheduled"}],"total":1}`)
	})
	r, out := newRunner(t, mux)

	err := r.run(context.Background(), "create", []string{"--caption", "hi", "--at", "2025-06-20T10:00:00+02:00"})
	require.NoError(t, err)

	assert.Equal(t, "2025-06-20T08:00:00Z", got["scheduledFor"])
	assert.Contains(t, out.String(), "Scheduled p9")
	assert.Len(t, r.store.Posts(), 1)
}

func TestCreateCommandAtSlot(t *testing.T) {
	var got map[string]interface{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /functions/v1/schedule-post", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, `{"success":true,"post":{"id":"p9","caption":"Sunset #golden #hour","scheduled_for":"2025-06-20T16:00:00Z","status":"scheduled"}}`)
	})
	mux.HandleFunc("GET /api/v1/posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"posts":[],"total":0}`)
	})
	r, out := newRunner(t, mux)
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)
	r.loc = warsaw

	err = r.run(context.Background(), "create", []string{"--caption", "Sunset #golden #hour", "--day", "2025-06-20", "--slot", "18:00"})
	require.NoError(t, err)

	assert.Equal(t, "2025-06-20T16:00:00Z", got["scheduledFor"])
	assert.Contains(t, out.String(), "2 hashtags: #golden #hour")
}

func TestCreateCommandRejectsBadSlot(t *testing.T) {
	r, _ := newRunner(t, http.NewServeMux())

	err := r.run(context.Background(), "create", []string{"--caption", "x", "--day", "2025-06-20", "--slot", "6pm"})
	assert.ErrorIs(t, err, errUsage)

	err = r.run(context.Background(), "create", []string{"--caption", "x", "--day", "2025-06-20", "--at", "2025-06-20T10:00:00Z"})
	assert.ErrorIs(t, err, errUsage)
}

func TestCreateCommandWithoutCaption(t *testing.T) {
	r, _ := newRunner(t, http.NewServeMux())

	err := r.run(context.Background(), "create", []string{"--at", "2025-06-20T10:00:00Z"})

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "caption", ve.Field)
}

func TestListCommand(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, postsJSON)
	})
	r, out := newRunner(t, mux)

	require.NoError(t, r.run(context.Background(), "list", nil))

	text := out.String()
	assert.Contains(t, text, "Launch day")
	assert.Contains(t, text, "#2")
	assert.Contains(t, text, "p3")
	assert.Equal(t, client.TabPosts, r.state.ActiveTab)
}

func TestAccountsCommandMarksConnected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /functions/v1/instagram-auth", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"accounts":[{"id":"a1","username":"studio","is_active":true,"connected_at":"2025-06-01T00:00:00Z"}]}`)
	})
	r, out := newRunner(t, mux)

	require.NoError(t, r.run(context.Background(), "accounts", nil))

	assert.True(t, r.state.Connected)
	assert.Equal(t, client.TabSettings, r.state.ActiveTab)
	assert.Contains(t, out.String(), "@studio")
}

func TestDeleteCommandStoreError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/v1/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"error":"post not found"}`)
	})
	r, _ := newRunner(t, mux)

	err := r.run(context.Background(), "delete", []string{"missing"})
	assert.True(t, apperr.IsStore(err))
}

func TestUnknownCommand(t *testing.T) {
	r, _ := newRunner(t, http.NewServeMux())
	assert.ErrorIs(t, r.run(context.Background(), "publish", nil), errUsage)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "first…", truncate("first\nsecond", 10))
}
