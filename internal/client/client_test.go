package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/apperr"
)

func newServer(t *testing.T, h http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func writeJSON(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

func TestMissingTokenIsAuthError(t *testing.T) {
	srv, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"posts":[]}`)
	})

	_, err := New(srv.URL).ListPosts(context.Background())

	var authErr *apperr.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Zero(t, hits.Load())
}

func TestCreatePostValidation(t *testing.T) {
	srv, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})
	c := New(srv.URL, WithToken("t"))

	tests := []struct {
		name  string
		in    CreatePostInput
		field string
	}{
		{"missing caption", CreatePostInput{ScheduledFor: time.Now()}, "caption"},
		{"blank caption", CreatePostInput{Caption: "   ", ScheduledFor: time.Now()}, "caption"},
		{"missing time", CreatePostInput{Caption: "hello"}, "scheduledFor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.CreatePost(context.Background(), tt.in)

			var verr *apperr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	assert.Zero(t, hits.Load())
}

func TestCreatePost(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/functions/v1/schedule-post", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello #go", body["caption"])
		assert.Equal(t, "2025-06-01T10:00:00Z", body["scheduledFor"])
		assert.Equal(t, "acc-1", body["instagramAccountId"])

		writeJSON(w, http.StatusOK, `{"success":true,"post":{"id":"p1","caption":"hello #go","scheduled_for":"2025-06-01T10:00:00Z","status":"scheduled"}}`)
	})

	post, err := New(srv.URL, WithToken("secret")).CreatePost(context.Background(), CreatePostInput{
		Caption:      "hello #go",
		ScheduledFor: at,
		AccountID:    "acc-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", post.ID)
	assert.Equal(t, "scheduled", string(post.Status))
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		body   string
		call   func(c *Client) error
		assert func(t *testing.T, err error)
	}{
		{
			name: "function failure is remote error",
			code: http.StatusInternalServerError,
			body: `{"error":"Failed to create post"}`,
			call: func(c *Client) error {
				_, err := c.CreatePost(context.Background(), CreatePostInput{Caption: "x", ScheduledFor: time.Now()})
				return err
			},
			assert: func(t *testing.T, err error) {
				var remote *apperr.RemoteError
				require.ErrorAs(t, err, &remote)
				assert.Equal(t, http.StatusInternalServerError, remote.Status)
				assert.Equal(t, "Failed to create post", remote.Message)
			},
		},
		{
			name: "unauthorized function call",
			code: http.StatusUnauthorized,
			body: `{"error":"Unauthorized"}`,
			call: func(c *Client) error {
				_, err := c.ListAccounts(context.Background())
				return err
			},
			assert: func(t *testing.T, err error) {
				assert.True(t, apperr.IsAuth(err))
			},
		},
		{
			name: "data api failure is store error",
			code: http.StatusNotFound,
			body: `{"error":"post not found"}`,
			call: func(c *Client) error {
				return c.DeletePost(context.Background(), "p1")
			},
			assert: func(t *testing.T, err error) {
				var store *apperr.StoreError
				require.ErrorAs(t, err, &store)
				assert.Equal(t, http.StatusNotFound, store.Status)
				assert.Equal(t, "delete post", store.Op)
				assert.Equal(t, "post not found", store.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.code, tt.body)
			})
			tt.assert(t, tt.call(New(srv.URL, WithToken("t"))))
		})
	}
}

func TestPlainErrorBodyUsesStatusText(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := New(srv.URL, WithToken("t")).ListPosts(context.Background())

	var store *apperr.StoreError
	require.ErrorAs(t, err, &store)
	assert.Equal(t, http.StatusBadGateway, store.Status)
	assert.Equal(t, "Bad Gateway", store.Message)
}

func TestTimeoutIsRemoteError(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	_, err := New(srv.URL, WithToken("t"), WithTimeout(50*time.Millisecond)).ListPosts(context.Background())

	var remote *apperr.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Zero(t, remote.Status)
	assert.Equal(t, "request timed out", remote.Message)
}

func TestTransportFailureIsRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := New(url, WithToken("t")).DeletePost(context.Background(), "p1")
	assert.True(t, apperr.IsRemote(err))
}

func TestDeletePostRequest(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/posts/p1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, New(srv.URL, WithToken("t")).DeletePost(context.Background(), "p1"))
}

func TestConnectAccount(t *testing.T) {
	srv, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "brand", body["username"])
		writeJSON(w, http.StatusOK, `{"success":true,"account":{"id":"a1","username":"brand","is_active":true}}`)
	})
	c := New(srv.URL, WithToken("t"))

	acc, err := c.ConnectAccount(context.Background(), "@brand")
	require.NoError(t, err)
	assert.Equal(t, "a1", acc.ID)

	_, err = c.ConnectAccount(context.Background(), " ")
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestMonthlyCalendar(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/calendar", r.URL.Path)
		assert.Equal(t, "2025", r.URL.Query().Get("year"))
		assert.Equal(t, "6", r.URL.Query().Get("month"))
		writeJSON(w, http.StatusOK, `{"year":2025,"month":6,"timezone":"UTC","days":{"2025-06-01":[{"id":"a"}]},"stats":{"total_posts":1,"success_rate":100}}`)
	})

	view, err := New(srv.URL, WithToken("t")).MonthlyCalendar(context.Background(), 2025, time.June)
	require.NoError(t, err)
	assert.True(t, view.Days.HasPosts("2025-06-01"))
	assert.Equal(t, 100, view.Stats.SuccessRate)
}

func TestWithHTTPClient(t *testing.T) {
	srv, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "instacal", r.Header.Get("User-Agent"))
		writeJSON(w, http.StatusOK, `{"posts":[]}`)
	})

	posts, err := New(srv.URL, WithToken("t"), WithHTTPClient(srv.Client())).ListPosts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, int32(1), hits.Load())
}

func TestContextCancelIsRemoteError(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL, WithToken("t")).ListPosts(ctx)
	assert.True(t, apperr.IsRemote(err))
	assert.True(t, errors.Is(err, context.Canceled))
}
