package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	accountentity "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/account/entity"
	postentity "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/entity"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/service"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/httpx/response"
)

// PostCreator creates scheduled posts
type PostCreator interface {
	CreatePost(ctx context.Context, in service.CreateInput) (*postentity.Post, error)
}

// AccountConnector connects and lists Instagram accounts
type AccountConnector interface {
	Connect(ctx context.Context, ownerID, username string) (*accountentity.Account, error)
	ListActive(ctx context.Context, ownerID string) ([]accountentity.Account, error)
}

// FunctionsHandler serves the backend functions called by clients:
// schedule-post and instagram-auth
type FunctionsHandler struct {
	posts    PostCreator
	accounts AccountConnector
	events   EventRecorder
}

// NewFunctionsHandler creates a new functions handler
func NewFunctionsHandler(posts PostCreator, accounts AccountConnector, events EventRecorder) *FunctionsHandler {
	return &FunctionsHandler{
		posts:    posts,
		accounts: accounts,
		events:   recorderOrNoop(events),
	}
}

// RegisterRoutes registers function routes
func (h *FunctionsHandler) RegisterRoutes(r chi.Router) {
	r.Post("/schedule-post", h.SchedulePost())
	r.Get("/instagram-auth", h.ListAccounts())
	r.Post("/instagram-auth", h.ConnectAccount())
}

// SchedulePostRequest is the body of schedule-post
type SchedulePostRequest struct {
	Caption            string  `json:"caption"`
	ScheduledFor       string  `json:"scheduledFor"` // RFC3339
	InstagramAccountID *string `json:"instagramAccountId,omitempty"`
	ImageURL           string  `json:"imageUrl,omitempty"`
}

// SchedulePost handles POST /functions/v1/schedule-post
func (h *FunctionsHandler) SchedulePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireOwner(w, r)
		if !ok {
			return
		}

		var req SchedulePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		var scheduledFor time.Time
		if strings.TrimSpace(req.ScheduledFor) != "" {
			t, err := time.Parse(time.RFC3339, req.ScheduledFor)
			if err != nil {
				response.BadRequest(w, "invalid scheduledFor format, use RFC3339")
				return
			}
			scheduledFor = t.UTC()
		}

		accountID := req.InstagramAccountID
		if accountID != nil && *accountID == "" {
			accountID = nil
		}

		post, err := h.posts.CreatePost(r.Context(), service.CreateInput{
			OwnerID:      ownerID,
			AccountID:    accountID,
			Caption:      req.Caption,
			ImageURL:     req.ImageURL,
			ScheduledFor: scheduledFor,
		})
		if err != nil {
			handleDomainError(w, r, err)
			return
		}

		h.events.PostCreated(r.Context(), "function")
		response.OK(w, map[string]interface{}{
			"success": true,
			"post":    post,
		})
	}
}

// ConnectAccountRequest is the body of instagram-auth POST
type ConnectAccountRequest struct {
	Username string `json:"username"`
}

// ConnectAccount handles POST /functions/v1/instagram-auth
func (h *FunctionsHandler) ConnectAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireOwner(w, r)
		if !ok {
			return
		}

		var req ConnectAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		account, err := h.accounts.Connect(r.Context(), ownerID, req.Username)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}

		h.events.AccountConnected(r.Context())
		response.OK(w, map[string]interface{}{
			"success": true,
			"account": account,
		})
	}
}

// ListAccounts handles GET /functions/v1/instagram-auth
func (h *FunctionsHandler) ListAccounts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireOwner(w, r)
		if !ok {
			return
		}

		accounts, err := h.accounts.ListActive(r.Context(), ownerID)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		if accounts == nil {
			accounts = []accountentity.Account{}
		}

		response.OK(w, map[string]interface{}{
			"accounts": accounts,
		})
	}
}
