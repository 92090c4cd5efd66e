package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/entity"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/service"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/httpx/response"
)

// PostManager defines the post operations used by the data API.
// Interface is defined by consumer (handler), not provider (policy)
type PostManager interface {
	ListPosts(ctx context.Context, ownerID string) ([]entity.Post, error)
	GetPost(ctx context.Context, ownerID, id string) (*entity.Post, error)
	UpdatePost(ctx context.Context, in service.UpdateInput) (*entity.Post, error)
	DeletePost(ctx context.Context, ownerID, id string) error
}

// PostHandler handles HTTP requests for the posts table
type PostHandler struct {
	posts  PostManager
	events EventRecorder
}

// NewPostHandler creates a new post handler
func NewPostHandler(posts PostManager, events EventRecorder) *PostHandler {
	return &PostHandler{posts: posts, events: recorderOrNoop(events)}
}

// RegisterRoutes registers post routes
func (h *PostHandler) RegisterRoutes(r chi.Router) {
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.List())
		r.Get("/{id}", h.Get())
		r.Put("/{id}", h.Update())
		r.Delete("/{id}", h.Delete())
	})
}

// List handles GET /posts
func (h *PostHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireOwner(w, r)
		if !ok {
			return
		}

		posts, err := h.posts.ListPosts(r.Context(), ownerID)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		if posts == nil {
			posts = []entity.Post{}
		}

		response.OK(w, map[string]interface{}{
			"posts": posts,
			"total": len(posts),
		})
	}
}

// Get handles GET /posts/{id}
func (h *PostHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireOwner(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, entity.ErrPostNotFound)
		if !ok {
			return
		}

		post, err := h.posts.GetPost(r.Context(), ownerID, id)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}

		response.OK(w, post)
	}
}

// UpdateRequest is the body of PUT /posts/{id}. Omitted fields stay unchanged;
// an empty instagram_account_id detaches the account.
type UpdateRequest struct {
	Caption            *string `json:"caption,omitempty"`
	ImageURL           *string `json:"image_url,omitempty"`
	ScheduledFor       *string `json:"scheduled_for,omitempty"` // RFC3339
	InstagramAccountID *string `json:"instagram_account_id,omitempty"`
}

// Update handles PUT /posts/{id}
func (h *PostHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireOwner(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, entity.ErrPostNotFound)
		if !ok {
			return
		}

		var req UpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		in := service.UpdateInput{
			OwnerID:  ownerID,
			ID:       id,
			Caption:  req.Caption,
			ImageURL: req.ImageURL,
		}

		if req.ScheduledFor != nil {
			t, err := time.Parse(time.RFC3339, *req.ScheduledFor)
			if err != nil {
				response.BadRequest(w, "invalid scheduled_for format, use RFC3339")
				return
			}
			t = t.UTC()
			in.ScheduledFor = &t
		}

		if req.InstagramAccountID != nil {
			if *req.InstagramAccountID == "" {
				in.ClearAccount = true
			} else {
				in.AccountID = req.InstagramAccountID
			}
		}

		post, err := h.posts.UpdatePost(r.Context(), in)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}

		response.OK(w, post)
	}
}

// Delete handles DELETE /posts/{id}. The row is matched on both id and owner.
func (h *PostHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireOwner(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, entity.ErrPostNotFound)
		if !ok {
			return
		}

		if err := h.posts.DeletePost(r.Context(), ownerID, id); err != nil {
			handleDomainError(w, r, err)
			return
		}

		h.events.PostDeleted(r.Context())
		response.NoContent(w)
	}
}
