package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/profile/entity"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/profile/service"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/httpx/response"
)

// ProfileManager reads and updates the caller's profile
type ProfileManager interface {
	Get(ctx context.Context, ownerID string) (*entity.Profile, error)
	Update(ctx context.Context, in service.UpdateInput) (*entity.Profile, error)
}

// ProfileHandler handles profile HTTP requests
type ProfileHandler struct {
	profiles ProfileManager
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles ProfileManager) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// RegisterRoutes registers profile routes
func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.Get())
	r.Put("/profile", h.Update())
}

// Get handles GET /profile
func (h *ProfileHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireOwner(w, r)
		if !ok {
			return
		}

		p, err := h.profiles.Get(r.Context(), ownerID)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}

		response.OK(w, p)
	}
}

// ProfileRequest is the body of PUT /profile
type ProfileRequest struct {
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	TimeZone  string `json:"timezone"`
}

// Update handles PUT /profile
func (h *ProfileHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireOwner(w, r)
		if !ok {
			return
		}

		var req ProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		p, err := h.profiles.Update(r.Context(), service.UpdateInput{
			OwnerID:   ownerID,
			Username:  req.Username,
			FullName:  req.FullName,
			AvatarURL: req.AvatarURL,
			TimeZone:  req.TimeZone,
		})
		if err != nil {
			handleDomainError(w, r, err)
			return
		}

		response.OK(w, p)
	}
}
