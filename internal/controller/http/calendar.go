package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/entity"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/policy"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/httpx/response"
)

// CalendarPolicy provides calendar views over an owner's posts
type CalendarPolicy interface {
	Calendar(ctx context.Context, ownerID string, year int, month time.Month) (*policy.MonthView, error)
	Upcoming(ctx context.Context, ownerID string) ([]entity.Post, error)
}

// CalendarHandler handles calendar HTTP requests
type CalendarHandler struct {
	policy CalendarPolicy
	now    func() time.Time
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(p CalendarPolicy) *CalendarHandler {
	return &CalendarHandler{policy: p, now: time.Now}
}

// RegisterRoutes registers calendar routes
func (h *CalendarHandler) RegisterRoutes(r chi.Router) {
	r.Get("/calendar", h.Month())
	r.Get("/calendar/upcoming", h.Upcoming())
}

// Month handles GET /calendar?year=2025&month=6. Missing parameters default to the current month.
func (h *CalendarHandler) Month() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireOwner(w, r)
		if !ok {
			return
		}

		now := h.now().UTC()
		year, month := now.Year(), now.Month()

		if s := r.URL.Query().Get("year"); s != "" {
			y, err := strconv.Atoi(s)
			if err != nil || y < 1970 || y > 9999 {
				response.BadRequest(w, "invalid year")
				return
			}
			year = y
		}
		if s := r.URL.Query().Get("month"); s != "" {
			m, err := strconv.Atoi(s)
			if err != nil || m < 1 || m > 12 {
				response.BadRequest(w, "invalid month, use 1-12")
				return
			}
			month = time.Month(m)
		}

		view, err := h.policy.Calendar(r.Context(), ownerID, year, month)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}

		response.OK(w, view)
	}
}

// Upcoming handles GET /calendar/upcoming
func (h *CalendarHandler) Upcoming() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireOwner(w, r)
		if !ok {
			return
		}

		posts, err := h.policy.Upcoming(r.Context(), ownerID)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		if posts == nil {
			posts = []entity.Post{}
		}

		response.OK(w, map[string]interface{}{
			"posts": posts,
		})
	}
}
