package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/account/entity"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/httpx/response"
)

// AccountManager lists and disconnects Instagram accounts
type AccountManager interface {
	ListActive(ctx context.Context, ownerID string) ([]entity.Account, error)
	Disconnect(ctx context.Context, ownerID, id string) error
}

// AccountHandler handles HTTP requests for Instagram accounts
type AccountHandler struct {
	accounts AccountManager
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts AccountManager) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// RegisterRoutes registers account routes
func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Get("/accounts", h.List())
	r.Delete("/accounts/{id}", h.Disconnect())
}

// List handles GET /accounts
func (h *AccountHandler) List() http.HandlerFunc {
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
			accounts = []entity.Account{}
		}

		response.OK(w, map[string]interface{}{
			"accounts": accounts,
			"total":    len(accounts),
		})
	}
}

// Disconnect handles DELETE /accounts/{id}
func (h *AccountHandler) Disconnect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireOwner(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, entity.ErrAccountNotFound)
		if !ok {
			return
		}

		if err := h.accounts.Disconnect(r.Context(), ownerID, id); err != nil {
			handleDomainError(w, r, err)
			return
		}

		response.NoContent(w)
	}
}
