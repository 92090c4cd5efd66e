package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/apperr"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/auth"
	accountentity "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/account/entity"
	mediaentity "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/media/entity"
	postentity "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/entity"
	profileentity "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/profile/entity"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/httpx/response"
)

// requireOwner returns the authenticated owner or answers 401
func requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID, ok := auth.OwnerID(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return "", false
	}
	return ownerID, true
}

// pathID returns the {id} URL parameter. Ids that are not UUIDs cannot match a row
// and are answered with notFound.
func pathID(w http.ResponseWriter, r *http.Request, notFound error) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		response.NotFound(w, notFound.Error())
		return "", false
	}
	return id, true
}

// handleDomainError maps domain errors to HTTP responses. Unmapped errors are logged and answered with 500.
func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrs v.Errors
	var invalid *apperr.ValidationError

	switch {
	case postentity.IsValidationError(err),
		errors.Is(err, postentity.ErrAccountNotFound),
		errors.Is(err, accountentity.ErrEmptyUsername),
		errors.Is(err, accountentity.ErrUsernameTooLong),
		errors.Is(err, accountentity.ErrInvalidUsername),
		errors.Is(err, mediaentity.ErrEmptyFile):
		response.BadRequest(w, err.Error())
	case errors.As(err, &fieldErrs):
		response.ValidationFailed(w, fieldErrs)
	case errors.Is(err, postentity.ErrEmptyOwnerID),
		errors.Is(err, accountentity.ErrEmptyOwnerID),
		errors.Is(err, mediaentity.ErrEmptyOwnerID):
		response.Unauthorized(w, "Unauthorized")
	case errors.Is(err, postentity.ErrPostNotFound),
		errors.Is(err, accountentity.ErrAccountNotFound),
		errors.Is(err, profileentity.ErrProfileNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, postentity.ErrPostNotEditable):
		response.Conflict(w, err.Error())
	case errors.Is(err, mediaentity.ErrFileTooLarge):
		response.Error(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, mediaentity.ErrUnsupportedType):
		response.Error(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.As(err, &invalid):
		slog.WarnContext(r.Context(), "stored data failed validation", "path", r.URL.Path, "error", err)
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		slog.ErrorContext(r.Context(), "request timed out", "path", r.URL.Path, "error", err)
		response.Error(w, http.StatusGatewayTimeout, "request timed out")
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		response.InternalError(w, "internal server error")
	}
}

// EventRecorder counts domain events. Satisfied by *metrics.Metrics.
type EventRecorder interface {
	PostCreated(ctx context.Context, source string)
	PostDeleted(ctx context.Context)
	AccountConnected(ctx context.Context)
}

type noopRecorder struct{}

func (noopRecorder) PostCreated(context.Context, string) {}
func (noopRecorder) PostDeleted(context.Context) {}
func (noopRecorder) AccountConnected(context.Context) {}

func recorderOrNoop(rec EventRecorder) EventRecorder {
	if rec == nil {
		return noopRecorder{}
	}
	return rec
}
