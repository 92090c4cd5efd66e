package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/httpx/response"
)

// ErrInvalidToken is returned when a bearer token is unknown or expired
var ErrInvalidToken = errors.New("invalid or expired token")

// Verifier resolves a bearer token to the owner it was issued to
type Verifier interface {
	Verify(ctx context.Context, token string) (ownerID string, err error)
}

type ownerKey struct{}

// WithOwnerID returns a context carrying the authenticated owner ID
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerID returns the authenticated owner ID stored in ctx
func OwnerID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ownerKey{}).(string)
	return id, ok && id != ""
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Middleware rejects requests without a valid bearer token with 401 {"error":"Unauthorized"}
func Middleware(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			ownerID, err := v.Verify(r.Context(), token)
			if err != nil {
				if !errors.Is(err, ErrInvalidToken) {
					response.InternalError(w, "failed to verify session")
					return
				}
				response.Unauthorized(w, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), ownerID)))
		})
	}
}
