package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Unauthorized(rec, "Unauthorized")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
}

func TestValidationFailed(t *testing.T) {
	t.Run("field errors", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ValidationFailed(rec, v.Errors{"timezone": errors.New("unknown zone")})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"validation failed","fields":{"timezone":"unknown zone"}}`, rec.Body.String())
	})

	t.Run("plain error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ValidationFailed(rec, errors.New("caption is required"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"caption is required"}`, rec.Body.String())
	})
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
