package response

import (
	"encoding/json"
	"errors"
	"net/http"

	v "github.com/go-ozzo/ozzo-validation/v4"
)

// Error sends an error response
func Error(w http.ResponseWriter, code int, message string) {
	JSON(w, code, map[string]string{"error": message})
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// NoContent sends a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Created sends a 201 Created response with JSON body
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// OK sends a 200 OK response with JSON body
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// BadRequest sends a 400 Bad Request error
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// NotFound sends a 404 Not Found error
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// Conflict sends a 409 Conflict error
func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, message)
}

// InternalError sends a 500 Internal Server Error
func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}

// Unauthorized sends a 401 Unauthorized error
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// TooManyRequests sends a 429 Too Many Requests error
func TooManyRequests(w http.ResponseWriter) {
	Error(w, http.StatusTooManyRequests, "rate limit exceeded")
}

// ValidationFailed sends a 400 with per-field messages taken from ozzo-validation errors.
// Errors that are not field errors produce a plain error body.
func ValidationFailed(w http.ResponseWriter, err error) {
	var errs v.Errors
	if !errors.As(err, &errs) {
		BadRequest(w, err.Error())
		return
	}

	fields := make(map[string]string, len(errs))
	for name, fieldErr := range errs {
		fields[name] = fieldErr.Error()
	}

	JSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "validation failed",
		"fields": fields,
	})
}
