package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsSurviveWrapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"auth", &AuthError{}, IsAuth},
		{"validation", &ValidationError{Field: "caption", Reason: "is required"}, IsValidation},
		{"remote", &RemoteError{Status: 500, Message: "boom"}, IsRemote},
		{"store", &StoreError{Op: "list posts", Status: 503}, IsStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(fmt.Errorf("refresh: %w", tt.err)))
			assert.False(t, tt.check(errors.New("plain")))
		})
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "not authenticated", (&AuthError{}).Error())
	assert.Equal(t, "validation failed: caption is required", (&ValidationError{Field: "caption", Reason: "is required"}).Error())
	assert.Equal(t, "remote call failed (400): caption is required", (&RemoteError{Status: 400, Message: "caption is required"}).Error())
	assert.Equal(t, "remote call failed: request timed out", (&RemoteError{Message: "request timed out"}).Error())
	assert.Equal(t, "delete post: post not found", (&StoreError{Op: "delete post", Status: 404, Message: "post not found"}).Error())
}

func TestUnwrap(t *testing.T) {
	err := &RemoteError{Message: "request timed out", Err: context.DeadlineExceeded}
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	store := &StoreError{Op: "list posts", Err: context.Canceled}
	assert.ErrorIs(t, store, context.Canceled)
	assert.Equal(t, "list posts: context canceled", store.Error())
}
