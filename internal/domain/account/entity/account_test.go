package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"golden.hour_photos", nil},
		{"", ErrEmptyUsername},
		{strings.Repeat("a", MaxUsernameLength+1), ErrUsernameTooLong},
		{"has space", ErrInvalidUsername},
		{"emoji🙂", ErrInvalidUsername},
		{"with-dash", ErrInvalidUsername},
		{"trailing\n", ErrInvalidUsername},
		{"A1.b_2", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := ValidateUsername(tt.in)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "studio.kat", NormalizeUsername("  @studio.kat "))
}

func TestAccountIsExpired(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	acc := Account{}
	assert.False(t, acc.IsExpired(now))

	past := now.Add(-time.Minute)
	acc.ExpiresAt = &past
	assert.True(t, acc.IsExpired(now))

	future := now.Add(time.Minute)
	acc.ExpiresAt = &future
	assert.False(t, acc.IsExpired(now))
}
