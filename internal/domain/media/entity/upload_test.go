package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckFile(t *testing.T) {
	tests := []struct {
		name string
		size int64
		mime string
		want error
	}{
		{"jpeg", 1024, "image/jpeg", nil},
		{"webp upper case", 1024, "IMAGE/WEBP", nil},
		{"exact limit", MaxFileSize, "image/png", nil},
		{"empty", 0, "image/png", ErrEmptyFile},
		{"too large", MaxFileSize + 1, "image/png", ErrFileTooLarge},
		{"video", 1024, "video/mp4", ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckFile(tt.size, tt.mime))
		})
	}
}

func TestExtension(t *testing.T) {
	ext, ok := Extension("image/jpeg")
	assert.True(t, ok)
	assert.Equal(t, ".jpg", ext)

	_, ok = Extension("application/pdf")
	assert.False(t, ok)
}
