package entity

import (
	"errors"
	"strings"
	"time"
)

// Domain errors for uploads
var (
	ErrEmptyOwnerID    = errors.New("owner ID is required")
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds maximum size of 10MB")
	ErrUnsupportedType = errors.New("only jpeg, png, gif and webp images are supported")
)

// MaxFileSize is the upload limit for post images
const MaxFileSize = 10 << 20

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload records an image stored for a user
type Upload struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"user_id"`
	Filename   string    `json:"filename"`
	FilePath   string    `json:"file_path"`
	URL        string    `json:"url"`
	FileSize   int64     `json:"file_size"`
	MimeType   string    `json:"mime_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Extension returns the file extension for an allowed image type
func Extension(mimeType string) (string, bool) {
	ext, ok := extensions[strings.ToLower(strings.TrimSpace(mimeType))]
	return ext, ok
}

// CheckFile validates the size and type of an incoming file
func CheckFile(size int64, mimeType string) error {
	if size <= 0 {
		return ErrEmptyFile
	}
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	if _, ok := Extension(mimeType); !ok {
		return ErrUnsupportedType
	}
	return nil
}
