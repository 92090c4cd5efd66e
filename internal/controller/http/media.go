package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/media/entity"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/media/service"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/httpx/response"
)

// multipartOverhead leaves room for form boundaries and headers around the file
const multipartOverhead = 1 << 20

// MediaUploader stores uploaded images
type MediaUploader interface {
	Upload(ctx context.Context, in service.UploadInput) (*entity.Upload, error)
}

// MediaHandler handles media upload HTTP requests
type MediaHandler struct {
	uploader MediaUploader
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(uploader MediaUploader) *MediaHandler {
	return &MediaHandler{uploader: uploader}
}

// RegisterRoutes registers media routes
func (h *MediaHandler) RegisterRoutes(r chi.Router) {
	r.Post("/media/upload", h.Upload())
}

// Upload handles POST /media/upload with a multipart "file" field.
// The returned url is meant to be used as a post's image URL.
func (h *MediaHandler) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireOwner(w, r)
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, entity.MaxFileSize+multipartOverhead)

		if err := r.ParseMultipartForm(entity.MaxFileSize); err != nil {
			response.Error(w, http.StatusRequestEntityTooLarge, "file too large or invalid multipart form")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			response.BadRequest(w, "missing file in request")
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			sniff := make([]byte, 512)
			n, _ := file.Read(sniff)
			contentType = http.DetectContentType(sniff[:n])
			if _, err := file.Seek(0, 0); err != nil {
				response.InternalError(w, "failed to read upload")
				return
			}
		}

		upload, err := h.uploader.Upload(r.Context(), service.UploadInput{
			OwnerID:  ownerID,
			Filename: header.Filename,
			MimeType: contentType,
			Size:     header.Size,
			Body:     file,
		})
		if err != nil {
			handleDomainError(w, r, err)
			return
		}

		response.Created(w, upload)
	}
}
