package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/media/dao"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/media/entity"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/storage"
)

// ObjectStore persists file contents
type ObjectStore interface {
	Put(ctx context.Context, obj storage.Object) (string, error)
	Delete(ctx context.Context, key string) error
}

// Service stores post images and records them in the uploads table
type Service struct {
	store   ObjectStore
	uploads dao.UploadRepository
	now     func() time.Time
}

// New creates a new media service
func New(store ObjectStore, uploads dao.UploadRepository) *Service {
	return &Service{store: store, uploads: uploads, now: time.Now}
}

// UploadInput describes an incoming image
type UploadInput struct {
	OwnerID  string
	Filename string
	MimeType string
	Size     int64
	Body     io.Reader
}

// Upload stores the image and returns its record, including the public URL
func (s *Service) Upload(ctx context.Context, in UploadInput) (*entity.Upload, error) {
	if in.OwnerID == "" {
		return nil, entity.ErrEmptyOwnerID
	}
	if err := entity.CheckFile(in.Size, in.MimeType); err != nil {
		return nil, err
	}

	ext, _ := entity.Extension(in.MimeType)
	now := s.now().UTC()
	id := uuid.New().String()
	key := storage.ImageKey(in.OwnerID, id, ext, now)

	url, err := s.store.Put(ctx, storage.Object{
		Key:         key,
		Body:        in.Body,
		ContentType: in.MimeType,
		Size:        in.Size,
	})
	if err != nil {
		return nil, err
	}

	filename := path.Base(in.Filename)
	if filename == "." || filename == "/" {
		filename = id + ext
	}

	u := &entity.Upload{
		ID:         id,
		OwnerID:    in.OwnerID,
		Filename:   filename,
		FilePath:   key,
		URL:        url,
		FileSize:   in.Size,
		MimeType:   in.MimeType,
		UploadedAt: now,
	}

	if err := s.uploads.Create(ctx, u); err != nil {
		// the object is orphaned without its row
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("%w (cleanup failed: %v)", err, delErr)
		}
		return nil, err
	}

	return u, nil
}
