package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3/MinIO configuration
type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	PublicURL       string // base URL objects are served from, e.g. "http://localhost:9000/post-images"
}

// S3Storage stores post images in an S3-compatible bucket
type S3Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3Storage creates a new S3 storage client
func NewS3Storage(cfg S3Config) *S3Storage {
	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		UsePathStyle: true, // MinIO
	})

	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}
}

// Object describes an object to store
type Object struct {
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// Put writes an object and returns the URL it is served from
func (s *S3Storage) Put(ctx context.Context, obj Object) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(obj.Key),
		Body:          obj.Body,
		ContentType:   aws.String(obj.ContentType),
		ContentLength: aws.Int64(obj.Size),
	})
	if err != nil {
		return "", fmt.Errorf("uploading to s3: %w", err)
	}

	return s.URL(obj.Key), nil
}

// Delete removes an object
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting from s3: %w", err)
	}
	return nil
}

// URL returns the public URL of key
func (s *S3Storage) URL(key string) string {
	return s.publicURL + "/" + strings.TrimLeft(key, "/")
}

// ImageKey builds the object key of an owner's image: <owner>/<unix millis>-<id><ext>
func ImageKey(ownerID, id, ext string, at time.Time) string {
	return fmt.Sprintf("%s/%d-%s%s", ownerID, at.UnixMilli(), id, ext)
}
