package ports

import (
	"context"
	"io"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

// BlobStorage holds uploaded audio under opaque keys.
type BlobStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Download returns domain.ErrNotFound for a missing key.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// UploadInput carries one audio upload from the transport layer.
type UploadInput struct {
	Username     string
	PlaylistName string
	Filename     string
	// Size is the declared size; -1 when unknown.
	Size int64
	Body io.Reader
}

type UploadService interface {
	Store(ctx context.Context, in UploadInput) (*domain.Track, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
