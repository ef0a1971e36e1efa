package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

// Storage keeps uploaded blobs as flat files in one directory.
type Storage struct {
	dir string
}

func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create upload dir: %v", domain.ErrStorageIO, err)
	}
	return &Storage{dir: dir}, nil
}

func (s *Storage) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("%w: failed to create file: %v", domain.ErrStorageIO, err)
	}
	if _, err := io.Copy(dst, reader); err != nil {
		dst.Close()
		os.Remove(path)
		return fmt.Errorf("%w: failed to write file: %v", domain.ErrStorageIO, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("%w: failed to write file: %v", domain.ErrStorageIO, err)
	}
	return nil
}

func (s *Storage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to open file: %v", domain.ErrStorageIO, err)
	}
	return f, nil
}

// Delete is a no-op for a missing key.
func (s *Storage) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: failed to delete file: %v", domain.ErrStorageIO, err)
	}
	return nil
}

// path resolves key inside dir and refuses anything that would escape it.
func (s *Storage) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: invalid key %q", domain.ErrNotFound, key)
	}
	return filepath.Join(s.dir, key), nil
}
