package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/ports"
)

// DefaultUploadMaxBytes caps an audio upload when no limit is configured.
const DefaultUploadMaxBytes int64 = 20 << 20

// UploadRoute is the public prefix under which stored audio is served.
const UploadRoute = "/uploads/"

// AudioVideoIDPrefix marks synthesized ids of uploaded tracks. YouTube ids
// never contain a colon.
const AudioVideoIDPrefix = "audio:"

var audioExtensions = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".flac": "audio/flac",
}

type uploadService struct {
	blobs     ports.BlobStorage
	playlists ports.PlaylistService
	maxBytes  int64
	now       func() time.Time
	log       zerolog.Logger
}

// NewUploadService returns an UploadService that stores payloads in blobs and
// registers them through playlists. A non-positive maxBytes uses the default.
func NewUploadService(blobs ports.BlobStorage, playlists ports.PlaylistService, maxBytes int64, log zerolog.Logger) ports.UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultUploadMaxBytes
	}
	return &uploadService{
		blobs:     blobs,
		playlists: playlists,
		maxBytes:  maxBytes,
		now:       time.Now,
		log:       log,
	}
}

func (s *uploadService) Store(ctx context.Context, in ports.UploadInput) (*domain.Track, error) {
	if in.Username == "" || in.PlaylistName == "" || in.Filename == "" || in.Body == nil {
		return nil, domain.ErrMissingField
	}

	base := path.Base(strings.ReplaceAll(in.Filename, `\`, "/"))
	ext := strings.ToLower(path.Ext(base))
	contentType, ok := audioExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
	if in.Size > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrPayloadTooLarge, in.Size, s.maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(in.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", domain.ErrPayloadTooLarge, s.maxBytes)
	}

	name := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString(), ext)
	if err := s.blobs.Upload(ctx, name, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		s.log.Error().Err(err).Str("name", name).Msg("failed to store upload")
		return nil, fmt.Errorf("store upload: %w", err)
	}

	locator := UploadRoute + name
	track, err := s.playlists.AddTrack(ctx, in.Username, in.PlaylistName, ports.TrackInput{
		VideoID:  AudioVideoIDPrefix + name,
		Title:    uploadTitle(base),
		Type:     string(domain.TrackAudioFile),
		FilePath: &locator,
	})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, name); delErr != nil {
			s.log.Warn().Err(delErr).Str("name", name).Msg("failed to remove orphaned upload")
		}
		return nil, err
	}

	s.log.Info().Str("username", in.Username).Str("playlist", in.PlaylistName).Str("name", name).Int("bytes", len(data)).Msg("audio uploaded")
	return track, nil
}

// uploadTitle strips the extension from the file name. A name that is only an
// extension keeps it, so the track always has something to display.
func uploadTitle(base string) string {
	title := strings.TrimSuffix(base, path.Ext(base))
	if strings.TrimSpace(title) == "" {
		return base
	}
	return title
}

// Open returns the stored payload for a name previously produced by Store.
func (s *uploadService) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !ValidUploadName(name) {
		return nil, domain.ErrNotFound
	}
	return s.blobs.Download(ctx, name)
}

// ValidUploadName reports whether name could have been generated by Store.
func ValidUploadName(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return false
	}
	_, ok := audioExtensions[strings.ToLower(path.Ext(name))]
	return ok
}

// ContentTypeFor returns the MIME type to serve a stored upload with.
func ContentTypeFor(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ct, ok := audioExtensions[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
