package ports

import (
	"context"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

// PlaylistRepository persists each user's collection as one document.
//
// Load never fails for an unknown user: it returns an empty collection.
// Save replaces that user's entry and leaves other users untouched.
type PlaylistRepository interface {
	Load(ctx context.Context, username string) (domain.Playlists, error)
	Save(ctx context.Context, username string, playlists domain.Playlists) error
}
