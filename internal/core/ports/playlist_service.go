package ports

import (
	"context"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

// TrackInput is what a caller hands AddTrack. Zero values are replaced by the
// service defaults; Rating may be any decoded JSON value.
type TrackInput struct {
	VideoID   string
	Title     string
	Thumbnail string
	Rating    any
	Type      string
	FilePath  *string
}

// PlaylistService defines the playlist use cases. Every operation is keyed by
// username; unknown usernames get an empty collection.
type PlaylistService interface {
	ListPlaylists(ctx context.Context, username string) (domain.Playlists, error)
	AddTrack(ctx context.Context, username, playlistName string, track TrackInput) (*domain.Track, error)
	UpdateRating(ctx context.Context, username, playlistName, videoID string, rating any) (*domain.Track, error)
	RemoveTrack(ctx context.Context, username, playlistName, videoID string) error
	CreatePlaylist(ctx context.Context, username, name string) error
}
