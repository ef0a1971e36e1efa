package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/ports"
)

type playlistService struct {
	repo ports.PlaylistRepository
	log  zerolog.Logger
}

// NewPlaylistService returns a PlaylistService backed by repo.
func NewPlaylistService(repo ports.PlaylistRepository, log zerolog.Logger) ports.PlaylistService {
	return &playlistService{repo: repo, log: log}
}

// ListPlaylists returns the user's collection, persisting Favorites first if
// it was missing.
func (s *playlistService) ListPlaylists(ctx context.Context, username string) (domain.Playlists, error) {
	if username == "" {
		return nil, domain.ErrMissingField
	}

	all, err := s.load(ctx, username)
	if err != nil {
		return nil, err
	}
	if all.EnsureFavorites() {
		if err := s.save(ctx, username, all); err != nil {
			return nil, err
		}
		s.log.Debug().Str("username", username).Msg("created default playlist")
	}
	return all, nil
}

func (s *playlistService) AddTrack(ctx context.Context, username, playlistName string, in ports.TrackInput) (*domain.Track, error) {
	if username == "" || playlistName == "" || in.VideoID == "" {
		return nil, domain.ErrMissingField
	}

	all, err := s.load(ctx, username)
	if err != nil {
		return nil, err
	}
	all.EnsureFavorites()

	if _, exists := all.IndexOf(playlistName, in.VideoID); exists {
		return nil, fmt.Errorf("%w: video %q is already in playlist %q", domain.ErrConflict, in.VideoID, playlistName)
	}

	track := domain.Track{
		VideoID:   in.VideoID,
		Title:     in.Title,
		Thumbnail: in.Thumbnail,
		Rating:    domain.CoerceRating(in.Rating),
		Type:      domain.TrackType(in.Type),
		FilePath:  in.FilePath,
	}.Normalize()

	all[playlistName] = append(all[playlistName], track)
	if err := s.save(ctx, username, all); err != nil {
		return nil, err
	}

	s.log.Info().Str("username", username).Str("playlist", playlistName).Str("video_id", track.VideoID).Msg("track added")
	return &track, nil
}

func (s *playlistService) UpdateRating(ctx context.Context, username, playlistName, videoID string, rating any) (*domain.Track, error) {
	if username == "" || playlistName == "" || videoID == "" {
		return nil, domain.ErrMissingField
	}

	all, err := s.load(ctx, username)
	if err != nil {
		return nil, err
	}
	if _, ok := all[playlistName]; !ok {
		return nil, fmt.Errorf("%w: playlist %q", domain.ErrNotFound, playlistName)
	}
	i, ok := all.IndexOf(playlistName, videoID)
	if !ok {
		return nil, fmt.Errorf("%w: video %q in playlist %q", domain.ErrNotFound, videoID, playlistName)
	}

	all.EnsureFavorites()
	all[playlistName][i].Rating = domain.CoerceRating(rating)
	if err := s.save(ctx, username, all); err != nil {
		return nil, err
	}

	track := all[playlistName][i]
	s.log.Debug().Str("username", username).Str("playlist", playlistName).Str("video_id", videoID).Int("rating", track.Rating).Msg("rating updated")
	return &track, nil
}

// RemoveTrack is idempotent: an absent playlist or track is not an error and
// nothing is written.
func (s *playlistService) RemoveTrack(ctx context.Context, username, playlistName, videoID string) error {
	if username == "" || playlistName == "" || videoID == "" {
		return domain.ErrMissingField
	}

	all, err := s.load(ctx, username)
	if err != nil {
		return err
	}
	i, ok := all.IndexOf(playlistName, videoID)
	if !ok {
		return nil
	}

	list := all[playlistName]
	all[playlistName] = append(list[:i:i], list[i+1:]...)
	all.EnsureFavorites()
	if err := s.save(ctx, username, all); err != nil {
		return err
	}

	s.log.Info().Str("username", username).Str("playlist", playlistName).Str("video_id", videoID).Msg("track removed")
	return nil
}

func (s *playlistService) CreatePlaylist(ctx context.Context, username, name string) error {
	if username == "" || name == "" {
		return domain.ErrMissingField
	}

	all, err := s.load(ctx, username)
	if err != nil {
		return err
	}
	if _, exists := all[name]; exists {
		return fmt.Errorf("%w: playlist %q", domain.ErrConflict, name)
	}

	all[name] = []domain.Track{}
	all.EnsureFavorites()
	if err := s.save(ctx, username, all); err != nil {
		return err
	}

	s.log.Info().Str("username", username).Str("playlist", name).Msg("playlist created")
	return nil
}

func (s *playlistService) load(ctx context.Context, username string) (domain.Playlists, error) {
	all, err := s.repo.Load(ctx, username)
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("failed to load playlists")
		return nil, fmt.Errorf("load playlists: %w", err)
	}
	if all == nil {
		return domain.Playlists{}, nil
	}
	return all.Normalized(), nil
}

func (s *playlistService) save(ctx context.Context, username string, all domain.Playlists) error {
	if err := s.repo.Save(ctx, username, all); err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("failed to save playlists")
		return fmt.Errorf("save playlists: %w", err)
	}
	return nil
}
