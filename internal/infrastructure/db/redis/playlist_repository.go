package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

// PlaylistRepository stores each user's collection as one JSON value.
// Key format: playlists:<username>
type PlaylistRepository struct {
	client *redis.Client
}

func NewPlaylistRepository(client *redis.Client) *PlaylistRepository {
	return &PlaylistRepository{client: client}
}

func (r *PlaylistRepository) Load(ctx context.Context, username string) (domain.Playlists, error) {
	data, err := r.client.Get(ctx, r.key(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Playlists{}, nil
		}
		return nil, fmt.Errorf("%w: load playlists: %v", domain.ErrStorageIO, err)
	}

	var p domain.Playlists
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: decode playlists for %q: %v", domain.ErrStorageIO, username, err)
	}
	if p == nil {
		p = domain.Playlists{}
	}
	return p, nil
}

func (r *PlaylistRepository) Save(ctx context.Context, username string, playlists domain.Playlists) error {
	data, err := json.Marshal(playlists.Normalized())
	if err != nil {
		return fmt.Errorf("encode playlists: %w", err)
	}
	if err := r.client.Set(ctx, r.key(username), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: save playlists: %v", domain.ErrStorageIO, err)
	}
	return nil
}

func (r *PlaylistRepository) key(username string) string {
	return fmt.Sprintf("playlists:%s", username)
}
