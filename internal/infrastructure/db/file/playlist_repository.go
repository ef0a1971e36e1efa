package file

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

const playlistsFile = "playlists.json"

// PlaylistRepository keeps every user's collection in one playlists.json
// object keyed by username.
type PlaylistRepository struct {
	doc *jsonFile
}

func NewPlaylistRepository(dataDir string, log zerolog.Logger) (*PlaylistRepository, error) {
	doc, err := newJSONFile(filepath.Join(dataDir, playlistsFile), "{}", log)
	if err != nil {
		return nil, err
	}
	return &PlaylistRepository{doc: doc}, nil
}

// Load returns an empty collection for an unknown user. A document that no
// longer parses has already been moved aside by readJSON and reads as empty.
func (r *PlaylistRepository) Load(_ context.Context, username string) (domain.Playlists, error) {
	r.doc.mu.Lock()
	all, err := readJSON[map[string]domain.Playlists](r.doc)
	r.doc.mu.Unlock()
	if err != nil {
		r.doc.log.Error().Err(err).Str("username", username).Msg("failed to read playlists")
		return nil, err
	}

	p := all[username]
	if p == nil {
		return domain.Playlists{}, nil
	}
	return p, nil
}

// Save re-reads the document under lock and replaces only username's entry.
func (r *PlaylistRepository) Save(_ context.Context, username string, playlists domain.Playlists) error {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	all, err := readJSON[map[string]domain.Playlists](r.doc)
	if err != nil {
		return err
	}
	if all == nil {
		all = make(map[string]domain.Playlists)
	}
	all[username] = playlists.Normalized()
	return r.doc.writeJSON(all)
}
