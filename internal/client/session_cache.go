package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

var (
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrAlreadyInPlaylist = errors.New("video is already in one of your playlists")
)

// Backend is the subset of *API the session cache needs.
type Backend interface {
	SetToken(token string)
	Logout(ctx context.Context) error
	Playlists(ctx context.Context, username string) (domain.Playlists, error)
	AddTrack(ctx context.Context, username, playlistName string, track domain.Track) (*domain.Track, error)
	UpdateRating(ctx context.Context, username, playlistName, videoID string, rating int) (int, error)
	RemoveTrack(ctx context.Context, username, playlistName, videoID string) error
	CreatePlaylist(ctx context.Context, username, name string) error
	Upload(ctx context.Context, username, playlistName, filename string, body io.Reader) (*domain.Track, error)
}

// SessionCache owns the logged-in session and a mirror of the user's
// playlists. Every mutation goes to the server first and touches the mirror
// only after the server accepted it.
type SessionCache struct {
	mu       sync.Mutex
	backend  Backend
	session  *domain.Session
	mirror   domain.Playlists
	selected string
	search   string
	sortBy   SortMode
}

func NewSessionCache(backend Backend) *SessionCache {
	return &SessionCache{backend: backend, sortBy: SortNone}
}

// Start installs session and loads the full collection as the baseline.
// Favorites is selected afterwards.
func (s *SessionCache) Start(ctx context.Context, session domain.Session) error {
	if session.Username == "" {
		return ErrNotLoggedIn
	}
	s.backend.SetToken(session.Token)

	all, err := s.backend.Playlists(ctx, session.Username)
	if err != nil {
		return fmt.Errorf("load playlists: %w", err)
	}
	if all == nil {
		all = domain.Playlists{}
	}
	all.EnsureFavorites()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &session
	s.mirror = all
	s.selected = domain.FavoritesPlaylist
	s.search = ""
	s.sortBy = SortNone
	return nil
}

// Refresh replaces the mirror with the server's current collection.
func (s *SessionCache) Refresh(ctx context.Context) error {
	username, err := s.username()
	if err != nil {
		return err
	}
	all, err := s.backend.Playlists(ctx, username)
	if err != nil {
		return fmt.Errorf("load playlists: %w", err)
	}
	if all == nil {
		all = domain.Playlists{}
	}
	all.EnsureFavorites()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirror = all
	if _, ok := s.mirror[s.selected]; !ok {
		s.selected = domain.FavoritesPlaylist
	}
	return nil
}

// Session returns the current session, if any.
func (s *SessionCache) Session() (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.Session{}, false
	}
	return *s.session, true
}

// PlaylistNames lists the mirrored playlists, Favorites first.
func (s *SessionCache) PlaylistNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedPlaylistNames(s.mirror)
}

func (s *SessionCache) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Select changes the selected playlist. It never contacts the server.
func (s *SessionCache) Select(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ErrNotLoggedIn
	}
	if _, ok := s.mirror[name]; !ok {
		return fmt.Errorf("%w: playlist %q", domain.ErrNotFound, name)
	}
	s.selected = name
	return nil
}

func (s *SessionCache) UpdateSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = term
}

func (s *SessionCache) SortBy(mode SortMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortBy = mode
}

// View returns the selected playlist filtered by the search term and sorted
// by the sort mode.
func (s *SessionCache) View() []domain.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SortTracks(FilterTracks(s.mirror[s.selected], s.search), s.sortBy)
}

// InAnyPlaylist reports whether videoID is mirrored in any playlist.
func (s *SessionCache) InAnyPlaylist(videoID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inAnyPlaylist(videoID)
}

func (s *SessionCache) inAnyPlaylist(videoID string) bool {
	for name := range s.mirror {
		if _, ok := s.mirror.IndexOf(name, videoID); ok {
			return true
		}
	}
	return false
}

// AddTrack adds track to playlistName. A video already present anywhere in
// the mirror is refused without a request.
func (s *SessionCache) AddTrack(ctx context.Context, playlistName string, track domain.Track) (*domain.Track, error) {
	username, err := s.username()
	if err != nil {
		return nil, err
	}
	if s.InAnyPlaylist(track.VideoID) {
		return nil, ErrAlreadyInPlaylist
	}

	added, err := s.backend.AddTrack(ctx, username, playlistName, track)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendTrack(playlistName, *added)
	return added, nil
}

// Upload sends an audio file and mirrors the track the server created.
func (s *SessionCache) Upload(ctx context.Context, playlistName, filename string, body io.Reader) (*domain.Track, error) {
	username, err := s.username()
	if err != nil {
		return nil, err
	}

	added, err := s.backend.Upload(ctx, username, playlistName, filename, body)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendTrack(playlistName, *added)
	return added, nil
}

func (s *SessionCache) appendTrack(playlistName string, track domain.Track) {
	if _, ok := s.mirror.IndexOf(playlistName, track.VideoID); ok {
		return
	}
	s.mirror[playlistName] = append(s.mirror[playlistName], track)
}

// UpdateRating stores rating on the server and mirrors the value it kept.
func (s *SessionCache) UpdateRating(ctx context.Context, playlistName, videoID string, rating int) (int, error) {
	username, err := s.username()
	if err != nil {
		return 0, err
	}

	stored, err := s.backend.UpdateRating(ctx, username, playlistName, videoID, rating)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.mirror.IndexOf(playlistName, videoID); ok {
		s.mirror[playlistName][i].Rating = stored
	}
	return stored, nil
}

func (s *SessionCache) RemoveTrack(ctx context.Context, playlistName, videoID string) error {
	username, err := s.username()
	if err != nil {
		return err
	}

	if err := s.backend.RemoveTrack(ctx, username, playlistName, videoID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.mirror.IndexOf(playlistName, videoID); ok {
		list := s.mirror[playlistName]
		s.mirror[playlistName] = append(list[:i:i], list[i+1:]...)
	}
	return nil
}

func (s *SessionCache) CreatePlaylist(ctx context.Context, name string) error {
	username, err := s.username()
	if err != nil {
		return err
	}

	if err := s.backend.CreatePlaylist(ctx, username, name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mirror[name]; !ok {
		s.mirror[name] = []domain.Track{}
	}
	return nil
}

// Logout tells the server, ignoring transport failures, and forgets the
// session and the mirror.
func (s *SessionCache) Logout(ctx context.Context) {
	if _, err := s.username(); err == nil {
		_ = s.backend.Logout(ctx)
	}
	s.backend.SetToken("")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.mirror = nil
	s.selected = ""
	s.search = ""
	s.sortBy = SortNone
}

func (s *SessionCache) username() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return "", ErrNotLoggedIn
	}
	return s.session.Username, nil
}
