package client

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

type stubBackend struct {
	token     string
	playlists domain.Playlists
	err       error
	calls     int
	logouts   int
	logoutErr error
}

func (b *stubBackend) SetToken(token string) { b.token = token }

func (b *stubBackend) Logout(context.Context) error {
	b.logouts++
	return b.logoutErr
}

func (b *stubBackend) Playlists(context.Context, string) (domain.Playlists, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	out := domain.Playlists{}
	for name, tracks := range b.playlists {
		out[name] = append([]domain.Track(nil), tracks...)
	}
	return out, nil
}

func (b *stubBackend) AddTrack(_ context.Context, _, _ string, track domain.Track) (*domain.Track, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	track = track.Normalize()
	return &track, nil
}

func (b *stubBackend) UpdateRating(_ context.Context, _, _, _ string, rating int) (int, error) {
	b.calls++
	if b.err != nil {
		return 0, b.err
	}
	return domain.ClampRating(rating), nil
}

func (b *stubBackend) RemoveTrack(context.Context, string, string, string) error {
	b.calls++
	return b.err
}

func (b *stubBackend) CreatePlaylist(context.Context, string, string) error {
	b.calls++
	return b.err
}

func (b *stubBackend) Upload(_ context.Context, _, _, filename string, _ io.Reader) (*domain.Track, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	locator := "/uploads/1-x.mp3"
	return &domain.Track{VideoID: "audio:1-x.mp3", Title: filename, Type: domain.TrackAudioFile, FilePath: &locator}, nil
}

var alice = domain.Session{PublicUser: domain.PublicUser{Username: "alice"}, Token: "tok"}

func startedCache(t *testing.T, backend *stubBackend) *SessionCache {
	t.Helper()
	cache := NewSessionCache(backend)
	require.NoError(t, cache.Start(context.Background(), alice))
	backend.calls = 0
	return cache
}

func TestSessionCache_Start(t *testing.T) {
	backend := &stubBackend{playlists: domain.Playlists{"Mix": {{VideoID: "v1", Title: "One"}}}}
	cache := NewSessionCache(backend)

	require.NoError(t, cache.Start(context.Background(), alice))
	assert.Equal(t, "tok", backend.token)
	assert.Equal(t, domain.FavoritesPlaylist, cache.Selected())
	assert.Equal(t, []string{domain.FavoritesPlaylist, "Mix"}, cache.PlaylistNames())

	session, ok := cache.Session()
	assert.True(t, ok)
	assert.Equal(t, "alice", session.Username)
}

func TestSessionCache_StartFailure(t *testing.T) {
	cache := NewSessionCache(&stubBackend{err: ErrNetwork})
	require.ErrorIs(t, cache.Start(context.Background(), alice), ErrNetwork)

	_, ok := cache.Session()
	assert.False(t, ok)
}

func TestSessionCache_RequiresLogin(t *testing.T) {
	cache := NewSessionCache(&stubBackend{})
	_, err := cache.AddTrack(context.Background(), "Mix", domain.Track{VideoID: "v1"})
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.ErrorIs(t, cache.Select("Mix"), ErrNotLoggedIn)
}

func TestSessionCache_AddTrackAppliesOnSuccess(t *testing.T) {
	backend := &stubBackend{}
	cache := startedCache(t, backend)

	added, err := cache.AddTrack(context.Background(), domain.FavoritesPlaylist, domain.Track{VideoID: "v1", Title: "One"})
	require.NoError(t, err)
	assert.Equal(t, domain.TrackExternalVideo, added.Type)
	assert.True(t, cache.InAnyPlaylist("v1"))
	assert.Len(t, cache.View(), 1)

	_, err = cache.AddTrack(context.Background(), "Other", domain.Track{VideoID: "v1"})
	assert.ErrorIs(t, err, ErrAlreadyInPlaylist)
	assert.Equal(t, 1, backend.calls, "duplicate must be refused without a request")
}

func TestSessionCache_FailedMutationLeavesMirror(t *testing.T) {
	backend := &stubBackend{playlists: domain.Playlists{domain.FavoritesPlaylist: {{VideoID: "v1", Title: "One", Rating: 2}}}}
	cache := startedCache(t, backend)
	backend.err = &ServerError{Status: 500, Code: "storage_io", Message: "storage failure"}

	_, err := cache.AddTrack(context.Background(), domain.FavoritesPlaylist, domain.Track{VideoID: "v2"})
	assert.ErrorIs(t, err, domain.ErrStorageIO)
	_, err = cache.UpdateRating(context.Background(), domain.FavoritesPlaylist, "v1", 5)
	assert.Error(t, err)
	assert.Error(t, cache.RemoveTrack(context.Background(), domain.FavoritesPlaylist, "v1"))
	assert.Error(t, cache.CreatePlaylist(context.Background(), "New"))

	view := cache.View()
	require.Len(t, view, 1)
	assert.Equal(t, 2, view[0].Rating)
	assert.False(t, cache.InAnyPlaylist("v2"))
	assert.NotContains(t, cache.PlaylistNames(), "New")
}

func TestSessionCache_RatingRemoveCreateUpload(t *testing.T) {
	backend := &stubBackend{playlists: domain.Playlists{domain.FavoritesPlaylist: {{VideoID: "v1", Title: "One"}}}}
	cache := startedCache(t, backend)
	ctx := context.Background()

	stored, err := cache.UpdateRating(ctx, domain.FavoritesPlaylist, "v1", 7)
	require.NoError(t, err)
	assert.Equal(t, 5, stored)
	assert.Equal(t, 5, cache.View()[0].Rating)

	require.NoError(t, cache.RemoveTrack(ctx, domain.FavoritesPlaylist, "v1"))
	require.NoError(t, cache.RemoveTrack(ctx, domain.FavoritesPlaylist, "v1"))
	assert.Empty(t, cache.View())

	require.NoError(t, cache.CreatePlaylist(ctx, "Road Trip"))
	require.NoError(t, cache.Select("Road Trip"))

	track, err := cache.Upload(ctx, "Road Trip", "song.mp3", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.TrackAudioFile, track.Type)
	assert.Len(t, cache.View(), 1)
}

func TestSessionCache_ViewFiltersAndSorts(t *testing.T) {
	backend := &stubBackend{playlists: domain.Playlists{domain.FavoritesPlaylist: sampleTracks()}}
	cache := startedCache(t, backend)

	cache.SortBy(SortTitle)
	assert.Equal(t, []string{"apple", "Banana", "Cherry"}, titles(cache.View()))

	cache.SortBy(SortRating)
	assert.Equal(t, []int{5, 2, 0}, ratings(cache.View()))

	cache.UpdateSearch("an")
	assert.Equal(t, []string{"Banana"}, titles(cache.View()))
	assert.Zero(t, backend.calls, "view must stay local")
}

func TestSessionCache_SelectUnknown(t *testing.T) {
	cache := startedCache(t, &stubBackend{})
	assert.ErrorIs(t, cache.Select("nope"), domain.ErrNotFound)
	assert.Equal(t, domain.FavoritesPlaylist, cache.Selected())
}

func TestSessionCache_Refresh(t *testing.T) {
	backend := &stubBackend{playlists: domain.Playlists{"Mix": nil}}
	cache := startedCache(t, backend)
	require.NoError(t, cache.Select("Mix"))

	backend.playlists = domain.Playlists{domain.FavoritesPlaylist: {{VideoID: "v9"}}}
	require.NoError(t, cache.Refresh(context.Background()))
	assert.Equal(t, domain.FavoritesPlaylist, cache.Selected())
	assert.True(t, cache.InAnyPlaylist("v9"))
}

func TestSessionCache_LogoutIgnoresTransportErrors(t *testing.T) {
	backend := &stubBackend{logoutErr: errors.New("connection refused")}
	cache := startedCache(t, backend)

	cache.Logout(context.Background())
	assert.Equal(t, 1, backend.logouts)
	assert.Empty(t, backend.token)

	_, ok := cache.Session()
	assert.False(t, ok)
	assert.Empty(t, cache.View())
	assert.False(t, cache.InAnyPlaylist("v1"))
}
