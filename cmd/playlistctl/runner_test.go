package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/TamarElitzur/youtubePlaylists/internal/api"
	"github.com/TamarElitzur/youtubePlaylists/internal/client"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/service"
	"github.com/TamarElitzur/youtubePlaylists/internal/infrastructure/db/file"
	"github.com/TamarElitzur/youtubePlaylists/internal/infrastructure/storage/local"
)

type noSearch struct{}

func (noSearch) Search(context.Context, string, int) ([]domain.SearchResult, error) {
	return []domain.SearchResult{{VideoID: "v1", Title: "Found", DurationText: "4:05", ViewsText: "1K views"}}, nil
}

func newTestAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zerolog.Nop()
	dir := t.TempDir()

	accounts, err := file.NewAccountRepository(dir, log)
	require.NoError(t, err)
	playlistRepo, err := file.NewPlaylistRepository(dir, log)
	require.NoError(t, err)
	blobs, err := local.NewStorage(t.TempDir())
	require.NoError(t, err)

	playlists := service.NewPlaylistService(playlistRepo, log)
	e := api.NewRouter(api.Deps{
		Auth:      service.NewAuthService(accounts, service.AuthConfig{JWTSecret: "s", TokenTTL: time.Hour}, log),
		Playlists: playlists,
		Uploads:   service.NewUploadService(blobs, playlists, 0, log),
		Search:    noSearch{},
		Logger:    log,
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

type cliHarness struct {
	out         *bytes.Buffer
	sessionPath string
	config      *Config
}

func newHarness(t *testing.T) *cliHarness {
	srv := newTestAPIServer(t)
	sessionPath := filepath.Join(t.TempDir(), "session.json")
	cfg := DefaultConfig()
	cfg.Server.URL = srv.URL
	cfg.Session.Path = sessionPath
	return &cliHarness{out: &bytes.Buffer{}, sessionPath: sessionPath, config: cfg}
}

func (h *cliHarness) run(t *testing.T, args ...string) error {
	t.Helper()
	h.out.Reset()
	runner := NewRunner(RunnerOpts{Config: h.config, Logger: zerolog.Nop(), Output: h.out})
	app := &cli.Command{
		Name:     "playlistctl",
		Flags:    []cli.Flag{configFlag()},
		Commands: runner.register(),
	}
	return app.Run(context.Background(), append([]string{"playlistctl"}, args...))
}

func TestCLI_EndToEnd(t *testing.T) {
	h := newHarness(t)

	err := h.run(t, "register", "-u", "alice", "--password", "abc12!", "--confirm", "abc12!", "--first-name", "Alice", "--image-url", "https://img/a.png")
	require.NoError(t, err)
	assert.Contains(t, h.out.String(), "Registration successful")

	require.NoError(t, h.run(t, "login", "-u", "alice", "--password", "abc12!"))
	assert.Contains(t, h.out.String(), "Welcome, Alice!")
	_, err = os.Stat(h.sessionPath)
	require.NoError(t, err)

	require.NoError(t, h.run(t, "add", "--video-id", "v1", "--title", "Banana"))
	require.NoError(t, h.run(t, "add", "--video-id", "v2", "--title", "apple"))
	require.ErrorIs(t, h.run(t, "add", "--video-id", "v1", "--title", "again"), client.ErrAlreadyInPlaylist)

	require.NoError(t, h.run(t, "rate", "--video-id", "v1", "--rating", "4"))
	assert.Contains(t, h.out.String(), "★★★★☆")

	require.NoError(t, h.run(t, "show", "--sort", "title"))
	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "apple")
	assert.Contains(t, lines[2], "Banana")

	require.NoError(t, h.run(t, "create", "Road Trip"))
	require.NoError(t, h.run(t, "playlists"))
	assert.Equal(t, "Favorites (2)\nRoad Trip (0)\n", h.out.String())

	require.NoError(t, h.run(t, "remove", "--video-id", "v2"))
	require.NoError(t, h.run(t, "show", "--json"))
	assert.NotContains(t, h.out.String(), `"v2"`)

	require.NoError(t, h.run(t, "search", "lofi"))
	assert.Contains(t, h.out.String(), "Found")
	assert.Contains(t, h.out.String(), "yes")

	require.NoError(t, h.run(t, "logout"))
	require.ErrorIs(t, h.run(t, "whoami"), client.ErrNotLoggedIn)
}

func TestCLI_RegisterRejectsWeakPassword(t *testing.T) {
	h := newHarness(t)
	err := h.run(t, "register", "-u", "bob", "--password", "abc", "--confirm", "abc", "--first-name", "Bob", "--image-url", "u")
	assert.ErrorIs(t, err, client.ErrWeakPassword)
}

func TestCLI_UploadAudio(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "register", "-u", "alice", "--password", "abc12!", "--confirm", "abc12!", "--first-name", "Alice", "--image-url", "u"))
	require.NoError(t, h.run(t, "login", "-u", "alice", "--password", "abc12!"))

	path := filepath.Join(t.TempDir(), "My Song.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3"), 0o600))

	require.NoError(t, h.run(t, "upload", path))
	assert.Contains(t, h.out.String(), "Audio uploaded: My Song")

	require.NoError(t, h.run(t, "show"))
	assert.Contains(t, h.out.String(), "audio")
}

func TestCLI_PlaylistCommandsNeedLogin(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.run(t, "playlists"), client.ErrNotLoggedIn)
}

func TestConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:3000", cfg.Server.URL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.True(t, strings.HasSuffix(cfg.SessionPath(), filepath.Join("playlistctl", "session.json")))

	path := filepath.Join(t.TempDir(), "playlistctl.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nurl = \"http://example.com\"\ntimeout = \"5s\"\n"), 0o600))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", loaded.Server.URL)
	assert.Equal(t, 5*time.Second, loaded.RequestTimeout())

	require.Error(t, WriteExampleConfig(path))
	fresh := filepath.Join(t.TempDir(), "new.toml")
	require.NoError(t, WriteExampleConfig(fresh))
}
