package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/service"
	"github.com/TamarElitzur/youtubePlaylists/internal/infrastructure/db/file"
	"github.com/TamarElitzur/youtubePlaylists/internal/infrastructure/storage/local"
)

const testSecret = "router-test-secret"

type fixedSearch struct{}

func (fixedSearch) Search(_ context.Context, query string, _ int) ([]domain.SearchResult, error) {
	if query == "" {
		return nil, domain.ErrMissingField
	}
	return []domain.SearchResult{{VideoID: "abc", Title: query}}, nil
}

func newTestServer(t *testing.T, authRequired bool) *echo.Echo {
	t.Helper()
	dir := t.TempDir()
	log := zerolog.Nop()

	accounts, err := file.NewAccountRepository(dir, log)
	if err != nil {
		t.Fatalf("account repo: %v", err)
	}
	playlistRepo, err := file.NewPlaylistRepository(dir, log)
	if err != nil {
		t.Fatalf("playlist repo: %v", err)
	}
	blobs, err := local.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("blob storage: %v", err)
	}

	playlists := service.NewPlaylistService(playlistRepo, log)
	return NewRouter(Deps{
		Auth:           service.NewAuthService(accounts, service.AuthConfig{JWTSecret: testSecret, TokenTTL: time.Hour}, log),
		Playlists:      playlists,
		Uploads:        service.NewUploadService(blobs, playlists, 1024, log),
		Search:         fixedSearch{},
		JWTSecret:      testSecret,
		AuthRequired:   authRequired,
		UploadMaxBytes: 1024,
		Logger:         log,
	})
}

func do(t *testing.T, e *echo.Echo, method, target, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func register(t *testing.T, e *echo.Echo, username string) string {
	t.Helper()
	rec, _ := do(t, e, http.MethodPost, "/api/register",
		`{"username":"`+username+`","password":"p4ss!word","firstName":"F","imageUrl":"https://img/x.png"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", username, rec.Code, rec.Body.String())
	}
	rec, resp := do(t, e, http.MethodPost, "/api/login", `{"username":"`+username+`","password":"p4ss!word"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", username, rec.Code, rec.Body.String())
	}
	return resp["token"].(string)
}

func TestRouter_PlaylistLifecycle(t *testing.T) {
	e := newTestServer(t, false)
	register(t, e, "alice")

	rec, resp := do(t, e, http.MethodGet, "/api/playlists/alice", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d", rec.Code)
	}
	if favs, ok := resp[domain.FavoritesPlaylist].([]any); !ok || len(favs) != 0 {
		t.Fatalf("expected empty Favorites, got %s", rec.Body.String())
	}

	add := `{"playlistName":"Favorites","video":{"videoId":"v1","title":"One","thumbnail":"t"}}`
	if rec, _ := do(t, e, http.MethodPost, "/api/playlists/alice/add", add, ""); rec.Code != http.StatusCreated {
		t.Fatalf("add: %d %s", rec.Code, rec.Body.String())
	}
	rec, resp = do(t, e, http.MethodPost, "/api/playlists/alice/add", add, "")
	if rec.Code != http.StatusConflict || resp["code"] != "conflict" {
		t.Fatalf("duplicate add: %d %s", rec.Code, rec.Body.String())
	}

	rec, resp = do(t, e, http.MethodPut, "/api/playlists/alice/rating", `{"playlistName":"Favorites","videoId":"v1","rating":4}`, "")
	if rec.Code != http.StatusOK || resp["rating"] != float64(4) {
		t.Fatalf("rating: %d %s", rec.Code, rec.Body.String())
	}
	rec, resp = do(t, e, http.MethodPut, "/api/playlists/alice/rating", `{"playlistName":"Favorites","videoId":"nope","rating":4}`, "")
	if rec.Code != http.StatusNotFound || resp["code"] != "not_found" {
		t.Fatalf("rating missing track: %d %s", rec.Code, rec.Body.String())
	}

	for i := 0; i < 2; i++ {
		rec, _ = do(t, e, http.MethodDelete, "/api/playlists/alice/remove", `{"playlistName":"Favorites","videoId":"v1"}`, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("remove #%d: %d %s", i+1, rec.Code, rec.Body.String())
		}
	}

	if rec, _ := do(t, e, http.MethodPost, "/api/playlists/alice/create", `{"name":"Road Trip"}`, ""); rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	rec, resp = do(t, e, http.MethodGet, "/api/playlists/alice", "", "")
	if _, ok := resp["Road Trip"]; !ok || len(resp[domain.FavoritesPlaylist].([]any)) != 0 {
		t.Fatalf("unexpected collection: %s", rec.Body.String())
	}
}

func TestRouter_AuthErrors(t *testing.T) {
	e := newTestServer(t, false)
	register(t, e, "alice")

	rec, resp := do(t, e, http.MethodPost, "/api/register",
		`{"username":"alice","password":"x","firstName":"F","imageUrl":"u"}`, "")
	if rec.Code != http.StatusConflict || resp["error"] != "Username already exists. Please choose another one." {
		t.Fatalf("duplicate register: %d %s", rec.Code, rec.Body.String())
	}

	rec, resp = do(t, e, http.MethodPost, "/api/login", `{"username":"alice","password":"wrong"}`, "")
	if rec.Code != http.StatusUnauthorized || resp["code"] != "invalid_password" {
		t.Fatalf("wrong password: %d %s", rec.Code, rec.Body.String())
	}

	rec, resp = do(t, e, http.MethodPost, "/api/login", `{"username":"ghost","password":"x"}`, "")
	if rec.Code != http.StatusNotFound || resp["code"] != "user_not_found" {
		t.Fatalf("unknown user: %d %s", rec.Code, rec.Body.String())
	}

	rec, resp = do(t, e, http.MethodPost, "/api/register", `{"username":"bob"}`, "")
	if rec.Code != http.StatusBadRequest || resp["code"] != "missing_field" {
		t.Fatalf("missing fields: %d %s", rec.Code, rec.Body.String())
	}

	if rec, _ := do(t, e, http.MethodPost, "/api/logout", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("logout: %d", rec.Code)
	}
}

func TestRouter_AuthRequired(t *testing.T) {
	e := newTestServer(t, true)
	aliceToken := register(t, e, "alice")
	bobToken := register(t, e, "bob")

	rec, resp := do(t, e, http.MethodGet, "/api/playlists/alice", "", "")
	if rec.Code != http.StatusUnauthorized || resp["code"] != "invalid_token" {
		t.Fatalf("no token: %d %s", rec.Code, rec.Body.String())
	}

	rec, resp = do(t, e, http.MethodGet, "/api/playlists/alice", "", bobToken)
	if rec.Code != http.StatusForbidden || resp["code"] != "forbidden" {
		t.Fatalf("foreign token: %d %s", rec.Code, rec.Body.String())
	}

	if rec, _ := do(t, e, http.MethodGet, "/api/playlists/alice", "", aliceToken); rec.Code != http.StatusOK {
		t.Fatalf("own token: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_UploadAndServe(t *testing.T) {
	e := newTestServer(t, false)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("playlistName", "Favorites")
	part, _ := w.CreateFormFile("file", "My Song.mp3")
	_, _ = part.Write([]byte("ID3-audio"))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/playlists/alice/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Track domain.Track `json:"track"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Track.Type != domain.TrackAudioFile || resp.Track.Title != "My Song" || resp.Track.FilePath == nil {
		t.Fatalf("unexpected track: %+v", resp.Track)
	}

	rec, _ = do(t, e, http.MethodGet, *resp.Track.FilePath, "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ID3-audio" {
		t.Fatalf("serve: %d %q", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(echo.HeaderContentType); got != "audio/mpeg" {
		t.Fatalf("unexpected content type %q", got)
	}

	rec, resp2 := do(t, e, http.MethodGet, "/uploads/missing.mp3", "", "")
	if rec.Code != http.StatusNotFound || resp2["code"] != "not_found" {
		t.Fatalf("missing upload: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_UploadRejectsUnsupportedFormat(t *testing.T) {
	e := newTestServer(t, false)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("playlistName", "Favorites")
	part, _ := w.CreateFormFile("file", "clip.mp4")
	_, _ = part.Write([]byte("x"))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/playlists/alice/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "unsupported_format") {
		t.Fatalf("expected 400 unsupported_format, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_SearchAndOps(t *testing.T) {
	e := newTestServer(t, false)

	rec, resp := do(t, e, http.MethodGet, "/api/search?q=lofi", "", "")
	if rec.Code != http.StatusOK || len(resp["items"].([]any)) != 1 {
		t.Fatalf("search: %d %s", rec.Code, rec.Body.String())
	}
	if rec, _ := do(t, e, http.MethodGet, "/api/search", "", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty search: %d", rec.Code)
	}

	for _, path := range []string{"/health", "/health/ready", "/metrics"} {
		if rec, _ := do(t, e, http.MethodGet, path, "", ""); rec.Code != http.StatusOK {
			t.Fatalf("%s: %d", path, rec.Code)
		}
	}

	rec, _ = do(t, e, http.MethodGet, "/metrics", "", "")
	if !strings.Contains(rec.Body.String(), "playlists_requests_total") {
		t.Fatalf("expected per-route request counter on /metrics")
	}

	rec, resp = do(t, e, http.MethodGet, "/no/such/route", "", "")
	if rec.Code != http.StatusNotFound || resp["code"] != "not_found" {
		t.Fatalf("unknown route: %d %s", rec.Code, rec.Body.String())
	}
}
