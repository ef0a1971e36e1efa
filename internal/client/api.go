// Package client is the Go client for the playlists server: a thin HTTP API
// wrapper plus the session cache the CLI drives.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

// DefaultBaseURL is where the server listens by default.
const DefaultBaseURL = "http://localhost:3000"

// ErrNetwork wraps every failure to reach the server or read its answer.
var ErrNetwork = errors.New("network error")

// ServerError is a non-2xx answer. It unwraps to the domain error named by
// Code, so errors.Is(err, domain.ErrConflict) works across the wire.
type ServerError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server responded %d: %s", e.Status, e.Message)
}

func (e *ServerError) Unwrap() error {
	return domain.ErrorForCode(e.Code)
}

// API calls the playlists HTTP API.
type API struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewAPI creates a client for baseURL. A nil client gets a 30s timeout.
func NewAPI(baseURL string, client *http.Client) *API {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// SetToken sets the bearer token sent with every request. Empty clears it.
func (a *API) SetToken(token string) {
	a.token = token
}

type messageResponse struct {
	Message string `json:"message"`
}

func (a *API) Register(ctx context.Context, username, password, firstName, imageURL string) (*domain.PublicUser, error) {
	var resp struct {
		User domain.PublicUser `json:"user"`
	}
	err := a.doJSON(ctx, http.MethodPost, "/api/register", map[string]string{
		"username":  username,
		"password":  password,
		"firstName": firstName,
		"imageUrl":  imageURL,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (a *API) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	var resp struct {
		User  domain.PublicUser `json:"user"`
		Token string            `json:"token"`
	}
	err := a.doJSON(ctx, http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &domain.Session{PublicUser: resp.User, Token: resp.Token}, nil
}

func (a *API) Logout(ctx context.Context) error {
	return a.doJSON(ctx, http.MethodPost, "/api/logout", nil, &messageResponse{})
}

func (a *API) Playlists(ctx context.Context, username string) (domain.Playlists, error) {
	var all domain.Playlists
	if err := a.doJSON(ctx, http.MethodGet, playlistsPath(username, ""), nil, &all); err != nil {
		return nil, err
	}
	return all, nil
}

type trackResponse struct {
	PlaylistName string       `json:"playlistName"`
	Track        domain.Track `json:"track"`
}

func (a *API) AddTrack(ctx context.Context, username, playlistName string, track domain.Track) (*domain.Track, error) {
	var resp trackResponse
	err := a.doJSON(ctx, http.MethodPost, playlistsPath(username, "add"), map[string]any{
		"playlistName": playlistName,
		"video":        track,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Track, nil
}

// UpdateRating returns the rating the server stored.
func (a *API) UpdateRating(ctx context.Context, username, playlistName, videoID string, rating int) (int, error) {
	var resp struct {
		Rating int `json:"rating"`
	}
	err := a.doJSON(ctx, http.MethodPut, playlistsPath(username, "rating"), map[string]any{
		"playlistName": playlistName,
		"videoId":      videoID,
		"rating":       rating,
	}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Rating, nil
}

func (a *API) RemoveTrack(ctx context.Context, username, playlistName, videoID string) error {
	return a.doJSON(ctx, http.MethodDelete, playlistsPath(username, "remove"), map[string]string{
		"playlistName": playlistName,
		"videoId":      videoID,
	}, &messageResponse{})
}

func (a *API) CreatePlaylist(ctx context.Context, username, name string) error {
	return a.doJSON(ctx, http.MethodPost, playlistsPath(username, "create"), map[string]string{
		"name": name,
	}, &messageResponse{})
}

// Upload streams an audio file to the server as multipart/form-data.
func (a *API) Upload(ctx context.Context, username, playlistName, filename string, body io.Reader) (*domain.Track, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		err := func() error {
			if err := form.WriteField("playlistName", playlistName); err != nil {
				return err
			}
			part, err := form.CreateFormFile("file", filename)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, body); err != nil {
				return err
			}
			return form.Close()
		}()
		pw.CloseWithError(err)
	}()

	req, err := a.newRequest(ctx, http.MethodPost, playlistsPath(username, "upload"), pr)
	if err != nil {
		pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var resp trackResponse
	if err := a.do(req, &resp); err != nil {
		pr.Close()
		return nil, err
	}
	return &resp.Track, nil
}

func (a *API) Search(ctx context.Context, query string, max int) ([]domain.SearchResult, error) {
	params := url.Values{"q": {query}}
	if max > 0 {
		params.Set("max", strconv.Itoa(max))
	}
	var resp struct {
		Items []domain.SearchResult `json:"items"`
	}
	if err := a.doJSON(ctx, http.MethodGet, "/api/search?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func playlistsPath(username, action string) string {
	p := "/api/playlists/" + url.PathEscape(username)
	if action != "" {
		p += "/" + action
	}
	return p
}

func (a *API) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := a.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.do(req, out)
}

func (a *API) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	return req, nil
}

func (a *API) do(req *http.Request, out any) error {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serverErr := &ServerError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
			serverErr.Message = envelope.Error
			serverErr.Code = envelope.Code
		}
		return serverErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", ErrNetwork, err)
	}
	return nil
}
