package handler

import "github.com/TamarElitzur/youtubePlaylists/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Username  string `json:"username"  validate:"required"`
	Password  string `json:"password"  validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	ImageURL  string `json:"imageUrl"  validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	Message string             `json:"message"`
	User    *domain.PublicUser `json:"user"`
}

type loginResponse struct {
	Message string            `json:"message"`
	User    domain.PublicUser `json:"user"`
	Token   string            `json:"token"`
}

// --- Playlists ---

type videoRequest struct {
	VideoID   string  `json:"videoId"   validate:"required"`
	Title     string  `json:"title"`
	Thumbnail string  `json:"thumbnail"`
	Rating    any     `json:"rating"    swaggertype:"number"`
	Type      string  `json:"type"`
	FilePath  *string `json:"filePath"`
}

type addTrackRequest struct {
	PlaylistName string        `json:"playlistName" validate:"required"`
	Video        *videoRequest `json:"video"        validate:"required"`
}

type updateRatingRequest struct {
	PlaylistName string `json:"playlistName" validate:"required"`
	VideoID      string `json:"videoId"      validate:"required"`
	Rating       any    `json:"rating"       swaggertype:"number"`
}

type removeTrackRequest struct {
	PlaylistName string `json:"playlistName" validate:"required"`
	VideoID      string `json:"videoId"      validate:"required"`
}

type createPlaylistRequest struct {
	Name string `json:"name" validate:"required"`
}

type trackResponse struct {
	Message      string        `json:"message"`
	PlaylistName string        `json:"playlistName"`
	Track        *domain.Track `json:"track"`
}

type ratingResponse struct {
	Message      string `json:"message"`
	PlaylistName string `json:"playlistName"`
	VideoID      string `json:"videoId"`
	Rating       int    `json:"rating"`
}

type removeResponse struct {
	Message      string `json:"message"`
	PlaylistName string `json:"playlistName"`
	VideoID      string `json:"videoId"`
}

type playlistCreatedResponse struct {
	Message      string `json:"message"`
	PlaylistName string `json:"playlistName"`
}

// --- Search ---

type searchResponse struct {
	Items []domain.SearchResult `json:"items"`
}
