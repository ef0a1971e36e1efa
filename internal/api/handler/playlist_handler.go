package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TamarElitzur/youtubePlaylists/internal/api/metrics"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/ports"
)

// PlaylistHandler handles HTTP requests for playlist operations.
type PlaylistHandler struct {
	service ports.PlaylistService
}

func NewPlaylistHandler(service ports.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{service: service}
}

// List handles GET /api/playlists/:username.
//
// @Summary      List a user's playlists
// @Description  Returns playlist name to tracks. Favorites is always present.
// @Tags         playlists
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  map[string][]domain.Track
// @Failure      500       {object}  errorResponse
// @Router       /api/playlists/{username} [get]
func (h *PlaylistHandler) List(c echo.Context) error {
	username, err := usernameParam(c)
	if err != nil {
		return err
	}

	all, err := h.service.ListPlaylists(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, all)
}

// Add handles POST /api/playlists/:username/add.
//
// @Summary      Add a video to a playlist
// @Tags         playlists
// @Accept       json
// @Produce      json
// @Param        username  path      string           true  "Username"
// @Param        body      body      addTrackRequest  true  "Target playlist and video"
// @Success      201       {object}  trackResponse
// @Failure      400       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Router       /api/playlists/{username}/add [post]
func (h *PlaylistHandler) Add(c echo.Context) error {
	username, err := usernameParam(c)
	if err != nil {
		return err
	}
	var req addTrackRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	track, err := h.service.AddTrack(c.Request().Context(), username, req.PlaylistName, toTrackInput(req.Video))
	if err != nil {
		return err
	}

	metrics.TracksAddedTotal.WithLabelValues(string(track.Type)).Inc()
	return c.JSON(http.StatusCreated, trackResponse{Message: "Video added", PlaylistName: req.PlaylistName, Track: track})
}

// UpdateRating handles PUT /api/playlists/:username/rating.
//
// @Summary      Rate a track
// @Description  Non-numeric ratings become 0; others are truncated and clamped to 0..5.
// @Tags         playlists
// @Accept       json
// @Produce      json
// @Param        username  path      string               true  "Username"
// @Param        body      body      updateRatingRequest  true  "Track and rating"
// @Success      200       {object}  ratingResponse
// @Failure      400       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/playlists/{username}/rating [put]
func (h *PlaylistHandler) UpdateRating(c echo.Context) error {
	username, err := usernameParam(c)
	if err != nil {
		return err
	}
	var req updateRatingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	track, err := h.service.UpdateRating(c.Request().Context(), username, req.PlaylistName, req.VideoID, req.Rating)
	if err != nil {
		return err
	}

	metrics.RatingsUpdatedTotal.Inc()
	return c.JSON(http.StatusOK, ratingResponse{
		Message:      "Rating updated",
		PlaylistName: req.PlaylistName,
		VideoID:      req.VideoID,
		Rating:       track.Rating,
	})
}

// Remove handles DELETE /api/playlists/:username/remove. Removing a track
// that is not there succeeds.
//
// @Summary      Remove a track from a playlist
// @Tags         playlists
// @Accept       json
// @Produce      json
// @Param        username  path      string              true  "Username"
// @Param        body      body      removeTrackRequest  true  "Track to remove"
// @Success      200       {object}  removeResponse
// @Failure      400       {object}  errorResponse
// @Router       /api/playlists/{username}/remove [delete]
func (h *PlaylistHandler) Remove(c echo.Context) error {
	username, err := usernameParam(c)
	if err != nil {
		return err
	}
	var req removeTrackRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.RemoveTrack(c.Request().Context(), username, req.PlaylistName, req.VideoID); err != nil {
		return err
	}

	metrics.TracksRemovedTotal.Inc()
	return c.JSON(http.StatusOK, removeResponse{Message: "Video removed", PlaylistName: req.PlaylistName, VideoID: req.VideoID})
}

// Create handles POST /api/playlists/:username/create.
//
// @Summary      Create an empty playlist
// @Tags         playlists
// @Accept       json
// @Produce      json
// @Param        username  path      string                 true  "Username"
// @Param        body      body      createPlaylistRequest  true  "Playlist name"
// @Success      201       {object}  playlistCreatedResponse
// @Failure      400       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Router       /api/playlists/{username}/create [post]
func (h *PlaylistHandler) Create(c echo.Context) error {
	username, err := usernameParam(c)
	if err != nil {
		return err
	}
	var req createPlaylistRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.CreatePlaylist(c.Request().Context(), username, req.Name); err != nil {
		return err
	}

	metrics.PlaylistsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, playlistCreatedResponse{Message: "Playlist created", PlaylistName: req.Name})
}
