package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TamarElitzur/youtubePlaylists/internal/api/metrics"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/ports"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/service"
)

// UploadHandler accepts audio files and serves them back.
type UploadHandler struct {
	service ports.UploadService
}

func NewUploadHandler(service ports.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload handles POST /api/playlists/:username/upload.
//
// @Summary      Upload an audio file into a playlist
// @Description  Accepts mp3, wav, ogg, m4a, aac and flac files.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        username      path      string  true  "Username"
// @Param        playlistName  formData  string  true  "Target playlist"
// @Param        file          formData  file    true  "Audio file"
// @Success      201           {object}  trackResponse
// @Failure      400           {object}  errorResponse
// @Failure      409           {object}  errorResponse
// @Failure      413           {object}  errorResponse
// @Router       /api/playlists/{username}/upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	track, playlistName, err := h.store(c)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(domain.ErrorCode(err)).Inc()
		return err
	}

	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	metrics.TracksAddedTotal.WithLabelValues(string(track.Type)).Inc()
	return c.JSON(http.StatusCreated, trackResponse{Message: "Audio uploaded", PlaylistName: playlistName, Track: track})
}

func (h *UploadHandler) store(c echo.Context) (*domain.Track, string, error) {
	username, err := usernameParam(c)
	if err != nil {
		return nil, "", err
	}
	playlistName := c.FormValue("playlistName")
	if playlistName == "" {
		return nil, "", fmt.Errorf("%w: playlistName is required", domain.ErrMissingField)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			return nil, playlistName, fmt.Errorf("%w: request body too large", domain.ErrPayloadTooLarge)
		}
		return nil, playlistName, fmt.Errorf("%w: file is required", domain.ErrMissingField)
	}
	file, err := fh.Open()
	if err != nil {
		return nil, playlistName, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	track, err := h.service.Store(c.Request().Context(), ports.UploadInput{
		Username:     username,
		PlaylistName: playlistName,
		Filename:     fh.Filename,
		Size:         fh.Size,
		Body:         file,
	})
	if err != nil {
		return nil, playlistName, err
	}
	metrics.UploadBytes.Observe(float64(fh.Size))
	return track, playlistName, nil
}

// Serve handles GET /uploads/:name.
//
// @Summary      Download an uploaded audio file
// @Tags         uploads
// @Produce      octet-stream
// @Param        name  path  string  true  "Storage name"
// @Success      200
// @Failure      404   {object}  errorResponse
// @Router       /uploads/{name} [get]
func (h *UploadHandler) Serve(c echo.Context) error {
	name := c.Param("name")
	body, err := h.service.Open(c.Request().Context(), name)
	if err != nil {
		return err
	}
	defer body.Close()

	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=86400")
	return c.Stream(http.StatusOK, service.ContentTypeFor(name), body)
}
