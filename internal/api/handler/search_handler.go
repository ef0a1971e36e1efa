package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/TamarElitzur/youtubePlaylists/internal/api/metrics"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/ports"
)

const defaultSearchMax = 10

// SearchHandler proxies video search so the provider key stays server-side.
type SearchHandler struct {
	provider ports.SearchProvider
}

func NewSearchHandler(provider ports.SearchProvider) *SearchHandler {
	return &SearchHandler{provider: provider}
}

// Search handles GET /api/search.
//
// @Summary      Search videos
// @Tags         search
// @Produce      json
// @Param        q    query     string  true   "Search terms"
// @Param        max  query     int     false  "Maximum results (default 10)"
// @Success      200  {object}  searchResponse
// @Failure      400  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/search [get]
func (h *SearchHandler) Search(c echo.Context) error {
	limit := defaultSearchMax
	if raw := c.QueryParam("max"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	items, err := h.provider.Search(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(domain.ErrorCode(err)).Inc()
		return err
	}
	if items == nil {
		items = []domain.SearchResult{}
	}

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, searchResponse{Items: items})
}
