package ports

import (
	"context"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

// SearchProvider is the external video catalog.
type SearchProvider interface {
	Search(ctx context.Context, query string, max int) ([]domain.SearchResult, error)
}
