package ports

import (
	"context"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

// AccountRepository is the credential store.
type AccountRepository interface {
	// FindByUsername returns domain.ErrUserNotFound when no account matches.
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	// Create returns domain.ErrDuplicateUsername when the username is taken.
	Create(ctx context.Context, account *domain.Account) error
}
