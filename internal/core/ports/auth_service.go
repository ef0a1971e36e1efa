package ports

import (
	"context"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password, firstName, imageURL string) (*domain.PublicUser, error)
	Login(ctx context.Context, username, password string) (*domain.Session, error)
}
