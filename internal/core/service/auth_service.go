package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/ports"
)

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	// InsecurePlaintext stores new passwords as cleartext and accepts stored
	// cleartext on login. Only for legacy users.json files.
	InsecurePlaintext bool
}

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.AccountRepository
	cfg    AuthConfig
	logger zerolog.Logger
}

func NewAuthService(repo ports.AccountRepository, cfg AuthConfig, logger zerolog.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, cfg: cfg, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, username, password, firstName, imageURL string) (*domain.PublicUser, error) {
	if username == "" || password == "" || firstName == "" || imageURL == "" {
		return nil, domain.ErrMissingField
	}

	stored := password
	if !s.cfg.InsecurePlaintext {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		stored = string(hash)
	}

	account := &domain.Account{
		Username:  username,
		Password:  stored,
		FirstName: firstName,
		ImageURL:  imageURL,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if !errors.Is(err, domain.ErrDuplicateUsername) {
			s.logger.Error().Err(err).Str("username", username).Msg("failed to create account")
		}
		return nil, err
	}

	s.logger.Info().Str("username", username).Msg("account registered")
	public := account.Public()
	return &public, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if username == "" || password == "" {
		return nil, domain.ErrMissingField
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if !s.passwordMatches(account, password) {
		return nil, domain.ErrInvalidPassword
	}

	token, err := s.generateToken(account.Username)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &domain.Session{PublicUser: account.Public(), Token: token}, nil
}

func (s *AuthService) passwordMatches(account *domain.Account, password string) bool {
	if isBcryptHash(account.Password) {
		return bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)) == nil
	}
	if !s.cfg.InsecurePlaintext {
		s.logger.Warn().Str("username", account.Username).Msg("stored password is not hashed; enable insecure plaintext mode to accept it")
		return false
	}
	return subtle.ConstantTimeCompare([]byte(account.Password), []byte(password)) == 1
}

func isBcryptHash(v string) bool {
	if len(v) != 60 {
		return false
	}
	return strings.HasPrefix(v, "$2a$") || strings.HasPrefix(v, "$2b$") || strings.HasPrefix(v, "$2y$")
}

func (s *AuthService) generateToken(username string) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"exp":      time.Now().Add(s.cfg.TokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}
