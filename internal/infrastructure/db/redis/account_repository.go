package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

const accountsKey = "accounts"

// AccountRepository keeps accounts in a single hash: username -> JSON account.
type AccountRepository struct {
	client *redis.Client
}

func NewAccountRepository(client *redis.Client) *AccountRepository {
	return &AccountRepository{client: client}
}

// Create relies on HSETNX so concurrent registrations of one name cannot both
// succeed.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}

	ok, err := r.client.HSetNX(ctx, accountsKey, account.Username, data).Result()
	if err != nil {
		return fmt.Errorf("%w: create account: %v", domain.ErrStorageIO, err)
	}
	if !ok {
		return domain.ErrDuplicateUsername
	}
	return nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	data, err := r.client.HGet(ctx, accountsKey, username).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find account: %v", domain.ErrStorageIO, err)
	}

	var a domain.Account
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: decode account %q: %v", domain.ErrStorageIO, username, err)
	}
	return &a, nil
}
