package file

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

const usersFile = "users.json"

// AccountRepository stores all accounts as a JSON array in users.json.
type AccountRepository struct {
	doc *jsonFile
}

func NewAccountRepository(dataDir string, log zerolog.Logger) (*AccountRepository, error) {
	doc, err := newJSONFile(filepath.Join(dataDir, usersFile), "[]", log)
	if err != nil {
		return nil, err
	}
	return &AccountRepository{doc: doc}, nil
}

func (r *AccountRepository) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.doc.mu.Lock()
	accounts, err := readJSON[[]domain.Account](r.doc)
	r.doc.mu.Unlock()
	if err != nil {
		r.doc.log.Error().Err(err).Msg("failed to read accounts")
		return nil, err
	}

	for i := range accounts {
		if accounts[i].Username == username {
			return &accounts[i], nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *AccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	accounts, err := readJSON[[]domain.Account](r.doc)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		if a.Username == account.Username {
			return domain.ErrDuplicateUsername
		}
	}

	return r.doc.writeJSON(append(accounts, *account))
}
