// Package file keeps accounts and playlists in JSON documents on local disk.
// Each document is guarded by its own mutex and replaced atomically through a
// temp file and rename, so readers never observe a torn write.
package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

type jsonFile struct {
	path   string
	mu     sync.Mutex
	log    zerolog.Logger
	now    func() time.Time
	rename func(oldpath, newpath string) error
}

func newJSONFile(path string, empty string, log zerolog.Logger) (*jsonFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", domain.ErrStorageIO, err)
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(path, []byte(empty), 0o644); err != nil {
			return nil, fmt.Errorf("%w: create %s: %v", domain.ErrStorageIO, path, err)
		}
	}
	return &jsonFile{path: path, log: log, now: time.Now, rename: os.Rename}, nil
}

// readJSON decodes the document. A missing or blank file yields the zero
// value. A document that does not parse is moved aside and also yields the
// zero value, so the next write starts clean without destroying it. If it
// cannot be moved aside the read fails instead.
// The caller must hold f.mu.
func readJSON[T any](f *jsonFile) (T, error) {
	var zero T
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return zero, nil
	}
	if err != nil {
		return zero, fmt.Errorf("%w: read %s: %v", domain.ErrStorageIO, f.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return zero, nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		if qerr := f.quarantine(err); qerr != nil {
			return zero, qerr
		}
		return zero, nil
	}
	return v, nil
}

func (f *jsonFile) quarantine(cause error) error {
	dst := fmt.Sprintf("%s.corrupt-%d", f.path, f.now().Unix())
	if err := f.rename(f.path, dst); err != nil {
		f.log.Error().Err(err).AnErr("cause", cause).Str("path", f.path).Msg("failed to move unreadable document aside")
		return fmt.Errorf("%w: %s does not parse and could not be moved aside: %v", domain.ErrStorageIO, f.path, err)
	}
	f.log.Error().Err(cause).Str("path", f.path).Str("moved_to", dst).Msg("unreadable document moved aside")
	return nil
}

// writeJSON replaces the document with v. The caller must hold f.mu.
func (f *jsonFile) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(f.path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageIO, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorageIO, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", domain.ErrStorageIO, tmpName, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("%w: replace %s: %v", domain.ErrStorageIO, f.path, err)
	}
	return nil
}
