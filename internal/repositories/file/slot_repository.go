// Package file stores durable slots as JSON files in a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/SscSPs/medisave/internal/apperrors"
	portsrepo "github.com/SscSPs/medisave/internal/core/ports/repositories"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// SlotRepository keeps each slot in <dir>/<key>.json. Writes go to a temp
// file that is renamed over the target so readers never see a torn blob.
type SlotRepository struct {
	dir string
	mu  sync.Mutex
}

var _ portsrepo.SlotRepositoryFacade = (*SlotRepository)(nil)

// NewSlotRepository creates dir if needed.
func NewSlotRepository(dir string) (*SlotRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create slot directory %s: %w", dir, err)
	}
	return &SlotRepository{dir: dir}, nil
}

// NewRepositoryProvider exposes repo through the provider struct.
func NewRepositoryProvider(repo *SlotRepository) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{SlotRepo: repo}
}

func (r *SlotRepository) path(key string) (string, error) {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return "", apperrors.NewValidationError("slot key", "may only contain letters, digits, '.', '_' and '-'")
	}
	return filepath.Join(r.dir, key+".json"), nil
}

// Read returns the blob stored under key.
func (r *SlotRepository) Read(ctx context.Context, key string) ([]byte, error) {
	p, err := r.path(key)
	if err != nil {
		return nil, err
	}
	blob, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewNotFoundError("slot", key)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to read slot %s", key), err)
	}
	return blob, nil
}

// Write replaces the blob stored under key.
func (r *SlotRepository) Write(ctx context.Context, key string, blob []byte) error {
	p, err := r.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tmp, err := os.CreateTemp(r.dir, key+".*.tmp")
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to create temp slot file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to write temp slot file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to sync temp slot file", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to close temp slot file", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to replace slot %s", key), err)
	}
	return nil
}
