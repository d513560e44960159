package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/SscSPs/medisave/internal/apperrors"
	portsrepo "github.com/SscSPs/medisave/internal/core/ports/repositories"
	_ "modernc.org/sqlite"
)

// SlotRepository stores durable slots in a SQLite file.
type SlotRepository struct {
	db *sql.DB
}

var _ portsrepo.SlotRepositoryFacade = (*SlotRepository)(nil)

// Open creates the parent directory, runs migrations and opens the database.
func Open(dbPath string) (*SlotRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}
	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	return &SlotRepository{db: db}, nil
}

// NewRepositoryProvider exposes repo through the provider struct.
func NewRepositoryProvider(repo *SlotRepository) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{SlotRepo: repo}
}

// Read returns the blob stored under key.
func (r *SlotRepository) Read(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := r.db.QueryRowContext(ctx, `SELECT blob FROM durable_slots WHERE slot_key = ?`, key).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("slot", key)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to read slot %s", key), err)
	}
	return blob, nil
}

// Write upserts the blob stored under key.
func (r *SlotRepository) Write(ctx context.Context, key string, blob []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO durable_slots (slot_key, blob, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(slot_key) DO UPDATE SET
			blob = excluded.blob,
			updated_at = excluded.updated_at`, key, blob)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to write slot %s", key), err)
	}
	return nil
}

// Close releases the database handle.
func (r *SlotRepository) Close() error {
	return r.db.Close()
}
