package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/medisave/internal/apperrors"
	portsrepo "github.com/SscSPs/medisave/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSlotRepository stores durable slots as rows of the durable_slots table.
type PgxSlotRepository struct {
	BaseRepository
}

// newPgxSlotRepository creates a new repository for durable slots.
func newPgxSlotRepository(pool *pgxpool.Pool) portsrepo.SlotRepositoryFacade {
	return &PgxSlotRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.SlotRepositoryFacade = (*PgxSlotRepository)(nil)

// Read returns the blob stored under key.
func (r *PgxSlotRepository) Read(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT blob FROM durable_slots WHERE slot_key = $1;`

	var blob []byte
	err := r.Pool.QueryRow(ctx, query, key).Scan(&blob)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("slot", key)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to read slot %s", key), err)
	}
	return blob, nil
}

// Write upserts the blob stored under key.
func (r *PgxSlotRepository) Write(ctx context.Context, key string, blob []byte) error {
	query := `
		INSERT INTO durable_slots (slot_key, blob, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (slot_key) DO UPDATE SET
			blob = EXCLUDED.blob,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := r.Pool.Exec(ctx, query, key, blob); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to write slot %s", key), err)
	}
	return nil
}
