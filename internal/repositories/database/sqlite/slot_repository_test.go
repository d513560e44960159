package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/SscSPs/medisave/internal/apperrors"
	"github.com/SscSPs/medisave/internal/repositories/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "medisave.db")

	repo, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	_, err = repo.Read(ctx, "expenses")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, repo.Write(ctx, "expenses", []byte(`[1]`)))
	require.NoError(t, repo.Write(ctx, "expenses", []byte(`[1,2]`)))

	blob, err := repo.Read(ctx, "expenses")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(blob))
}

func TestSlotRepository_ReopenRunsMigrationsOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "medisave.db")

	repo, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, repo.Write(ctx, "k", []byte("v")))
	require.NoError(t, repo.Close())

	reopened, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	blob, err := reopened.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(blob))
}
