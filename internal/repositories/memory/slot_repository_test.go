package memory_test

import (
	"context"
	"testing"

	"github.com/SscSPs/medisave/internal/apperrors"
	"github.com/SscSPs/medisave/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotRepository(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSlotRepository()

	_, err := repo.Read(ctx, "expenses")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	blob := []byte(`[1]`)
	require.NoError(t, repo.Write(ctx, "expenses", blob))
	blob[1] = '9' // caller's buffer must not alias the stored copy

	got, err := repo.Read(ctx, "expenses")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))
	assert.Equal(t, 1, repo.Writes())
}
