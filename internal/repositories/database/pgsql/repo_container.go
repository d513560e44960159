package pgsql

import (
	portsrepo "github.com/SscSPs/medisave/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		SlotRepo: newPgxSlotRepository(dbPool),
	}
}
