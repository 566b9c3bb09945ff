package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/hostbooks/host_books_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerRepo:   newPgxLedgerRepository(dbPool),
		PropertyRepo: newPgxPropertyRepository(dbPool),
	}
}
