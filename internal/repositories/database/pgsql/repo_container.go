package pgsql

import (
	portsrepo "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		StudentRepo:       newPgxStudentRepository(dbPool),
		CreditRequestRepo: newPgxCreditRequestRepository(dbPool),
		LedgerEntryRepo:   newPgxLedgerEntryRepository(dbPool),
	}
}
