package pgsql

import (
	"context"
	"errors"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
	portsrepo "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/repositories"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/models"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxLedgerEntryRepository struct {
	BaseRepository
}

func newPgxLedgerEntryRepository(pool *pgxpool.Pool) *PgxLedgerEntryRepository {
	return &PgxLedgerEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerEntryRepositoryFacade = (*PgxLedgerEntryRepository)(nil)

const ledgerEntryColumns = `
	entry_id, credit_request_id, student_id, student_prn, student_name, student_email,
	course_name, platform, credits, source_type, confirmation_id, created_at, created_by`

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanLedgerEntry(row pgx.Row) (*domain.AcademicLedgerEntry, error) {
	var m models.AcademicLedgerEntry
	err := row.Scan(&m.EntryID, &m.CreditRequestID, &m.StudentID, &m.StudentPRN, &m.StudentName, &m.StudentEmail,
		&m.CourseName, &m.Platform, &m.Credits, &m.SourceType, &m.ConfirmationID, &m.CreatedAt, &m.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	d := mapping.ToDomainLedgerEntry(m)
	return &d, nil
}

func findEntryByCreditRequest(ctx context.Context, q querier, creditRequestID string) (*domain.AcademicLedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM academic_ledger_entries WHERE credit_request_id = $1;`
	return scanLedgerEntry(q.QueryRow(ctx, query, creditRequestID))
}

func (r *PgxLedgerEntryRepository) queryEntries(ctx context.Context, what string, query string, args ...any) ([]domain.AcademicLedgerEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger entries "+what, err)
	}
	defer rows.Close()

	out := make([]domain.AcademicLedgerEntry, 0)
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry "+what, err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate ledger entries "+what, err)
	}
	return out, nil
}

func (r *PgxLedgerEntryRepository) FindEntriesByStudent(ctx context.Context, studentID string) ([]domain.AcademicLedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + `
		FROM academic_ledger_entries
		WHERE student_id = $1
		ORDER BY created_at DESC, entry_id DESC;`
	return r.queryEntries(ctx, "for student "+studentID, query, studentID)
}

func (r *PgxLedgerEntryRepository) FindEntriesByPRN(ctx context.Context, prn string) ([]domain.AcademicLedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + `
		FROM academic_ledger_entries
		WHERE student_prn = $1
		ORDER BY created_at DESC, entry_id DESC;`
	return r.queryEntries(ctx, "for prn", query, prn)
}

func (r *PgxLedgerEntryRepository) ListEntries(ctx context.Context, limit, offset int) ([]domain.AcademicLedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + `
		FROM academic_ledger_entries
		ORDER BY created_at DESC, entry_id DESC
		LIMIT $1 OFFSET $2;`
	return r.queryEntries(ctx, "page", query, limit, offset)
}

func (r *PgxLedgerEntryRepository) FindEntryByCreditRequest(ctx context.Context, creditRequestID string) (*domain.AcademicLedgerEntry, error) {
	e, err := findEntryByCreditRequest(ctx, r.Pool, creditRequestID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewAppError(500, "failed to find ledger entry for "+creditRequestID, err)
	}
	return e, err
}

func (r *PgxLedgerEntryRepository) SumCreditsByStudent(ctx context.Context, studentID string) (int, error) {
	var total int
	err := r.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(credits), 0) FROM academic_ledger_entries WHERE student_id = $1;`, studentID,
	).Scan(&total)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to sum credits for student "+studentID, err)
	}
	return total, nil
}
