package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
	portsrepo "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/repositories"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/models"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/utils/mapping"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCreditRequestRepository struct {
	BaseRepository
}

func newPgxCreditRequestRepository(pool *pgxpool.Pool) portsrepo.CreditRequestRepositoryWithTx {
	return &PgxCreditRequestRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxCreditRequestRepository implements portsrepo.CreditRequestRepositoryWithTx
var _ portsrepo.CreditRequestRepositoryWithTx = (*PgxCreditRequestRepository)(nil)

const creditRequestColumns = `
	credit_request_id, student_id, student_name, student_email, student_prn,
	course_name, platform, duration, credits, credit_type, valuation_version,
	evidence_locator, status, reject_reason, approval_started_at,
	created_at, created_by, last_updated_at, last_updated_by, version`

// nonTerminal is the SQL guard that makes every status update a compare-and-swap.
const nonTerminal = `status IN ('PENDING', 'REQUESTED')`

func scanCreditRequest(row pgx.Row) (*domain.CreditRequest, error) {
	var m models.CreditRequest
	err := row.Scan(
		&m.CreditRequestID, &m.StudentID, &m.StudentName, &m.StudentEmail, &m.StudentPRN,
		&m.CourseName, &m.Platform, &m.Duration, &m.Credits, &m.CreditType, &m.ValuationVersion,
		&m.EvidenceLocator, &m.Status, &m.RejectReason, &m.ApprovalStartedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	d := mapping.ToDomainCreditRequest(m)
	return &d, nil
}

func collectCreditRequests(rows pgx.Rows) ([]domain.CreditRequest, error) {
	defer rows.Close()
	out := make([]domain.CreditRequest, 0)
	for rows.Next() {
		req, err := scanCreditRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

// SaveCreditRequest inserts a new credit request.
func (r *PgxCreditRequestRepository) SaveCreditRequest(ctx context.Context, req domain.CreditRequest) error {
	m := mapping.ToModelCreditRequest(req)
	query := `
		INSERT INTO credit_requests (` + creditRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CreditRequestID, m.StudentID, m.StudentName, m.StudentEmail, m.StudentPRN,
		m.CourseName, m.Platform, m.Duration, m.Credits, m.CreditType, m.ValuationVersion,
		m.EvidenceLocator, m.Status, m.RejectReason, m.ApprovalStartedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return fmt.Errorf("%w: credit request %s", apperrors.ErrDuplicate, m.CreditRequestID)
		}
		return apperrors.NewAppError(500, "failed to insert credit request "+m.CreditRequestID, err)
	}
	return nil
}

func (r *PgxCreditRequestRepository) FindCreditRequestByID(ctx context.Context, creditRequestID string) (*domain.CreditRequest, error) {
	query := `SELECT ` + creditRequestColumns + ` FROM credit_requests WHERE credit_request_id = $1;`
	req, err := scanCreditRequest(r.Pool.QueryRow(ctx, query, creditRequestID))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewAppError(500, "failed to find credit request "+creditRequestID, err)
	}
	return req, err
}

func (r *PgxCreditRequestRepository) ListCreditRequestsByStudent(ctx context.Context, studentID string) ([]domain.CreditRequest, error) {
	query := `SELECT ` + creditRequestColumns + `
		FROM credit_requests
		WHERE student_id = $1
		ORDER BY created_at DESC, credit_request_id DESC;`
	rows, err := r.Pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query credit requests for student "+studentID, err)
	}
	out, err := collectCreditRequests(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan credit requests for student "+studentID, err)
	}
	return out, nil
}

// ListCreditRequests pages through requests newest first using a (created_at, id) cursor.
func (r *PgxCreditRequestRepository) ListCreditRequests(ctx context.Context, status *domain.CreditStatus, limit int, nextToken *string) ([]domain.CreditRequest, *string, error) {
	query := `SELECT ` + creditRequestColumns + ` FROM credit_requests WHERE TRUE`
	args := []interface{}{}

	if status != nil {
		args = append(args, string(*status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", fmt.Errorf("%w: %w", apperrors.ErrValidation, err))
		}
		args = append(args, lastCreatedAt, lastID)
		query += ` AND (created_at, credit_request_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}
	query += ` ORDER BY created_at DESC, credit_request_id DESC`

	// one extra row tells us whether another page exists
	if limit > 0 {
		args = append(args, limit+1)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.Pool.Query(ctx, query+";", args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query credit requests", err)
	}
	out, err := collectCreditRequests(rows)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to scan credit requests", err)
	}

	var next *string
	if limit > 0 && len(out) > limit {
		out = out[:limit]
		last := out[len(out)-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.CreditRequestID)
		next = &token
	}
	return out, next, nil
}

func (r *PgxCreditRequestRepository) ListApprovalsInFlight(ctx context.Context, startedBefore time.Time, limit int) ([]domain.CreditRequest, error) {
	query := `SELECT ` + creditRequestColumns + `
		FROM credit_requests
		WHERE approval_started_at IS NOT NULL AND approval_started_at < $1 AND ` + nonTerminal + `
		ORDER BY approval_started_at
		LIMIT $2;`
	rows, err := r.Pool.Query(ctx, query, startedBefore, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query in-flight approvals", err)
	}
	out, err := collectCreditRequests(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan in-flight approvals", err)
	}
	return out, nil
}

// TransitionCreditRequest applies a conditional status update. Zero affected rows
// means the request is missing or already terminal.
func (r *PgxCreditRequestRepository) TransitionCreditRequest(ctx context.Context, creditRequestID string, target domain.CreditStatus, rejectReason string, actorID string, now time.Time) (*domain.CreditRequest, error) {
	query := `
		UPDATE credit_requests
		SET status = $2, reject_reason = $3, last_updated_at = $4, last_updated_by = $5, version = version + 1
		WHERE credit_request_id = $1 AND ` + nonTerminal + ` AND status <> $2
		RETURNING ` + creditRequestColumns + `;`
	req, err := scanCreditRequest(r.Pool.QueryRow(ctx, query, creditRequestID, string(target), rejectReason, now, actorID))
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewAppError(500, "failed to update credit request "+creditRequestID, err)
	}
	return nil, r.explainNoRows(ctx, creditRequestID, target)
}

// MarkApprovalStarted stamps approval_started_at once; later calls keep the first value.
func (r *PgxCreditRequestRepository) MarkApprovalStarted(ctx context.Context, creditRequestID string, now time.Time) error {
	query := `
		UPDATE credit_requests
		SET approval_started_at = COALESCE(approval_started_at, $2)
		WHERE credit_request_id = $1 AND ` + nonTerminal + `;`
	tag, err := r.Pool.Exec(ctx, query, creditRequestID, now)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark approval started for "+creditRequestID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.explainNoRows(ctx, creditRequestID, domain.StatusApproved)
	}
	return nil
}

// ClearApprovalStarted resets approval_started_at. A terminal or unmarked request is left alone.
func (r *PgxCreditRequestRepository) ClearApprovalStarted(ctx context.Context, creditRequestID string) error {
	query := `
		UPDATE credit_requests
		SET approval_started_at = NULL
		WHERE credit_request_id = $1 AND ` + nonTerminal + `;`
	if _, err := r.Pool.Exec(ctx, query, creditRequestID); err != nil {
		return apperrors.NewAppError(500, "failed to clear approval marker for "+creditRequestID, err)
	}
	return nil
}

func (r *PgxCreditRequestRepository) explainNoRows(ctx context.Context, creditRequestID string, target domain.CreditStatus) error {
	current, err := r.FindCreditRequestByID(ctx, creditRequestID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: credit request %s is %s, cannot move to %s", apperrors.ErrInvalidTransition, creditRequestID, current.Status, target)
}

// CommitApproval records a ledger-confirmed approval. The request row is locked
// first so the status check, the entry insert and the counter update see one
// consistent state.
func (r *PgxCreditRequestRepository) CommitApproval(ctx context.Context, entry domain.AcademicLedgerEntry, actorID string, now time.Time) (*domain.CreditRequest, *domain.AcademicLedgerEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(ctx, tx)

	lockQuery := `SELECT ` + creditRequestColumns + ` FROM credit_requests WHERE credit_request_id = $1 FOR UPDATE;`
	req, err := scanCreditRequest(tx.QueryRow(ctx, lockQuery, entry.CreditRequestID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, err
		}
		return nil, nil, apperrors.NewAppError(500, "failed to lock credit request "+entry.CreditRequestID, err)
	}

	existing, err := findEntryByCreditRequest(ctx, tx, entry.CreditRequestID)
	switch {
	case err == nil:
		if req.Status != domain.StatusApproved {
			return nil, nil, fmt.Errorf("%w: ledger entry exists for %s but status is %s", apperrors.ErrDataCorruption, req.CreditRequestID, req.Status)
		}
		// already committed by an earlier attempt
		if err := r.Commit(ctx, tx); err != nil {
			return nil, nil, err
		}
		return req, existing, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, nil, apperrors.NewAppError(500, "failed to check ledger entry for "+entry.CreditRequestID, err)
	}

	if err := req.CanTransitionTo(domain.StatusApproved); err != nil {
		return nil, nil, err
	}

	m := mapping.ToModelLedgerEntry(entry)
	insertQuery := `
		INSERT INTO academic_ledger_entries (` + ledgerEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
	if _, err := tx.Exec(ctx, insertQuery,
		m.EntryID, m.CreditRequestID, m.StudentID, m.StudentPRN, m.StudentName, m.StudentEmail,
		m.CourseName, m.Platform, m.Credits, m.SourceType, m.ConfirmationID, m.CreatedAt, m.CreatedBy,
	); err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return nil, nil, fmt.Errorf("%w: ledger entry for %s violates %s", apperrors.ErrDataCorruption, entry.CreditRequestID, constraint)
		}
		return nil, nil, apperrors.NewAppError(500, "failed to insert ledger entry for "+entry.CreditRequestID, err)
	}

	updateQuery := `
		UPDATE credit_requests
		SET status = 'APPROVED', reject_reason = '', last_updated_at = $2, last_updated_by = $3, version = version + 1
		WHERE credit_request_id = $1
		RETURNING ` + creditRequestColumns + `;`
	updated, err := scanCreditRequest(tx.QueryRow(ctx, updateQuery, entry.CreditRequestID, now, actorID))
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to approve credit request "+entry.CreditRequestID, err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE students
		SET total_credits = total_credits + $2, last_updated_at = $3, last_updated_by = $4, version = version + 1
		WHERE student_id = $1;`, entry.StudentID, entry.Credits, now, actorID)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to update credit total for student "+entry.StudentID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil, fmt.Errorf("%w: student %s", apperrors.ErrNotFound, entry.StudentID)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return updated, &entry, nil
}
