package repositories

import (
	"context"
	"time"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
)

// CreditRequestReader defines read operations for credit requests
type CreditRequestReader interface {
	// FindCreditRequestByID returns apperrors.ErrNotFound when the request does not exist.
	FindCreditRequestByID(ctx context.Context, creditRequestID string) (*domain.CreditRequest, error)

	// ListCreditRequestsByStudent returns a student's requests, newest first.
	ListCreditRequestsByStudent(ctx context.Context, studentID string) ([]domain.CreditRequest, error)

	// ListCreditRequests returns requests newest first, optionally filtered by status.
	// A limit of zero or less returns every match and no next token.
	ListCreditRequests(ctx context.Context, status *domain.CreditStatus, limit int, nextToken *string) ([]domain.CreditRequest, *string, error)

	// ListApprovalsInFlight returns non-terminal requests whose approval started before the cutoff.
	ListApprovalsInFlight(ctx context.Context, startedBefore time.Time, limit int) ([]domain.CreditRequest, error)
}

// CreditRequestWriter defines write operations for credit requests
type CreditRequestWriter interface {
	// SaveCreditRequest inserts a new request.
	SaveCreditRequest(ctx context.Context, req domain.CreditRequest) error

	// TransitionCreditRequest moves a non-terminal request to target. The update is
	// conditional on the stored status still being non-terminal, so a concurrent
	// terminal write makes it fail with apperrors.ErrInvalidTransition.
	TransitionCreditRequest(ctx context.Context, creditRequestID string, target domain.CreditStatus, rejectReason string, actorID string, now time.Time) (*domain.CreditRequest, error)

	// MarkApprovalStarted records that a ledger submission is about to happen.
	MarkApprovalStarted(ctx context.Context, creditRequestID string, now time.Time) error

	// ClearApprovalStarted removes the in-flight marker from a non-terminal request
	// once the ledger has definitively refused or never received its record.
	ClearApprovalStarted(ctx context.Context, creditRequestID string) error
}

// ApprovalCommitter records a ledger-confirmed approval locally.
type ApprovalCommitter interface {
	// CommitApproval inserts the ledger entry, marks the request APPROVED and adds the
	// credits to the student's total in one database transaction. If an entry for the
	// request already exists it returns the stored state unchanged.
	CommitApproval(ctx context.Context, entry domain.AcademicLedgerEntry, actorID string, now time.Time) (*domain.CreditRequest, *domain.AcademicLedgerEntry, error)
}

// CreditRequestRepositoryFacade combines all credit request repository interfaces
type CreditRequestRepositoryFacade interface {
	CreditRequestReader
	CreditRequestWriter
	ApprovalCommitter
}

// CreditRequestRepositoryWithTx extends CreditRequestRepositoryFacade with transaction capabilities
type CreditRequestRepositoryWithTx interface {
	CreditRequestRepositoryFacade
	TransactionManager
}
