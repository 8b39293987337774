package repositories

import (
	"context"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
)

// LedgerEntryReader defines read operations for the academic ledger mirror.
// Entries are only ever written by ApprovalCommitter.
type LedgerEntryReader interface {
	// FindEntriesByStudent returns a student's entries, newest first.
	FindEntriesByStudent(ctx context.Context, studentID string) ([]domain.AcademicLedgerEntry, error)

	// FindEntriesByPRN returns entries recorded against a PRN, newest first.
	FindEntriesByPRN(ctx context.Context, prn string) ([]domain.AcademicLedgerEntry, error)

	// FindEntryByCreditRequest returns apperrors.ErrNotFound when the request has no entry.
	FindEntryByCreditRequest(ctx context.Context, creditRequestID string) (*domain.AcademicLedgerEntry, error)

	// ListEntries returns all entries newest first.
	ListEntries(ctx context.Context, limit, offset int) ([]domain.AcademicLedgerEntry, error)

	// SumCreditsByStudent returns 0 for a student with no entries.
	SumCreditsByStudent(ctx context.Context, studentID string) (int, error)
}

// LedgerEntryRepositoryFacade combines all ledger entry repository interfaces
type LedgerEntryRepositoryFacade interface {
	LedgerEntryReader
}
