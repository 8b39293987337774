package services

import (
	"context"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
)

// AcademicLedgerSvcFacade reads the local mirror of ledger-confirmed credits.
type AcademicLedgerSvcFacade interface {
	ListByStudent(ctx context.Context, studentID string) ([]domain.AcademicLedgerEntry, error)
	SumCredits(ctx context.Context, studentID string) (int, error)
	GetStudentLedger(ctx context.Context, studentID string) (*domain.StudentLedger, error)
	GetLedgerByPRN(ctx context.Context, prn string) (*domain.StudentLedger, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.AcademicLedgerEntry, error)

	// CheckConsistency compares the student's stored total with the sum of their entries.
	CheckConsistency(ctx context.Context, studentID string) (*domain.LedgerConsistency, error)
}
