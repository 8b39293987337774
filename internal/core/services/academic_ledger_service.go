package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
	portsrepo "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/repositories"
	portssvc "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/services"
)

const defaultLedgerPageSize = 100

type academicLedgerService struct {
	BaseService
	entryRepo   portsrepo.LedgerEntryReader
	studentRepo portsrepo.StudentReader
}

func NewAcademicLedgerService(entryRepo portsrepo.LedgerEntryReader, studentRepo portsrepo.StudentReader) portssvc.AcademicLedgerSvcFacade {
	return &academicLedgerService{entryRepo: entryRepo, studentRepo: studentRepo}
}

func (s *academicLedgerService) ListByStudent(ctx context.Context, studentID string) ([]domain.AcademicLedgerEntry, error) {
	entries, err := s.entryRepo.FindEntriesByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries for student %s: %w", studentID, err)
	}
	return entries, nil
}

func (s *academicLedgerService) SumCredits(ctx context.Context, studentID string) (int, error) {
	total, err := s.entryRepo.SumCreditsByStudent(ctx, studentID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum credits for student %s: %w", studentID, err)
	}
	return total, nil
}

// GetStudentLedger returns the student's entries with a total computed from them.
func (s *academicLedgerService) GetStudentLedger(ctx context.Context, studentID string) (*domain.StudentLedger, error) {
	entries, err := s.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &domain.StudentLedger{
		StudentID:    studentID,
		TotalCredits: sumEntries(entries),
		Entries:      entries,
	}, nil
}

// GetLedgerByPRN returns every entry recorded against a PRN. Unknown PRNs yield
// an empty ledger.
func (s *academicLedgerService) GetLedgerByPRN(ctx context.Context, prn string) (*domain.StudentLedger, error) {
	if !isPRN(prn) {
		return nil, fmt.Errorf("%w: PRN must be exactly 16 digits", apperrors.ErrValidation)
	}
	entries, err := s.entryRepo.FindEntriesByPRN(ctx, prn)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries by prn: %w", err)
	}
	ledger := &domain.StudentLedger{
		StudentPRN:   prn,
		TotalCredits: sumEntries(entries),
		Entries:      entries,
	}
	if len(entries) > 0 {
		ledger.StudentID = entries[0].StudentID
	}
	return ledger, nil
}

func (s *academicLedgerService) ListAll(ctx context.Context, limit, offset int) ([]domain.AcademicLedgerEntry, error) {
	if limit <= 0 {
		limit = defaultLedgerPageSize
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.entryRepo.ListEntries(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}

// CheckConsistency compares the denormalized counter on the student with the
// sum of their ledger entries.
func (s *academicLedgerService) CheckConsistency(ctx context.Context, studentID string) (*domain.LedgerConsistency, error) {
	student, err := s.studentRepo.FindStudentByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student %s: %w", studentID, err)
	}
	total, err := s.SumCredits(ctx, studentID)
	if err != nil {
		return nil, err
	}

	result := &domain.LedgerConsistency{
		StudentID:    studentID,
		CounterTotal: student.TotalCredits,
		LedgerTotal:  total,
		Consistent:   student.TotalCredits == total,
	}
	if !result.Consistent {
		s.LogWarn(ctx, "Student credit counter disagrees with ledger",
			slog.String("student_id", studentID),
			slog.Int("counter_total", student.TotalCredits),
			slog.Int("ledger_total", total))
	}
	return result, nil
}

func sumEntries(entries []domain.AcademicLedgerEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Credits
	}
	return total
}
