package mapping

import (
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/models"
)

// ToModelLedgerEntry converts a domain AcademicLedgerEntry to its row form
func ToModelLedgerEntry(d domain.AcademicLedgerEntry) models.AcademicLedgerEntry {
	return models.AcademicLedgerEntry{
		EntryID:         d.EntryID,
		CreditRequestID: d.CreditRequestID,
		StudentID:       d.StudentID,
		StudentPRN:      d.StudentPRN,
		StudentName:     d.StudentName,
		StudentEmail:    d.StudentEmail,
		CourseName:      d.CourseName,
		Platform:        d.Platform,
		Credits:         d.Credits,
		SourceType:      d.SourceType,
		ConfirmationID:  d.ConfirmationID,
		CreatedAt:       d.CreatedAt,
		CreatedBy:       d.CreatedBy,
	}
}

// ToDomainLedgerEntry converts a row to a domain AcademicLedgerEntry
func ToDomainLedgerEntry(m models.AcademicLedgerEntry) domain.AcademicLedgerEntry {
	return domain.AcademicLedgerEntry{
		EntryID:         m.EntryID,
		CreditRequestID: m.CreditRequestID,
		StudentID:       m.StudentID,
		StudentPRN:      m.StudentPRN,
		StudentName:     m.StudentName,
		StudentEmail:    m.StudentEmail,
		CourseName:      m.CourseName,
		Platform:        m.Platform,
		Credits:         m.Credits,
		SourceType:      m.SourceType,
		ConfirmationID:  m.ConfirmationID,
		CreatedAt:       m.CreatedAt,
		CreatedBy:       m.CreatedBy,
	}
}

// ToDomainLedgerEntrySlice converts a slice of rows
func ToDomainLedgerEntrySlice(ms []models.AcademicLedgerEntry) []domain.AcademicLedgerEntry {
	ds := make([]domain.AcademicLedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
