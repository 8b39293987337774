package mapping

import (
	"database/sql"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/models"
)

// ToModelCreditRequest converts a domain CreditRequest to a model CreditRequest
func ToModelCreditRequest(d domain.CreditRequest) models.CreditRequest {
	m := models.CreditRequest{
		CreditRequestID:  d.CreditRequestID,
		StudentID:        d.StudentID,
		StudentName:      d.StudentName,
		StudentEmail:     d.StudentEmail,
		StudentPRN:       d.StudentPRN,
		CourseName:       d.CourseName,
		Platform:         d.Platform,
		Duration:         d.Duration,
		Credits:          d.Credits,
		CreditType:       string(d.CreditType),
		ValuationVersion: d.ValuationVersion,
		EvidenceLocator:  d.EvidenceLocator,
		Status:           models.CreditStatus(d.Status),
		RejectReason:     d.RejectReason,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
	if d.ApprovalStartedAt != nil {
		m.ApprovalStartedAt = sql.NullTime{Time: *d.ApprovalStartedAt, Valid: true}
	}
	return m
}

// ToDomainCreditRequest converts a model CreditRequest to a domain CreditRequest
func ToDomainCreditRequest(m models.CreditRequest) domain.CreditRequest {
	d := domain.CreditRequest{
		CreditRequestID:  m.CreditRequestID,
		StudentID:        m.StudentID,
		StudentName:      m.StudentName,
		StudentEmail:     m.StudentEmail,
		StudentPRN:       m.StudentPRN,
		CourseName:       m.CourseName,
		Platform:         m.Platform,
		Duration:         m.Duration,
		Credits:          m.Credits,
		CreditType:       domain.CreditType(m.CreditType),
		ValuationVersion: m.ValuationVersion,
		EvidenceLocator:  m.EvidenceLocator,
		Status:           domain.CreditStatus(m.Status),
		RejectReason:     m.RejectReason,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
	if m.ApprovalStartedAt.Valid {
		t := m.ApprovalStartedAt.Time.UTC()
		d.ApprovalStartedAt = &t
	}
	return d
}

// ToDomainCreditRequestSlice converts a slice of model CreditRequests
func ToDomainCreditRequestSlice(ms []models.CreditRequest) []domain.CreditRequest {
	ds := make([]domain.CreditRequest, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCreditRequest(m)
	}
	return ds
}
