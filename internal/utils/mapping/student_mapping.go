package mapping

import (
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/models"
)

// ToModelStudent converts a domain StudentAccount to a model Student
func ToModelStudent(d domain.StudentAccount) models.Student {
	return models.Student{
		StudentID:    d.StudentID,
		Name:         d.Name,
		Email:        d.Email,
		PRN:          d.PRN,
		TotalCredits: d.TotalCredits,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStudent converts a model Student to a domain StudentAccount
func ToDomainStudent(m models.Student) domain.StudentAccount {
	return domain.StudentAccount{
		StudentID:    m.StudentID,
		Name:         m.Name,
		Email:        m.Email,
		PRN:          m.PRN,
		TotalCredits: m.TotalCredits,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
