package services

import (
	"context"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/dto"
)

// StudentSvcFacade manages student accounts.
type StudentSvcFacade interface {
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest, creatorUserID string) (*domain.StudentAccount, error)
	GetStudent(ctx context.Context, studentID string) (*domain.StudentAccount, error)
}
