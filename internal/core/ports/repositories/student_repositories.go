package repositories

import (
	"context"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
)

// StudentReader defines read operations for student accounts
type StudentReader interface {
	FindStudentByID(ctx context.Context, studentID string) (*domain.StudentAccount, error)
	FindStudentByPRN(ctx context.Context, prn string) (*domain.StudentAccount, error)
}

// StudentWriter defines write operations for student accounts
type StudentWriter interface {
	// SaveStudent returns apperrors.ErrDuplicate when the PRN or email is taken.
	SaveStudent(ctx context.Context, student domain.StudentAccount) error
}

// StudentRepositoryFacade combines all student repository interfaces
type StudentRepositoryFacade interface {
	StudentReader
	StudentWriter
}
