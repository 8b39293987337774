package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
	portsrepo "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/repositories"
	portssvc "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/services"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/dto"
	"github.com/google/uuid"
)

type studentService struct {
	BaseService
	studentRepo portsrepo.StudentRepositoryFacade
}

func NewStudentService(studentRepo portsrepo.StudentRepositoryFacade) portssvc.StudentSvcFacade {
	return &studentService{studentRepo: studentRepo}
}

func isPRN(s string) bool {
	if len(s) != 16 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (s *studentService) CreateStudent(ctx context.Context, req dto.CreateStudentRequest, creatorUserID string) (*domain.StudentAccount, error) {
	prn := strings.TrimSpace(req.PRN)
	if !isPRN(prn) {
		return nil, fmt.Errorf("%w: PRN must be exactly 16 digits", apperrors.ErrValidation)
	}
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", apperrors.ErrValidation)
	}

	studentID := strings.TrimSpace(req.StudentID)
	if studentID == "" {
		studentID = uuid.NewString()
	}

	now := s.Now()
	student := domain.StudentAccount{
		StudentID: studentID,
		Name:      name,
		Email:     email,
		PRN:       prn,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
			Version:       1,
		},
	}

	if err := s.studentRepo.SaveStudent(ctx, student); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save student", slog.String("student_id", studentID))
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.LogInfo(ctx, "Student created", slog.String("student_id", studentID))
	return &student, nil
}

func (s *studentService) GetStudent(ctx context.Context, studentID string) (*domain.StudentAccount, error) {
	student, err := s.studentRepo.FindStudentByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student %s: %w", studentID, err)
	}
	return student, nil
}
