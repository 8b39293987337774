package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
	portsrepo "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/repositories"
	portssvc "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/services"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/dto"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/utils/valuation"
	"github.com/google/uuid"
)

type creditRequestService struct {
	BaseService
	creditRepo  portsrepo.CreditRequestRepositoryFacade
	studentRepo portsrepo.StudentReader
	reconciler  portssvc.CreditReconciler
}

// CreditRequestServiceOption is a function that configures a creditRequestService
type CreditRequestServiceOption func(*creditRequestService)

// WithCreditReconciler enables settling in-flight approvals when a request is read.
func WithCreditReconciler(r portssvc.CreditReconciler) CreditRequestServiceOption {
	return func(s *creditRequestService) {
		s.reconciler = r
	}
}

// WithCreditClock overrides the service clock.
func WithCreditClock(now func() time.Time) CreditRequestServiceOption {
	return func(s *creditRequestService) {
		s.now = now
	}
}

func NewCreditRequestService(creditRepo portsrepo.CreditRequestRepositoryFacade, studentRepo portsrepo.StudentReader, opts ...CreditRequestServiceOption) portssvc.CreditRequestSvcFacade {
	s := &creditRequestService{creditRepo: creditRepo, studentRepo: studentRepo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCreditRequest values the course with the current rule set and stores
// the request as PENDING with a snapshot of the student's identity.
func (s *creditRequestService) CreateCreditRequest(ctx context.Context, studentID string, req dto.CreateCreditRequest) (*domain.CreditRequest, error) {
	logger := s.GetLogger(ctx).With(slog.String("student_id", studentID))

	courseName := strings.TrimSpace(req.CourseName)
	if courseName == "" {
		return nil, fmt.Errorf("%w: course name is required", apperrors.ErrValidation)
	}
	locator := strings.TrimSpace(req.EvidenceLocator)
	if locator == "" {
		return nil, fmt.Errorf("%w: evidence locator is required", apperrors.ErrValidation)
	}

	result, err := valuation.Evaluate(req.Duration, req.CreditType, req.Platform)
	if err != nil {
		logger.Warn("Credit valuation failed", slog.String("duration", req.Duration), slog.String("error", err.Error()))
		return nil, err
	}

	student, err := s.studentRepo.FindStudentByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student %s: %w", studentID, err)
	}

	now := s.Now()
	creditReq := domain.CreditRequest{
		CreditRequestID:  uuid.NewString(),
		StudentID:        student.StudentID,
		StudentName:      student.Name,
		StudentEmail:     student.Email,
		StudentPRN:       student.PRN,
		CourseName:       courseName,
		Platform:         strings.TrimSpace(req.Platform),
		Duration:         result.Duration,
		Credits:          result.Credits,
		CreditType:       result.Classification,
		ValuationVersion: result.Version,
		EvidenceLocator:  locator,
		Status:           domain.StatusPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     studentID,
			LastUpdatedAt: now,
			LastUpdatedBy: studentID,
			Version:       1,
		},
	}

	if err := s.creditRepo.SaveCreditRequest(ctx, creditReq); err != nil {
		logger.Error("Failed to save credit request", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create credit request: %w", err)
	}

	logger.Info("Credit request created",
		slog.String("credit_request_id", creditReq.CreditRequestID),
		slog.Int("credits", creditReq.Credits),
		slog.String("credit_type", string(creditReq.CreditType)),
	)
	return &creditReq, nil
}

// GetCreditRequest returns the stored request. When an approval was left in
// flight it asks the reconciler to settle it first; a failed reconciliation
// never fails the read.
func (s *creditRequestService) GetCreditRequest(ctx context.Context, creditRequestID string) (*domain.CreditRequest, error) {
	return s.GetCreditRequestFor(ctx, creditRequestID, nil)
}

func (s *creditRequestService) GetCreditRequestFor(ctx context.Context, creditRequestID string, allow func(studentID string) bool) (*domain.CreditRequest, error) {
	req, err := s.creditRepo.FindCreditRequestByID(ctx, creditRequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get credit request %s: %w", creditRequestID, err)
	}
	if allow != nil && !allow(req.StudentID) {
		return nil, fmt.Errorf("%w: credit request %s belongs to another student", apperrors.ErrForbidden, creditRequestID)
	}
	if s.reconciler == nil || !req.ApprovalInFlight() {
		return req, nil
	}

	settled, changed, err := s.reconciler.Reconcile(ctx, creditRequestID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrConcurrentModification) {
			s.LogWarn(ctx, "Reconcile on read failed, returning stored state",
				slog.String("credit_request_id", creditRequestID),
				slog.String("error", err.Error()))
		}
		return req, nil
	}
	if changed {
		s.LogInfo(ctx, "Settled in-flight approval on read", slog.String("credit_request_id", creditRequestID))
	}
	return settled, nil
}

func (s *creditRequestService) ListCreditRequestsByStudent(ctx context.Context, studentID string) ([]domain.CreditRequest, error) {
	reqs, err := s.creditRepo.ListCreditRequestsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit requests for student %s: %w", studentID, err)
	}
	return reqs, nil
}

func (s *creditRequestService) ListCreditRequests(ctx context.Context, params dto.ListCreditRequestsParams) (*dto.ListCreditRequestsResponse, error) {
	var status *domain.CreditStatus
	if params.Status != "" {
		st := domain.CreditStatus(strings.ToUpper(params.Status))
		if !st.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, params.Status)
		}
		status = &st
	}

	reqs, next, err := s.creditRepo.ListCreditRequests(ctx, status, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit requests: %w", err)
	}
	return &dto.ListCreditRequestsResponse{
		Credits:   dto.ToCreditRequestResponses(reqs),
		NextToken: next,
	}, nil
}
