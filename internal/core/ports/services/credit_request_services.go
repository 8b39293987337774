package services

import (
	"context"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/dto"
)

// CreditRequestReaderSvc defines read operations for credit requests
type CreditRequestReaderSvc interface {
	// GetCreditRequest returns the request. If an approval was left in flight it
	// first tries to settle it against the ledger.
	GetCreditRequest(ctx context.Context, creditRequestID string) (*domain.CreditRequest, error)

	// GetCreditRequestFor is GetCreditRequest for a caller limited by allow. A request
	// whose student allow refuses yields apperrors.ErrForbidden and is never reconciled.
	GetCreditRequestFor(ctx context.Context, creditRequestID string, allow func(studentID string) bool) (*domain.CreditRequest, error)

	// ListCreditRequestsByStudent returns a student's requests, newest first.
	ListCreditRequestsByStudent(ctx context.Context, studentID string) ([]domain.CreditRequest, error)

	// ListCreditRequests returns a page of requests, newest first.
	ListCreditRequests(ctx context.Context, params dto.ListCreditRequestsParams) (*dto.ListCreditRequestsResponse, error)
}

// CreditRequestWriterSvc defines write operations for credit requests
type CreditRequestWriterSvc interface {
	// CreateCreditRequest values the course and stores a PENDING request.
	CreateCreditRequest(ctx context.Context, studentID string, req dto.CreateCreditRequest) (*domain.CreditRequest, error)
}

// CreditRequestSvcFacade combines all credit request service interfaces
type CreditRequestSvcFacade interface {
	CreditRequestReaderSvc
	CreditRequestWriterSvc
}
