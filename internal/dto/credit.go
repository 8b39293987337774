package dto

import (
	"time"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
)

// CreateCreditRequest is the body of POST /credits.
type CreateCreditRequest struct {
	// StudentID is only honoured for admins; students always create for themselves.
	StudentID       string `json:"studentID"`
	CourseName      string `json:"courseName" binding:"required,max=255"`
	Platform        string `json:"platform" binding:"max=255"`
	Duration        string `json:"duration" binding:"required,max=64"`
	// CreditType is a hint: "internal" or "external" in any case wins, anything else falls back to the platform.
	CreditType      string `json:"creditType" binding:"max=32"`
	EvidenceLocator string `json:"evidenceLocator" binding:"required,max=1024"`
}

// RejectCreditRequest is the body of POST /credits/:creditID/reject.
type RejectCreditRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}

// ListCreditRequestsParams defines query parameters for listing credit requests.
type ListCreditRequestsParams struct {
	Status    string  `form:"status" binding:"omitempty,oneof=PENDING REQUESTED APPROVED REJECTED"`
	Limit     int     `form:"limit,default=50" binding:"omitempty,min=0,max=500"`
	NextToken *string `form:"nextToken"`
}

// CreditRequestResponse defines the data returned for a credit request.
type CreditRequestResponse struct {
	CreditRequestID   string     `json:"creditRequestID"`
	StudentID         string     `json:"studentID"`
	StudentName       string     `json:"studentName"`
	StudentEmail      string     `json:"studentEmail"`
	StudentPRN        string     `json:"studentPRN"`
	CourseName        string     `json:"courseName"`
	Platform          string     `json:"platform"`
	Duration          string     `json:"duration"`
	Credits           int        `json:"credits"`
	CreditType        string     `json:"creditType"`
	ValuationVersion  string     `json:"valuationVersion"`
	EvidenceLocator   string     `json:"evidenceLocator"`
	Status            string     `json:"status"`
	RejectReason      string     `json:"rejectReason,omitempty"`
	ApprovalStartedAt *time.Time `json:"approvalStartedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	LastUpdatedAt     time.Time  `json:"lastUpdatedAt"`
	LastUpdatedBy     string     `json:"lastUpdatedBy"`
}

// ListCreditRequestsResponse wraps a page of credit requests.
type ListCreditRequestsResponse struct {
	Credits   []CreditRequestResponse `json:"credits"`
	NextToken *string                 `json:"nextToken,omitempty"`
}

// ApprovalResponse is returned by a successful approval.
type ApprovalResponse struct {
	Credit         CreditRequestResponse `json:"credit"`
	ConfirmationID string                `json:"confirmationID"`
	LedgerEntry    LedgerEntryResponse   `json:"ledgerEntry"`
}

// ToCreditRequestResponse converts a domain.CreditRequest to CreditRequestResponse DTO.
func ToCreditRequestResponse(r *domain.CreditRequest) CreditRequestResponse {
	return CreditRequestResponse{
		CreditRequestID:   r.CreditRequestID,
		StudentID:         r.StudentID,
		StudentName:       r.StudentName,
		StudentEmail:      r.StudentEmail,
		StudentPRN:        r.StudentPRN,
		CourseName:        r.CourseName,
		Platform:          r.Platform,
		Duration:          r.Duration,
		Credits:           r.Credits,
		CreditType:        string(r.CreditType),
		ValuationVersion:  r.ValuationVersion,
		EvidenceLocator:   r.EvidenceLocator,
		Status:            string(r.Status),
		RejectReason:      r.RejectReason,
		ApprovalStartedAt: r.ApprovalStartedAt,
		CreatedAt:         r.CreatedAt,
		LastUpdatedAt:     r.LastUpdatedAt,
		LastUpdatedBy:     r.LastUpdatedBy,
	}
}

// ToCreditRequestResponses converts a slice of domain.CreditRequest.
func ToCreditRequestResponses(rs []domain.CreditRequest) []CreditRequestResponse {
	responses := make([]CreditRequestResponse, len(rs))
	for i := range rs {
		responses[i] = ToCreditRequestResponse(&rs[i])
	}
	return responses
}

// ToApprovalResponse converts a domain.ApprovalResult.
func ToApprovalResponse(res *domain.ApprovalResult) ApprovalResponse {
	return ApprovalResponse{
		Credit:         ToCreditRequestResponse(&res.Request),
		ConfirmationID: res.ConfirmationID,
		LedgerEntry:    ToLedgerEntryResponse(&res.Entry),
	}
}
