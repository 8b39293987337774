package domain

import (
	"fmt"
	"time"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
)

// CreditStatus is the lifecycle state of a credit request.
type CreditStatus string

const (
	StatusPending   CreditStatus = "PENDING"
	StatusRequested CreditStatus = "REQUESTED"
	StatusApproved  CreditStatus = "APPROVED"
	StatusRejected  CreditStatus = "REJECTED"
)

// IsValid reports whether s is one of the known statuses.
func (s CreditStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusRequested, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed out of s.
func (s CreditStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// rank orders statuses so that transitions only ever move forward.
func (s CreditStatus) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusRequested:
		return 1
	case StatusApproved, StatusRejected:
		return 2
	}
	return -1
}

// CreditType says where the course was taught.
type CreditType string

const (
	CreditInternal CreditType = "internal"
	CreditExternal CreditType = "external"
)

// IsValid reports whether t is a known classification.
func (t CreditType) IsValid() bool {
	return t == CreditInternal || t == CreditExternal
}

// SourceType is the label stored on academic ledger entries ("Internal" / "External").
func (t CreditType) SourceType() string {
	switch t {
	case CreditInternal:
		return "Internal"
	case CreditExternal:
		return "External"
	}
	return ""
}

// CreditRequest is a student's claim for credits earned on a course.
type CreditRequest struct {
	CreditRequestID  string       `json:"creditRequestID"`
	StudentID        string       `json:"studentID"`
	StudentName      string       `json:"studentName"`
	StudentEmail     string       `json:"studentEmail"`
	StudentPRN       string       `json:"studentPRN"`
	CourseName       string       `json:"courseName"`
	Platform         string       `json:"platform"`
	Duration         string       `json:"duration"` // normalized week count, e.g. "8"
	Credits          int          `json:"credits"`
	CreditType       CreditType   `json:"creditType"`
	ValuationVersion string       `json:"valuationVersion"`
	EvidenceLocator  string       `json:"evidenceLocator"`
	Status           CreditStatus `json:"status"`
	RejectReason     string       `json:"rejectReason,omitempty"`

	// ApprovalStartedAt is set just before the ledger record is submitted and
	// marks the request as possibly confirmed on the ledger.
	ApprovalStartedAt *time.Time `json:"approvalStartedAt,omitempty"`
	AuditFields
}

// CanTransitionTo checks that moving from the current status to target is allowed.
// Terminal statuses never change, and a status never moves backwards.
func (r *CreditRequest) CanTransitionTo(target CreditStatus) error {
	if !target.IsValid() {
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidTransition, target)
	}
	if r.Status.IsTerminal() {
		return fmt.Errorf("%w: credit request %s is already %s", apperrors.ErrInvalidTransition, r.CreditRequestID, r.Status)
	}
	if target.rank() <= r.Status.rank() {
		return fmt.Errorf("%w: cannot move credit request %s from %s to %s", apperrors.ErrInvalidTransition, r.CreditRequestID, r.Status, target)
	}
	return nil
}

// ApprovalInFlight reports whether an approval may have reached the ledger
// without being recorded locally.
func (r *CreditRequest) ApprovalInFlight() bool {
	return !r.Status.IsTerminal() && r.ApprovalStartedAt != nil
}

// ApprovalResult is returned by a successful approval.
type ApprovalResult struct {
	Request        CreditRequest       `json:"request"`
	Entry          AcademicLedgerEntry `json:"entry"`
	ConfirmationID string              `json:"confirmationID"`
}
