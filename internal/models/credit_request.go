package models

import (
	"database/sql"
)

// CreditStatus mirrors the credit_requests.status check constraint.
type CreditStatus string

const (
	StatusPending   CreditStatus = "PENDING"
	StatusRequested CreditStatus = "REQUESTED"
	StatusApproved  CreditStatus = "APPROVED"
	StatusRejected  CreditStatus = "REJECTED"
)

// CreditRequest is a row of credit_requests.
type CreditRequest struct {
	CreditRequestID   string       `db:"credit_request_id"`
	StudentID         string       `db:"student_id"`
	StudentName       string       `db:"student_name"`
	StudentEmail      string       `db:"student_email"`
	StudentPRN        string       `db:"student_prn"`
	CourseName        string       `db:"course_name"`
	Platform          string       `db:"platform"`
	Duration          string       `db:"duration"`
	Credits           int          `db:"credits"`
	CreditType        string       `db:"credit_type"`
	ValuationVersion  string       `db:"valuation_version"`
	EvidenceLocator   string       `db:"evidence_locator"`
	Status            CreditStatus `db:"status"`
	RejectReason      string       `db:"reject_reason"`
	ApprovalStartedAt sql.NullTime `db:"approval_started_at"`
	AuditFields
}
