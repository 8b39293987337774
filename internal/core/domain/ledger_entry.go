package domain

import "time"

// AcademicLedgerEntry is the local, append-only record of credits confirmed on
// the external ledger. One entry exists per approved credit request.
type AcademicLedgerEntry struct {
	EntryID         string    `json:"entryID"`
	CreditRequestID string    `json:"creditRequestID"`
	StudentID       string    `json:"studentID"`
	StudentPRN      string    `json:"studentPRN"`
	StudentName     string    `json:"studentName"`
	StudentEmail    string    `json:"studentEmail"`
	CourseName      string    `json:"courseName"`
	Platform        string    `json:"platform"`
	Credits         int       `json:"credits"`
	SourceType      string    `json:"sourceType"`
	ConfirmationID  string    `json:"confirmationID"`
	CreatedAt       time.Time `json:"createdAt"`
	CreatedBy       string    `json:"createdBy"`
}

// StudentLedger is a student's confirmed entries plus their total.
type StudentLedger struct {
	StudentID    string                `json:"studentID"`
	StudentPRN   string                `json:"studentPRN,omitempty"`
	TotalCredits int                   `json:"totalCredits"`
	Entries      []AcademicLedgerEntry `json:"entries"`
}

// LedgerConsistency compares the denormalized student counter against the entry sum.
type LedgerConsistency struct {
	StudentID    string `json:"studentID"`
	CounterTotal int    `json:"counterTotal"`
	LedgerTotal  int    `json:"ledgerTotal"`
	Consistent   bool   `json:"consistent"`
}
