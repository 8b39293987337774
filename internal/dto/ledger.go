package dto

import (
	"time"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
)

// LedgerEntryResponse defines the data returned for an academic ledger entry.
type LedgerEntryResponse struct {
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
}

// StudentLedgerResponse is returned by the per-student and per-PRN ledger endpoints.
type StudentLedgerResponse struct {
	StudentID    string                `json:"studentID,omitempty"`
	StudentPRN   string                `json:"studentPRN,omitempty"`
	TotalCredits int                   `json:"totalCredits"`
	Entries      []LedgerEntryResponse `json:"entries"`
}

// ListLedgerParams defines query parameters for listing all entries.
type ListLedgerParams struct {
	Limit  int `form:"limit,default=100" binding:"omitempty,min=1,max=1000"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ListLedgerResponse wraps a page of ledger entries.
type ListLedgerResponse struct {
	Entries []LedgerEntryResponse `json:"entries"`
}

// ConsistencyResponse reports whether a student's counter matches their entries.
type ConsistencyResponse struct {
	StudentID    string `json:"studentID"`
	CounterTotal int    `json:"counterTotal"`
	LedgerTotal  int    `json:"ledgerTotal"`
	Consistent   bool   `json:"consistent"`
}

// ToLedgerEntryResponse converts a domain.AcademicLedgerEntry to LedgerEntryResponse DTO.
func ToLedgerEntryResponse(e *domain.AcademicLedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:         e.EntryID,
		CreditRequestID: e.CreditRequestID,
		StudentID:       e.StudentID,
		StudentPRN:      e.StudentPRN,
		StudentName:     e.StudentName,
		StudentEmail:    e.StudentEmail,
		CourseName:      e.CourseName,
		Platform:        e.Platform,
		Credits:         e.Credits,
		SourceType:      e.SourceType,
		ConfirmationID:  e.ConfirmationID,
		CreatedAt:       e.CreatedAt,
	}
}

// ToLedgerEntryResponses converts a slice of domain.AcademicLedgerEntry.
func ToLedgerEntryResponses(es []domain.AcademicLedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, len(es))
	for i := range es {
		responses[i] = ToLedgerEntryResponse(&es[i])
	}
	return responses
}

// ToStudentLedgerResponse converts a domain.StudentLedger.
func ToStudentLedgerResponse(l *domain.StudentLedger) StudentLedgerResponse {
	return StudentLedgerResponse{
		StudentID:    l.StudentID,
		StudentPRN:   l.StudentPRN,
		TotalCredits: l.TotalCredits,
		Entries:      ToLedgerEntryResponses(l.Entries),
	}
}

// ToConsistencyResponse converts a domain.LedgerConsistency.
func ToConsistencyResponse(c *domain.LedgerConsistency) ConsistencyResponse {
	return ConsistencyResponse{
		StudentID:    c.StudentID,
		CounterTotal: c.CounterTotal,
		LedgerTotal:  c.LedgerTotal,
		Consistent:   c.Consistent,
	}
}
