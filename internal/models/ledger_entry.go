package models

import "time"

// AcademicLedgerEntry is a row of academic_ledger_entries. Rows are never updated.
type AcademicLedgerEntry struct {
	EntryID         string    `db:"entry_id"`
	CreditRequestID string    `db:"credit_request_id"`
	StudentID       string    `db:"student_id"`
	StudentPRN      string    `db:"student_prn"`
	StudentName     string    `db:"student_name"`
	StudentEmail    string    `db:"student_email"`
	CourseName      string    `db:"course_name"`
	Platform        string    `db:"platform"`
	Credits         int       `db:"credits"`
	SourceType      string    `db:"source_type"`
	ConfirmationID  string    `db:"confirmation_id"`
	CreatedAt       time.Time `db:"created_at"`
	CreatedBy       string    `db:"created_by"`
}
