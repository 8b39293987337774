package models

// Student is a row of students.
type Student struct {
	StudentID    string `db:"student_id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	PRN          string `db:"prn"`
	TotalCredits int    `db:"total_credits"`
	AuditFields
}
