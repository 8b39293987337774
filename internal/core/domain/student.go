package domain

// StudentAccount holds the identity snapshot copied onto credit requests and
// the running total of approved credits.
type StudentAccount struct {
	StudentID    string `json:"studentID"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PRN          string `json:"prn"`
	TotalCredits int    `json:"totalCredits"`
	AuditFields
}
