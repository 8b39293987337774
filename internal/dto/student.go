package dto

import (
	"time"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
)

// CreateStudentRequest is the body of POST /students.
type CreateStudentRequest struct {
	// StudentID is optional; it must match the subject of the student's tokens when set.
	StudentID string `json:"studentID" binding:"omitempty,max=64"`
	Name      string `json:"name" binding:"required,max=255"`
	Email     string `json:"email" binding:"required,email"`
	PRN       string `json:"prn" binding:"required,prn"`
}

// StudentResponse defines the data returned for a student account.
type StudentResponse struct {
	StudentID    string    `json:"studentID"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PRN          string    `json:"prn"`
	TotalCredits int       `json:"totalCredits"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToStudentResponse converts a domain.StudentAccount to StudentResponse DTO.
func ToStudentResponse(s *domain.StudentAccount) StudentResponse {
	return StudentResponse{
		StudentID:    s.StudentID,
		Name:         s.Name,
		Email:        s.Email,
		PRN:          s.PRN,
		TotalCredits: s.TotalCredits,
		CreatedAt:    s.CreatedAt,
	}
}
