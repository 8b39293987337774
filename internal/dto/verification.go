package dto

import (
	"time"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
)

// VerifyParams are the optional query parameters of GET /verify/:token.
type VerifyParams struct {
	Fingerprint string `form:"fingerprint" binding:"omitempty,max=130"`
}

// VerifiedCredential is the public part of an academic ledger entry. Contact
// details and the PRN are left out.
type VerifiedCredential struct {
	EntryID     string    `json:"entryID"`
	StudentName string    `json:"studentName"`
	CourseName  string    `json:"courseName"`
	Platform    string    `json:"platform"`
	Credits     int       `json:"credits"`
	SourceType  string    `json:"sourceType"`
	RecordedAt  time.Time `json:"recordedAt"`
}

// VerificationResponse is returned by GET /verify/:token.
type VerificationResponse struct {
	Token              string              `json:"token"`
	Valid              bool                `json:"valid"`
	LedgerState        string              `json:"ledgerState"`
	ConfirmationID     string              `json:"confirmationID,omitempty"`
	Fingerprint        string              `json:"fingerprint"`
	FingerprintMatches *bool               `json:"fingerprintMatches,omitempty"`
	Credential         *VerifiedCredential `json:"credential,omitempty"`
}

// ToVerificationResponse converts a domain.Verification.
func ToVerificationResponse(v *domain.Verification) VerificationResponse {
	resp := VerificationResponse{
		Token:          v.Token,
		Valid:          v.Valid,
		LedgerState:    v.LedgerState,
		ConfirmationID: v.ConfirmationID,
		Fingerprint:    v.Fingerprint,
	}
	if v.FingerprintChecked {
		matches := v.FingerprintMatches
		resp.FingerprintMatches = &matches
	}
	if v.Entry != nil {
		resp.Credential = &VerifiedCredential{
			EntryID:     v.Entry.EntryID,
			StudentName: v.Entry.StudentName,
			CourseName:  v.Entry.CourseName,
			Platform:    v.Entry.Platform,
			Credits:     v.Entry.Credits,
			SourceType:  v.Entry.SourceType,
			RecordedAt:  v.Entry.CreatedAt,
		}
	}
	return resp
}
