package services

import (
	"context"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
)

// VerificationSvcFacade answers public credential checks.
type VerificationSvcFacade interface {
	// VerifyToken looks the token up on the ledger and in the academic ledger. A
	// non-empty fingerprint is compared with the anchored evidence fingerprint.
	VerifyToken(ctx context.Context, token string, fingerprint string) (*domain.Verification, error)
}
