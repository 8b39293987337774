package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/ledger"
	portsrepo "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/repositories"
	portssvc "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/services"
)

type verificationService struct {
	BaseService
	creditRepo   portsrepo.CreditRequestReader
	entryRepo    portsrepo.LedgerEntryReader
	ledgerClient ledger.Client
}

func NewVerificationService(creditRepo portsrepo.CreditRequestReader, entryRepo portsrepo.LedgerEntryReader, ledgerClient ledger.Client) portssvc.VerificationSvcFacade {
	return &verificationService{creditRepo: creditRepo, entryRepo: entryRepo, ledgerClient: ledgerClient}
}

// VerifyToken never writes. Unknown tokens are ErrNotFound so the endpoint does
// not reveal which credit request IDs exist.
func (s *verificationService) VerifyToken(ctx context.Context, token string, fingerprint string) (*domain.Verification, error) {
	token = strings.TrimSpace(token)
	creditRequestID, ok := ledger.CreditRequestIDFromToken(token)
	if !ok {
		return nil, fmt.Errorf("%w: unknown token", apperrors.ErrNotFound)
	}

	req, err := s.creditRepo.FindCreditRequestByID(ctx, creditRequestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown token", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load credit request for token %s: %w", token, err)
	}

	record := ledger.NewRecord(req.CreditRequestID, req.EvidenceLocator)
	receipt, found, err := s.ledgerClient.Exists(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to check ledger for %s: %w", token, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: token %s is not on the ledger", apperrors.ErrNotFound, token)
	}

	v := &domain.Verification{
		Token:          record.Token,
		Fingerprint:    record.Fingerprint,
		LedgerState:    string(receipt.State),
		ConfirmationID: receipt.ConfirmationID,
		Valid:          receipt.Confirmed(),
	}
	if fp := strings.TrimSpace(fingerprint); fp != "" {
		v.FingerprintChecked = true
		v.FingerprintMatches = strings.EqualFold(fp, record.Fingerprint)
		v.Valid = v.Valid && v.FingerprintMatches
	}

	entry, err := s.entryRepo.FindEntryByCreditRequest(ctx, req.CreditRequestID)
	switch {
	case err == nil:
		v.Entry = entry
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("failed to load ledger entry for %s: %w", token, err)
	}

	s.LogInfo(ctx, "Credential verified",
		slog.String("token", token),
		slog.Bool("valid", v.Valid),
		slog.Bool("recorded", v.Entry != nil))
	return v, nil
}
