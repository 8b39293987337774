package services_test

import (
	"fmt"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/ledger"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/services"
)

func (suite *ApprovalServiceTestSuite) TestVerifyToken_ApprovedCredential() {
	req := suite.newRequest("8", "NPTEL (SWAYAM)")
	result, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.Require().NoError(err)

	verifier := services.NewVerificationService(suite.store, suite.store, suite.ledger)
	record := ledger.NewRecord(req.CreditRequestID, req.EvidenceLocator)

	v, err := verifier.VerifyToken(suite.ctx, ledger.TokenFor(req.CreditRequestID), "")
	suite.Require().NoError(err)
	suite.True(v.Valid)
	suite.Equal(result.ConfirmationID, v.ConfirmationID)
	suite.Equal(record.Fingerprint, v.Fingerprint)
	suite.False(v.FingerprintChecked)
	suite.Require().NotNil(v.Entry)
	suite.Equal(2, v.Entry.Credits)

	matched, err := verifier.VerifyToken(suite.ctx, record.Token, record.Fingerprint)
	suite.Require().NoError(err)
	suite.True(matched.Valid)
	suite.True(matched.FingerprintMatches)

	forged, err := verifier.VerifyToken(suite.ctx, record.Token, "0x00")
	suite.Require().NoError(err)
	suite.True(forged.FingerprintChecked)
	suite.False(forged.FingerprintMatches)
	suite.False(forged.Valid)
	suite.Equal(1, suite.ledger.submitCount())
}

func (suite *ApprovalServiceTestSuite) TestVerifyToken_ConfirmedButNotYetRecorded() {
	req := suite.newRequest("4", "")
	suite.store.failNextCommits(5)
	_, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.Require().ErrorIs(err, apperrors.ErrReconciliationRequired)

	verifier := services.NewVerificationService(suite.store, suite.store, suite.ledger)
	v, err := verifier.VerifyToken(suite.ctx, ledger.TokenFor(req.CreditRequestID), "")
	suite.Require().NoError(err)
	suite.True(v.Valid)
	suite.Nil(v.Entry)
}

func (suite *ApprovalServiceTestSuite) TestVerifyToken_NotFound() {
	verifier := services.NewVerificationService(suite.store, suite.store, suite.ledger)

	_, err := verifier.VerifyToken(suite.ctx, "no-prefix", "")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = verifier.VerifyToken(suite.ctx, ledger.TokenFor("missing"), "")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	// a pending request that never reached the ledger
	req := suite.newRequest("12", "")
	_, err = verifier.VerifyToken(suite.ctx, ledger.TokenFor(req.CreditRequestID), "")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Equal(0, suite.ledger.submitCount())
}

func (suite *ApprovalServiceTestSuite) TestVerifyToken_LedgerDown() {
	req := suite.newRequest("8", "")
	suite.ledger.existErr = fmt.Errorf("%w: dial tcp", apperrors.ErrLedgerUnavailable)

	verifier := services.NewVerificationService(suite.store, suite.store, suite.ledger)
	_, err := verifier.VerifyToken(suite.ctx, ledger.TokenFor(req.CreditRequestID), "")
	suite.ErrorIs(err, apperrors.ErrLedgerUnavailable)
	suite.True(apperrors.IsRetryable(err))
}
