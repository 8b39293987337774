package services

import (
	"context"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
)

// CreditReconciler settles an approval that may have been confirmed on the
// ledger without being recorded locally. It never submits to the ledger.
type CreditReconciler interface {
	// Reconcile returns the current request and whether it was changed.
	Reconcile(ctx context.Context, creditRequestID string) (*domain.CreditRequest, bool, error)
}

// ApprovalSvcFacade coordinates terminal decisions on credit requests.
type ApprovalSvcFacade interface {
	// Approve anchors the request on the ledger and then records the approval locally.
	Approve(ctx context.Context, creditRequestID string, actorID string) (*domain.ApprovalResult, error)

	// Reject marks the request REJECTED with a mandatory reason.
	Reject(ctx context.Context, creditRequestID string, reason string, actorID string) (*domain.CreditRequest, error)

	CreditReconciler
}
