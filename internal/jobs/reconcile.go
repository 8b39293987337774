package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	portsrepo "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/repositories"
	portssvc "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/services"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/middleware"
)

const ReconcileJobName = "reconcile_approvals"

// ReconcileSweeper settles approvals that reached the ledger but were never
// recorded locally, for requests nobody reads again.
type ReconcileSweeper struct {
	requests   portsrepo.CreditRequestReader
	reconciler portssvc.CreditReconciler
	logger     *slog.Logger
	// MinAge skips approvals that may still be inside a live Approve call.
	MinAge    time.Duration
	BatchSize int
	now       func() time.Time
}

func NewReconcileSweeper(requests portsrepo.CreditRequestReader, reconciler portssvc.CreditReconciler, minAge time.Duration, logger *slog.Logger) *ReconcileSweeper {
	return &ReconcileSweeper{
		requests:   requests,
		reconciler: reconciler,
		logger:     logger,
		MinAge:     minAge,
		BatchSize:  100,
		now:        time.Now,
	}
}

// Run is a Job. It returns the errors of every request that could not be
// settled; requests that are locked or not yet confirmed are skipped.
func (s *ReconcileSweeper) Run(ctx context.Context) error {
	logger := s.logger.With(slog.String("job", ReconcileJobName))
	ctx = middleware.WithLogger(ctx, logger)

	pending, err := s.requests.ListApprovalsInFlight(ctx, s.now().Add(-s.MinAge), s.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list in-flight approvals: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	var errs []error
	settled := 0
	for _, req := range pending {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		_, changed, err := s.reconciler.Reconcile(ctx, req.CreditRequestID)
		switch {
		case err == nil:
			if changed {
				settled++
			}
		case errors.Is(err, apperrors.ErrConcurrentModification):
			logger.Debug("Skipping locked credit request", slog.String("credit_request_id", req.CreditRequestID))
		default:
			errs = append(errs, fmt.Errorf("credit request %s: %w", req.CreditRequestID, err))
		}
	}

	logger.Info("Reconcile sweep finished",
		slog.Int("candidates", len(pending)),
		slog.Int("settled", settled),
		slog.Int("failed", len(errs)))
	return errors.Join(errs...)
}
