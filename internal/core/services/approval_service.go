package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/ledger"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/locking"
	portsrepo "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/repositories"
	portssvc "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/services"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/metrics"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/platform/config"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/utils/valuation"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// ReconcilerActor is recorded as the approver when an approval is settled after the fact.
const ReconcilerActor = "system:reconciler"

// EscalationFunc receives approvals that need an operator.
type EscalationFunc func(ctx context.Context, req *domain.CreditRequest, err error)

type approvalService struct {
	BaseService
	creditRepo     portsrepo.CreditRequestRepositoryFacade
	ledgerClient   ledger.Client
	locker         locking.RequestLocker
	commitAttempts int
	commitBackoff  func() backoff.BackOff
	escalate       EscalationFunc
}

// ApprovalServiceOption is a function that configures an approvalService
type ApprovalServiceOption func(*approvalService)

// WithCommitAttempts bounds the local commit retries after ledger confirmation.
func WithCommitAttempts(n int) ApprovalServiceOption {
	return func(s *approvalService) {
		if n > 0 {
			s.commitAttempts = n
		}
	}
}

// WithCommitBackoff sets the backoff policy between local commit attempts.
func WithCommitBackoff(newBackoff func() backoff.BackOff) ApprovalServiceOption {
	return func(s *approvalService) {
		s.commitBackoff = newBackoff
	}
}

// WithEscalation sets the hook called for approvals that need an operator.
func WithEscalation(fn EscalationFunc) ApprovalServiceOption {
	return func(s *approvalService) {
		if fn != nil {
			s.escalate = fn
		}
	}
}

// WithApprovalClock overrides the service clock.
func WithApprovalClock(now func() time.Time) ApprovalServiceOption {
	return func(s *approvalService) {
		s.now = now
	}
}

func defaultCommitBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = config.CommitBackoffMaxInterval
	b.MaxElapsedTime = 0
	return b
}

func NewApprovalService(creditRepo portsrepo.CreditRequestRepositoryFacade, ledgerClient ledger.Client, locker locking.RequestLocker, opts ...ApprovalServiceOption) portssvc.ApprovalSvcFacade {
	s := &approvalService{
		creditRepo:     creditRepo,
		ledgerClient:   ledgerClient,
		locker:         locker,
		commitAttempts: 5,
		commitBackoff:  defaultCommitBackoff,
		escalate:       func(context.Context, *domain.CreditRequest, error) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func lockKey(creditRequestID string) string {
	return "credit:" + creditRequestID
}

func (s *approvalService) acquire(ctx context.Context, creditRequestID string) (locking.Unlock, error) {
	unlock, err := s.locker.TryLock(ctx, lockKey(creditRequestID))
	if err != nil {
		if errors.Is(err, locking.ErrLockHeld) {
			return nil, fmt.Errorf("%w: credit request %s is being processed", apperrors.ErrConcurrentModification, creditRequestID)
		}
		return nil, fmt.Errorf("failed to lock credit request %s: %w", creditRequestID, err)
	}
	return unlock, nil
}

// Approve anchors the request on the ledger, then records it locally. The
// ledger step is skipped when the record is already there, so retrying after a
// timeout never anchors twice.
func (s *approvalService) Approve(ctx context.Context, creditRequestID string, actorID string) (result *domain.ApprovalResult, err error) {
	start := time.Now()
	alreadyOnLedger := false
	defer func() {
		metrics.ObserveApproval(approvalOutcome(err, alreadyOnLedger), time.Since(start))
	}()

	logger := s.GetLogger(ctx).With(slog.String("credit_request_id", creditRequestID), slog.String("actor_id", actorID))

	unlock, err := s.acquire(ctx, creditRequestID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	req, err := s.creditRepo.FindCreditRequestByID(ctx, creditRequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credit request %s: %w", creditRequestID, err)
	}
	if err := req.CanTransitionTo(domain.StatusApproved); err != nil {
		return nil, err
	}
	if err := revalidate(req); err != nil {
		logger.Error("Stored valuation failed re-check", slog.String("error", err.Error()))
		s.escalate(ctx, req, err)
		return nil, err
	}

	record := ledger.NewRecord(req.CreditRequestID, req.EvidenceLocator)
	receipt, found, err := s.findOnLedger(ctx, record)
	if err != nil {
		return nil, err
	}
	if found {
		alreadyOnLedger = true
		logger.Info("Record already on ledger, skipping submission", slog.String("confirmation_id", receipt.ConfirmationID))
	} else {
		receipt, err = s.submitAndAwait(ctx, req, record)
		if err != nil {
			logger.Warn("Ledger submission did not complete", slog.String("error", err.Error()), slog.Bool("retryable", apperrors.IsRetryable(err)))
			return nil, err
		}
	}

	updated, entry, err := s.commit(ctx, req, record, receipt, actorID)
	if err != nil {
		return nil, err
	}

	logger.Info("Credit request approved",
		slog.String("confirmation_id", entry.ConfirmationID),
		slog.Int("credits", entry.Credits),
	)
	return &domain.ApprovalResult{Request: *updated, Entry: *entry, ConfirmationID: entry.ConfirmationID}, nil
}

// Reject records a terminal rejection. A request whose approval may already be
// on the ledger is checked there first and cannot be rejected if it is.
func (s *approvalService) Reject(ctx context.Context, creditRequestID string, reason string, actorID string) (*domain.CreditRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a rejection reason is required", apperrors.ErrValidation)
	}

	unlock, err := s.acquire(ctx, creditRequestID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	req, err := s.creditRepo.FindCreditRequestByID(ctx, creditRequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credit request %s: %w", creditRequestID, err)
	}
	if err := req.CanTransitionTo(domain.StatusRejected); err != nil {
		return nil, err
	}

	if req.ApprovalStartedAt != nil {
		record := ledger.NewRecord(req.CreditRequestID, req.EvidenceLocator)
		receipt, found, err := s.ledgerClient.Exists(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("cannot reject %s while its ledger state is unknown: %w", creditRequestID, err)
		}
		if found && receipt.Confirmed() {
			if _, _, err := s.commit(ctx, req, record, receipt, ReconcilerActor); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: credit request %s is already confirmed on the ledger and has been approved", apperrors.ErrInvalidTransition, creditRequestID)
		}
		if found {
			return nil, fmt.Errorf("%w: credit request %s has a ledger submission awaiting confirmation", apperrors.ErrConcurrentModification, creditRequestID)
		}
	}

	updated, err := s.creditRepo.TransitionCreditRequest(ctx, creditRequestID, domain.StatusRejected, reason, actorID, s.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to reject credit request %s: %w", creditRequestID, err)
	}

	metrics.Rejections.Inc()
	s.LogInfo(ctx, "Credit request rejected", slog.String("credit_request_id", creditRequestID), slog.String("actor_id", actorID))
	return updated, nil
}

// Reconcile settles an approval that reached the ledger but was not recorded
// locally. It only ever reads the ledger.
func (s *approvalService) Reconcile(ctx context.Context, creditRequestID string) (*domain.CreditRequest, bool, error) {
	unlock, err := s.acquire(ctx, creditRequestID)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	req, err := s.creditRepo.FindCreditRequestByID(ctx, creditRequestID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load credit request %s: %w", creditRequestID, err)
	}
	if !req.ApprovalInFlight() {
		return req, false, nil
	}

	record := ledger.NewRecord(req.CreditRequestID, req.EvidenceLocator)
	receipt, found, err := s.ledgerClient.Exists(ctx, record)
	if err != nil {
		metrics.Reconciliations.WithLabelValues("ledger_error").Inc()
		return req, false, fmt.Errorf("failed to check ledger for %s: %w", creditRequestID, err)
	}
	if !found {
		// nothing reached the ledger, or it failed there
		s.clearInFlight(ctx, creditRequestID)
		req.ApprovalStartedAt = nil
		metrics.Reconciliations.WithLabelValues("not_on_ledger").Inc()
		return req, false, nil
	}
	if !receipt.Confirmed() {
		metrics.Reconciliations.WithLabelValues("not_confirmed").Inc()
		return req, false, nil
	}

	updated, _, err := s.commit(ctx, req, record, receipt, ReconcilerActor)
	if err != nil {
		metrics.Reconciliations.WithLabelValues("failed").Inc()
		return req, false, err
	}
	metrics.Reconciliations.WithLabelValues("settled").Inc()
	s.LogInfo(ctx, "Reconciled ledger-confirmed approval",
		slog.String("credit_request_id", creditRequestID),
		slog.String("confirmation_id", receipt.ConfirmationID))
	return updated, true, nil
}

// findOnLedger reports a confirmed record. A record still pending from an
// earlier attempt is awaited instead of being submitted again.
func (s *approvalService) findOnLedger(ctx context.Context, record ledger.Record) (ledger.Receipt, bool, error) {
	receipt, found, err := s.ledgerClient.Exists(ctx, record)
	if err != nil {
		return ledger.Receipt{}, false, fmt.Errorf("failed to check ledger for %s: %w", record.Token, err)
	}
	if !found {
		return ledger.Receipt{}, false, nil
	}
	if receipt.Confirmed() {
		return receipt, true, nil
	}
	if receipt.Handle == "" {
		return ledger.Receipt{}, false, fmt.Errorf("%w: %s is pending on the ledger", apperrors.ErrConfirmationTimeout, record.Token)
	}

	confirmed, err := s.ledgerClient.AwaitConfirmation(ctx, ledger.PendingHandle{ID: receipt.Handle, Record: record})
	if err != nil {
		return ledger.Receipt{}, false, fmt.Errorf("failed to confirm %s on ledger: %w", record.Token, err)
	}
	if !confirmed.Confirmed() {
		// the earlier submission failed on-chain; a fresh one is allowed
		return ledger.Receipt{}, false, nil
	}
	return confirmed, true, nil
}

func (s *approvalService) submitAndAwait(ctx context.Context, req *domain.CreditRequest, record ledger.Record) (ledger.Receipt, error) {
	if err := s.creditRepo.MarkApprovalStarted(ctx, req.CreditRequestID, s.Now()); err != nil {
		return ledger.Receipt{}, fmt.Errorf("failed to mark approval started for %s: %w", req.CreditRequestID, err)
	}

	handle, err := s.ledgerClient.Submit(ctx, record)
	if err != nil {
		if errors.Is(err, apperrors.ErrSubmissionRejected) {
			s.clearInFlight(ctx, req.CreditRequestID)
		}
		return ledger.Receipt{}, fmt.Errorf("failed to submit %s to ledger: %w", record.Token, err)
	}

	receipt, err := s.ledgerClient.AwaitConfirmation(ctx, handle)
	if err != nil {
		return ledger.Receipt{}, fmt.Errorf("failed to confirm %s on ledger: %w", record.Token, err)
	}
	if !receipt.Confirmed() {
		reason := receipt.Reason
		if reason == "" {
			reason = "ledger reported " + string(receipt.State)
		}
		if receipt.State == ledger.ReceiptFailed {
			s.clearInFlight(ctx, req.CreditRequestID)
		}
		return ledger.Receipt{}, fmt.Errorf("%w: %s: %s", apperrors.ErrSubmissionRejected, record.Token, reason)
	}
	return receipt, nil
}

// clearInFlight drops the approval marker so reads and the sweeper stop
// consulting the ledger. A failure only costs an extra ledger lookup later.
func (s *approvalService) clearInFlight(ctx context.Context, creditRequestID string) {
	if err := s.creditRepo.ClearApprovalStarted(ctx, creditRequestID); err != nil {
		s.LogWarn(ctx, "Failed to clear approval marker", slog.String("credit_request_id", creditRequestID), slog.String("error", err.Error()))
	}
}

// commit writes the confirmed approval locally, retrying with backoff. Every
// retry re-reads the ledger so the stored confirmation always matches it.
// Exhausting the retries leaves a confirmed record with no local entry, which
// is reported as ErrReconciliationRequired.
func (s *approvalService) commit(ctx context.Context, req *domain.CreditRequest, record ledger.Record, receipt ledger.Receipt, actorID string) (*domain.CreditRequest, *domain.AcademicLedgerEntry, error) {
	entry := domain.AcademicLedgerEntry{
		EntryID:         uuid.NewString(),
		CreditRequestID: req.CreditRequestID,
		StudentID:       req.StudentID,
		StudentPRN:      req.StudentPRN,
		StudentName:     req.StudentName,
		StudentEmail:    req.StudentEmail,
		CourseName:      req.CourseName,
		Platform:        req.Platform,
		Credits:         req.Credits,
		SourceType:      req.CreditType.SourceType(),
		ConfirmationID:  receipt.ConfirmationID,
		CreatedBy:       actorID,
	}

	var updated *domain.CreditRequest
	var stored *domain.AcademicLedgerEntry
	attempt := 0

	op := func() error {
		attempt++
		if attempt > 1 {
			current, found, err := s.ledgerClient.Exists(ctx, record)
			if err != nil {
				return err
			}
			if !found || !current.Confirmed() {
				return backoff.Permanent(fmt.Errorf("%w: ledger no longer reports %s as confirmed", apperrors.ErrDataCorruption, record.Token))
			}
			entry.ConfirmationID = current.ConfirmationID
		}

		now := s.Now()
		entry.CreatedAt = now
		u, e, err := s.creditRepo.CommitApproval(ctx, entry, actorID, now)
		if err != nil {
			if errors.Is(err, apperrors.ErrInvalidTransition) || errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrDataCorruption) {
				return backoff.Permanent(err)
			}
			return err
		}
		updated, stored = u, e
		return nil
	}

	notify := func(err error, wait time.Duration) {
		s.LogWarn(ctx, "Local commit of ledger-confirmed approval failed, retrying",
			slog.String("credit_request_id", req.CreditRequestID),
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(s.commitBackoff(), uint64(s.commitAttempts-1)), ctx)
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		wrapped := fmt.Errorf("%w: credit request %s is confirmed on the ledger as %s but was not recorded after %d attempts: %w",
			apperrors.ErrReconciliationRequired, req.CreditRequestID, receipt.ConfirmationID, attempt, err)
		s.LogError(ctx, wrapped, "Approval requires reconciliation",
			slog.String("credit_request_id", req.CreditRequestID),
			slog.String("confirmation_id", receipt.ConfirmationID))
		s.escalate(ctx, req, wrapped)
		return nil, nil, wrapped
	}
	return updated, stored, nil
}

// revalidate re-derives the value with the rule set that produced it.
func revalidate(req *domain.CreditRequest) error {
	rules, err := valuation.ForVersion(req.ValuationVersion)
	if err != nil {
		return err
	}
	res, err := rules.Evaluate(req.Duration, string(req.CreditType), req.Platform)
	if err != nil {
		return fmt.Errorf("%w: stored duration %q of %s no longer values: %v", apperrors.ErrDataCorruption, req.Duration, req.CreditRequestID, err)
	}
	if res.Credits != req.Credits || res.Classification != req.CreditType {
		return fmt.Errorf("%w: %s stores %d %s credits but rules %s give %d %s",
			apperrors.ErrDataCorruption, req.CreditRequestID, req.Credits, req.CreditType, rules.Version, res.Credits, res.Classification)
	}
	return nil
}

func approvalOutcome(err error, alreadyOnLedger bool) string {
	switch {
	case err == nil && alreadyOnLedger:
		return metrics.OutcomeAlreadyOnLedger
	case err == nil:
		return metrics.OutcomeApproved
	case errors.Is(err, apperrors.ErrReconciliationRequired):
		return metrics.OutcomeReconciliationRequired
	case errors.Is(err, apperrors.ErrSubmissionRejected):
		return metrics.OutcomeRejectedByLedger
	case apperrors.IsRetryable(err):
		return metrics.OutcomeRetryable
	case errors.Is(err, apperrors.ErrConcurrentModification):
		return metrics.OutcomeConflict
	}
	return metrics.OutcomeFailed
}
