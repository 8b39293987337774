package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/adapters/locking"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/ledger"
	portssvc "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/services"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/services"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/dto"
	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/suite"
)

type escalation struct {
	requestID string
	err       error
}

type ApprovalServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	store  *memoryStore
	ledger *fakeLedger

	escalMu     sync.Mutex
	escalations []escalation

	approvals portssvc.ApprovalSvcFacade
	credits   portssvc.CreditRequestSvcFacade
	academic  portssvc.AcademicLedgerSvcFacade
	students  portssvc.StudentSvcFacade
	student   *domain.StudentAccount
}

func (suite *ApprovalServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = newMemoryStore()
	suite.ledger = newFakeLedger()
	suite.escalations = nil
	suite.buildServices(5)

	student, err := suite.students.CreateStudent(suite.ctx, dto.CreateStudentRequest{
		StudentID: "stu-1",
		Name:      "Asha Patil",
		Email:     "Asha@College.edu",
		PRN:       "2023000100020003",
	}, "admin-1")
	suite.Require().NoError(err)
	suite.student = student
}

func (suite *ApprovalServiceTestSuite) buildServices(commitAttempts int) {
	suite.approvals = services.NewApprovalService(suite.store, suite.ledger, locking.NewKeyedMutex(),
		services.WithCommitAttempts(commitAttempts),
		services.WithCommitBackoff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
		services.WithEscalation(func(_ context.Context, req *domain.CreditRequest, err error) {
			suite.escalMu.Lock()
			defer suite.escalMu.Unlock()
			suite.escalations = append(suite.escalations, escalation{requestID: req.CreditRequestID, err: err})
		}),
	)
	suite.credits = services.NewCreditRequestService(suite.store, suite.store, services.WithCreditReconciler(suite.approvals))
	suite.academic = services.NewAcademicLedgerService(suite.store, suite.store)
	suite.students = services.NewStudentService(suite.store)
}

func (suite *ApprovalServiceTestSuite) newRequest(duration, platform string) *domain.CreditRequest {
	req, err := suite.credits.CreateCreditRequest(suite.ctx, suite.student.StudentID, dto.CreateCreditRequest{
		CourseName:      "Cloud Computing",
		Platform:        platform,
		Duration:        duration,
		EvidenceLocator: "https://evidence.example/" + platform + "/" + duration,
	})
	suite.Require().NoError(err)
	return req
}

func (suite *ApprovalServiceTestSuite) stored(id string) domain.CreditRequest {
	req, err := suite.store.FindCreditRequestByID(suite.ctx, id)
	suite.Require().NoError(err)
	return *req
}

func (suite *ApprovalServiceTestSuite) entryCount() int {
	suite.store.mu.Lock()
	defer suite.store.mu.Unlock()
	return len(suite.store.entries)
}

func (suite *ApprovalServiceTestSuite) TestApprove_ExternalCourseEndToEnd() {
	req := suite.newRequest("8", "NPTEL (SWAYAM)")
	suite.Equal(2, req.Credits)
	suite.Equal(domain.CreditExternal, req.CreditType)
	suite.Equal(domain.StatusPending, req.Status)

	result, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.Require().NoError(err)

	suite.Equal(domain.StatusApproved, result.Request.Status)
	suite.Equal("External", result.Entry.SourceType)
	suite.Equal(2, result.Entry.Credits)
	suite.Equal(suite.student.PRN, result.Entry.StudentPRN)
	suite.NotEmpty(result.ConfirmationID)
	suite.Equal(result.ConfirmationID, result.Entry.ConfirmationID)
	suite.Equal(1, suite.ledger.submitCount())

	total, err := suite.academic.SumCredits(suite.ctx, suite.student.StudentID)
	suite.Require().NoError(err)
	suite.Equal(2, total)

	check, err := suite.academic.CheckConsistency(suite.ctx, suite.student.StudentID)
	suite.Require().NoError(err)
	suite.True(check.Consistent)
	suite.Equal(2, check.CounterTotal)
}

func (suite *ApprovalServiceTestSuite) TestApprove_RetryAfterTimeoutDoesNotResubmit() {
	req := suite.newRequest("12", "Coursera")
	suite.ledger.awaitErr = []error{fmt.Errorf("%w: no receipt yet", apperrors.ErrConfirmationTimeout)}

	_, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.ErrorIs(err, apperrors.ErrConfirmationTimeout)
	suite.True(apperrors.IsRetryable(err))

	pending := suite.stored(req.CreditRequestID)
	suite.Equal(domain.StatusPending, pending.Status)
	suite.NotNil(pending.ApprovalStartedAt)
	suite.Equal(0, suite.entryCount())

	result, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, result.Request.Status)
	suite.Equal(3, result.Entry.Credits)
	suite.Equal(1, suite.ledger.submitCount())
	suite.Equal(1, suite.entryCount())
}

func (suite *ApprovalServiceTestSuite) TestGetCreditRequest_SettlesInFlightApproval() {
	req := suite.newRequest("4", "")
	suite.ledger.awaitErr = []error{fmt.Errorf("%w: no receipt yet", apperrors.ErrConfirmationTimeout)}

	_, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.Require().ErrorIs(err, apperrors.ErrConfirmationTimeout)

	got, err := suite.credits.GetCreditRequest(suite.ctx, req.CreditRequestID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, got.Status)
	suite.Equal(services.ReconcilerActor, got.LastUpdatedBy)
	suite.Equal(1, suite.ledger.submitCount())

	entries, err := suite.academic.ListByStudent(suite.ctx, suite.student.StudentID)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Equal("Internal", entries[0].SourceType)
}

func (suite *ApprovalServiceTestSuite) TestGetCreditRequest_LedgerDownReturnsStoredState() {
	req := suite.newRequest("8", "")
	suite.ledger.awaitErr = []error{fmt.Errorf("%w: no receipt yet", apperrors.ErrConfirmationTimeout)}
	_, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.Require().Error(err)

	suite.ledger.existErr = fmt.Errorf("%w: 503", apperrors.ErrLedgerUnavailable)
	got, err := suite.credits.GetCreditRequest(suite.ctx, req.CreditRequestID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, got.Status)
}

func (suite *ApprovalServiceTestSuite) TestApprove_AlreadyOnLedgerSkipsSubmit() {
	req := suite.newRequest("8", "edX")
	_, err := suite.ledger.Submit(suite.ctx, ledger.NewRecord(req.CreditRequestID, req.EvidenceLocator))
	suite.Require().NoError(err)

	result, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, result.Request.Status)
	suite.Equal(1, suite.ledger.submitCount())
}

func (suite *ApprovalServiceTestSuite) TestApprove_LedgerRejectionLeavesRequestPending() {
	req := suite.newRequest("8", "")
	suite.ledger.failWith = "reverted"

	_, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.ErrorIs(err, apperrors.ErrSubmissionRejected)
	suite.False(apperrors.IsRetryable(err))
	suite.Equal(domain.StatusPending, suite.stored(req.CreditRequestID).Status)
	suite.Equal(0, suite.entryCount())
}

func (suite *ApprovalServiceTestSuite) TestApprove_LedgerRejectionClearsInFlightMarker() {
	req := suite.newRequest("8", "")
	suite.ledger.failWith = "reverted"

	_, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.Require().ErrorIs(err, apperrors.ErrSubmissionRejected)

	stored := suite.stored(req.CreditRequestID)
	suite.Nil(stored.ApprovalStartedAt)
	suite.False(stored.ApprovalInFlight())

	inFlight, err := suite.store.ListApprovalsInFlight(suite.ctx, time.Now().Add(time.Hour), 100)
	suite.Require().NoError(err)
	suite.Empty(inFlight)

	existsBefore := suite.ledger.exists
	_, err = suite.credits.GetCreditRequest(suite.ctx, req.CreditRequestID)
	suite.Require().NoError(err)
	suite.Equal(existsBefore, suite.ledger.exists)
}

func (suite *ApprovalServiceTestSuite) TestApprove_SubmitRefusedClearsInFlightMarker() {
	req := suite.newRequest("4", "")
	suite.ledger.submitFn = func(ledger.Record) error {
		return fmt.Errorf("%w: fingerprint malformed", apperrors.ErrSubmissionRejected)
	}

	_, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.Require().ErrorIs(err, apperrors.ErrSubmissionRejected)
	suite.Nil(suite.stored(req.CreditRequestID).ApprovalStartedAt)
}

func (suite *ApprovalServiceTestSuite) TestApprove_UnreachableLedgerKeepsMarker() {
	req := suite.newRequest("4", "")
	suite.ledger.submitFn = func(ledger.Record) error {
		return fmt.Errorf("%w: connection reset", apperrors.ErrLedgerUnavailable)
	}

	_, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.Require().ErrorIs(err, apperrors.ErrLedgerUnavailable)
	suite.NotNil(suite.stored(req.CreditRequestID).ApprovalStartedAt)
}

func (suite *ApprovalServiceTestSuite) TestApprove_LedgerUnavailableBeforeSubmit() {
	req := suite.newRequest("8", "")
	suite.ledger.existErr = fmt.Errorf("%w: dial tcp", apperrors.ErrLedgerUnavailable)

	_, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.ErrorIs(err, apperrors.ErrLedgerUnavailable)
	suite.Equal(0, suite.ledger.submitCount())
	suite.Nil(suite.stored(req.CreditRequestID).ApprovalStartedAt)
}

func (suite *ApprovalServiceTestSuite) TestApprove_TerminalRequestsNeverChange() {
	rejected := suite.newRequest("8", "")
	_, err := suite.approvals.Reject(suite.ctx, rejected.CreditRequestID, "certificate unreadable", "admin-1")
	suite.Require().NoError(err)

	_, err = suite.approvals.Approve(suite.ctx, rejected.CreditRequestID, "admin-1")
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Equal(0, suite.ledger.submitCount())

	approved := suite.newRequest("4", "")
	_, err = suite.approvals.Approve(suite.ctx, approved.CreditRequestID, "admin-1")
	suite.Require().NoError(err)

	_, err = suite.approvals.Approve(suite.ctx, approved.CreditRequestID, "admin-1")
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	_, err = suite.approvals.Reject(suite.ctx, approved.CreditRequestID, "changed my mind", "admin-1")
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)

	suite.Equal(domain.StatusApproved, suite.stored(approved.CreditRequestID).Status)
	suite.Equal(domain.StatusRejected, suite.stored(rejected.CreditRequestID).Status)
	suite.Equal(1, suite.entryCount())
}

func (suite *ApprovalServiceTestSuite) TestApprove_UnknownRequest() {
	_, err := suite.approvals.Approve(suite.ctx, "missing", "admin-1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ApprovalServiceTestSuite) TestApprove_RequestedStatusIsApprovable() {
	req := suite.newRequest("8", "")
	_, err := suite.store.TransitionCreditRequest(suite.ctx, req.CreditRequestID, domain.StatusRequested, "", "stu-1", time.Now())
	suite.Require().NoError(err)

	result, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, result.Request.Status)
}

func (suite *ApprovalServiceTestSuite) TestApprove_TamperedCreditsAreNotAnchored() {
	req := suite.newRequest("8", "")
	suite.store.mu.Lock()
	tampered := suite.store.requests[req.CreditRequestID]
	tampered.Credits = 3
	suite.store.requests[req.CreditRequestID] = tampered
	suite.store.mu.Unlock()

	_, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.ErrorIs(err, apperrors.ErrDataCorruption)
	suite.Equal(0, suite.ledger.submitCount())
	suite.Require().Len(suite.escalations, 1)
	suite.Equal(req.CreditRequestID, suite.escalations[0].requestID)
}

func (suite *ApprovalServiceTestSuite) TestApprove_CommitRetriesTransientFailures() {
	req := suite.newRequest("8", "")
	suite.store.failNextCommits(2)

	result, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, result.Request.Status)
	suite.Equal(3, suite.store.commitCalls)
	suite.Equal(1, suite.ledger.submitCount())
	suite.Empty(suite.escalations)
}

func (suite *ApprovalServiceTestSuite) TestApprove_CommitExhaustedRequiresReconciliation() {
	suite.buildServices(3)
	req := suite.newRequest("12", "")
	suite.store.failNextCommits(10)

	_, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.ErrorIs(err, apperrors.ErrReconciliationRequired)
	suite.ErrorIs(err, errTransientDB)
	suite.False(apperrors.IsRetryable(err))
	suite.Equal(3, suite.store.commitCalls)
	suite.Require().Len(suite.escalations, 1)
	suite.ErrorIs(suite.escalations[0].err, apperrors.ErrReconciliationRequired)

	// once the database recovers the reconciler settles it without a new submission
	suite.store.failNextCommits(0)
	settled, changed, err := suite.approvals.Reconcile(suite.ctx, req.CreditRequestID)
	suite.Require().NoError(err)
	suite.True(changed)
	suite.Equal(domain.StatusApproved, settled.Status)
	suite.Equal(1, suite.ledger.submitCount())
	suite.Equal(1, suite.entryCount())

	check, err := suite.academic.CheckConsistency(suite.ctx, suite.student.StudentID)
	suite.Require().NoError(err)
	suite.True(check.Consistent)
	suite.Equal(3, check.LedgerTotal)
}

func (suite *ApprovalServiceTestSuite) TestReconcile_NothingInFlight() {
	req := suite.newRequest("8", "")

	got, changed, err := suite.approvals.Reconcile(suite.ctx, req.CreditRequestID)
	suite.Require().NoError(err)
	suite.False(changed)
	suite.Equal(domain.StatusPending, got.Status)
	suite.Equal(0, suite.ledger.exists)
}

func (suite *ApprovalServiceTestSuite) TestReconcile_NeverSubmits() {
	req := suite.newRequest("8", "")
	suite.Require().NoError(suite.store.MarkApprovalStarted(suite.ctx, req.CreditRequestID, time.Now()))

	got, changed, err := suite.approvals.Reconcile(suite.ctx, req.CreditRequestID)
	suite.Require().NoError(err)
	suite.False(changed)
	suite.Equal(domain.StatusPending, got.Status)
	suite.Equal(0, suite.ledger.submitCount())
	// nothing on the ledger, so the marker is dropped
	suite.Nil(got.ApprovalStartedAt)
	suite.Nil(suite.stored(req.CreditRequestID).ApprovalStartedAt)
}

func (suite *ApprovalServiceTestSuite) TestReject_RequiresReason() {
	req := suite.newRequest("8", "")

	_, err := suite.approvals.Reject(suite.ctx, req.CreditRequestID, "   ", "admin-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(domain.StatusPending, suite.stored(req.CreditRequestID).Status)
}

func (suite *ApprovalServiceTestSuite) TestReject_StoresReason() {
	req := suite.newRequest("8", "")

	rejected, err := suite.approvals.Reject(suite.ctx, req.CreditRequestID, " duplicate claim ", "admin-1")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusRejected, rejected.Status)
	suite.Equal("duplicate claim", rejected.RejectReason)
	suite.Equal("admin-1", rejected.LastUpdatedBy)
	suite.Equal(0, suite.entryCount())
}

func (suite *ApprovalServiceTestSuite) TestReject_ConfirmedOnLedgerBecomesApproval() {
	req := suite.newRequest("8", "")
	suite.ledger.awaitErr = []error{fmt.Errorf("%w: no receipt yet", apperrors.ErrConfirmationTimeout)}
	_, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
	suite.Require().Error(err)

	_, err = suite.approvals.Reject(suite.ctx, req.CreditRequestID, "too late", "admin-2")
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Equal(domain.StatusApproved, suite.stored(req.CreditRequestID).Status)
	suite.Equal(1, suite.entryCount())
}

func (suite *ApprovalServiceTestSuite) TestReject_LedgerStateUnknown() {
	req := suite.newRequest("8", "")
	suite.Require().NoError(suite.store.MarkApprovalStarted(suite.ctx, req.CreditRequestID, time.Now()))
	suite.ledger.existErr = fmt.Errorf("%w: timeout", apperrors.ErrLedgerUnavailable)

	_, err := suite.approvals.Reject(suite.ctx, req.CreditRequestID, "no evidence", "admin-1")
	suite.ErrorIs(err, apperrors.ErrLedgerUnavailable)
	suite.Equal(domain.StatusPending, suite.stored(req.CreditRequestID).Status)
}

func (suite *ApprovalServiceTestSuite) TestConcurrentActorsOnOneRequest() {
	req := suite.newRequest("8", "")
	suite.ledger.awaitGate = make(chan struct{})
	suite.ledger.awaiting = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		_, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
		done <- err
	}()
	<-suite.ledger.awaiting

	_, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-2")
	suite.ErrorIs(err, apperrors.ErrConcurrentModification)
	_, err = suite.approvals.Reject(suite.ctx, req.CreditRequestID, "no", "admin-2")
	suite.ErrorIs(err, apperrors.ErrConcurrentModification)

	close(suite.ledger.awaitGate)
	suite.Require().NoError(<-done)
	suite.Equal(domain.StatusApproved, suite.stored(req.CreditRequestID).Status)
	suite.Equal(1, suite.ledger.submitCount())
}

func (suite *ApprovalServiceTestSuite) TestConcurrentApprovalsHaveOneWinner() {
	req := suite.newRequest("12", "")

	const actors = 8
	var wg sync.WaitGroup
	errs := make(chan error, actors)
	for i := 0; i < actors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := suite.approvals.Approve(suite.ctx, req.CreditRequestID, fmt.Sprintf("admin-%d", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		suite.True(
			isAny(err, apperrors.ErrConcurrentModification, apperrors.ErrInvalidTransition),
			"unexpected error: %v", err)
	}
	suite.Equal(1, wins)
	suite.Equal(1, suite.ledger.submitCount())
	suite.Equal(1, suite.entryCount())
}

func (suite *ApprovalServiceTestSuite) TestTotalsMatchEntriesAfterMixedDecisions() {
	durations := []string{"12", "8", "4", "8 weeks", "3"}
	for i, d := range durations {
		req, err := suite.credits.CreateCreditRequest(suite.ctx, suite.student.StudentID, dto.CreateCreditRequest{
			CourseName:      fmt.Sprintf("Course %d", i),
			Duration:        d,
			EvidenceLocator: fmt.Sprintf("ipfs://cert-%d", i),
		})
		if d == "3" {
			suite.ErrorIs(err, apperrors.ErrInvalidDuration)
			continue
		}
		suite.Require().NoError(err)
		if i%2 == 0 {
			_, err = suite.approvals.Approve(suite.ctx, req.CreditRequestID, "admin-1")
		} else {
			_, err = suite.approvals.Reject(suite.ctx, req.CreditRequestID, "not eligible", "admin-1")
		}
		suite.Require().NoError(err)
	}

	ledgerView, err := suite.academic.GetLedgerByPRN(suite.ctx, suite.student.PRN)
	suite.Require().NoError(err)
	suite.Equal(3+1, ledgerView.TotalCredits)
	suite.Len(ledgerView.Entries, 2)

	check, err := suite.academic.CheckConsistency(suite.ctx, suite.student.StudentID)
	suite.Require().NoError(err)
	suite.True(check.Consistent)
}

func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func TestApprovalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}
