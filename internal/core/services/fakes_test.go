package services_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/ledger"
	portsrepo "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/repositories"
)

var errTransientDB = errors.New("connection reset by peer")

// memoryStore is an in-memory stand-in for the three Postgres repositories.
// CommitApproval is atomic under the store mutex like the real transaction.
type memoryStore struct {
	mu       sync.Mutex
	students map[string]domain.StudentAccount
	requests map[string]domain.CreditRequest
	entries  map[string]domain.AcademicLedgerEntry // keyed by credit request ID

	commitFailures int
	commitCalls    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		students: make(map[string]domain.StudentAccount),
		requests: make(map[string]domain.CreditRequest),
		entries:  make(map[string]domain.AcademicLedgerEntry),
	}
}

var (
	_ portsrepo.CreditRequestRepositoryFacade = (*memoryStore)(nil)
	_ portsrepo.StudentRepositoryFacade       = (*memoryStore)(nil)
	_ portsrepo.LedgerEntryRepositoryFacade   = (*memoryStore)(nil)
)

func (s *memoryStore) failNextCommits(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitFailures = n
}

func (s *memoryStore) SaveStudent(ctx context.Context, student domain.StudentAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.students {
		if existing.PRN == student.PRN || existing.StudentID == student.StudentID {
			return fmt.Errorf("%w: student", apperrors.ErrDuplicate)
		}
	}
	s.students[student.StudentID] = student
	return nil
}

func (s *memoryStore) FindStudentByID(ctx context.Context, studentID string) (*domain.StudentAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.students[studentID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &st, nil
}

func (s *memoryStore) FindStudentByPRN(ctx context.Context, prn string) (*domain.StudentAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.students {
		if st.PRN == prn {
			st := st
			return &st, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memoryStore) SaveCreditRequest(ctx context.Context, req domain.CreditRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.CreditRequestID]; ok {
		return apperrors.ErrDuplicate
	}
	s.requests[req.CreditRequestID] = req
	return nil
}

func (s *memoryStore) FindCreditRequestByID(ctx context.Context, id string) (*domain.CreditRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &req, nil
}

func newestFirst(reqs []domain.CreditRequest) {
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].CreatedAt.Equal(reqs[j].CreatedAt) {
			return reqs[i].CreditRequestID > reqs[j].CreditRequestID
		}
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
}

func (s *memoryStore) ListCreditRequestsByStudent(ctx context.Context, studentID string) ([]domain.CreditRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.CreditRequest{}
	for _, r := range s.requests {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	newestFirst(out)
	return out, nil
}

func (s *memoryStore) ListCreditRequests(ctx context.Context, status *domain.CreditStatus, limit int, nextToken *string) ([]domain.CreditRequest, *string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.CreditRequest{}
	for _, r := range s.requests {
		if status == nil || r.Status == *status {
			out = append(out, r)
		}
	}
	newestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil, nil
}

func (s *memoryStore) ListApprovalsInFlight(ctx context.Context, startedBefore time.Time, limit int) ([]domain.CreditRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.CreditRequest{}
	for _, r := range s.requests {
		if r.ApprovalInFlight() && r.ApprovalStartedAt.Before(startedBefore) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memoryStore) TransitionCreditRequest(ctx context.Context, id string, target domain.CreditStatus, reason string, actorID string, now time.Time) (*domain.CreditRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if err := req.CanTransitionTo(target); err != nil {
		return nil, err
	}
	req.Status = target
	req.RejectReason = reason
	req.LastUpdatedAt = now
	req.LastUpdatedBy = actorID
	req.Version++
	s.requests[id] = req
	return &req, nil
}

func (s *memoryStore) MarkApprovalStarted(ctx context.Context, id string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if req.Status.IsTerminal() {
		return apperrors.ErrInvalidTransition
	}
	if req.ApprovalStartedAt == nil {
		req.ApprovalStartedAt = &now
		s.requests[id] = req
	}
	return nil
}

func (s *memoryStore) ClearApprovalStarted(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok || req.Status.IsTerminal() {
		return nil
	}
	req.ApprovalStartedAt = nil
	s.requests[id] = req
	return nil
}

func (s *memoryStore) CommitApproval(ctx context.Context, entry domain.AcademicLedgerEntry, actorID string, now time.Time) (*domain.CreditRequest, *domain.AcademicLedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitCalls++
	if s.commitFailures > 0 {
		s.commitFailures--
		return nil, nil, errTransientDB
	}

	req, ok := s.requests[entry.CreditRequestID]
	if !ok {
		return nil, nil, apperrors.ErrNotFound
	}
	if existing, ok := s.entries[entry.CreditRequestID]; ok {
		return &req, &existing, nil
	}
	if err := req.CanTransitionTo(domain.StatusApproved); err != nil {
		return nil, nil, err
	}
	student, ok := s.students[entry.StudentID]
	if !ok {
		return nil, nil, apperrors.ErrNotFound
	}

	s.entries[entry.CreditRequestID] = entry
	req.Status = domain.StatusApproved
	req.LastUpdatedAt = now
	req.LastUpdatedBy = actorID
	s.requests[req.CreditRequestID] = req
	student.TotalCredits += entry.Credits
	s.students[student.StudentID] = student
	return &req, &entry, nil
}

func (s *memoryStore) entryList(match func(domain.AcademicLedgerEntry) bool) []domain.AcademicLedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.AcademicLedgerEntry{}
	for _, e := range s.entries {
		if match(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *memoryStore) FindEntriesByStudent(ctx context.Context, studentID string) ([]domain.AcademicLedgerEntry, error) {
	return s.entryList(func(e domain.AcademicLedgerEntry) bool { return e.StudentID == studentID }), nil
}

func (s *memoryStore) FindEntriesByPRN(ctx context.Context, prn string) ([]domain.AcademicLedgerEntry, error) {
	return s.entryList(func(e domain.AcademicLedgerEntry) bool { return e.StudentPRN == prn }), nil
}

func (s *memoryStore) FindEntryByCreditRequest(ctx context.Context, id string) (*domain.AcademicLedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (s *memoryStore) ListEntries(ctx context.Context, limit, offset int) ([]domain.AcademicLedgerEntry, error) {
	all := s.entryList(func(domain.AcademicLedgerEntry) bool { return true })
	if offset >= len(all) {
		return []domain.AcademicLedgerEntry{}, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (s *memoryStore) SumCreditsByStudent(ctx context.Context, studentID string) (int, error) {
	total := 0
	for _, e := range s.entryList(func(e domain.AcademicLedgerEntry) bool { return e.StudentID == studentID }) {
		total += e.Credits
	}
	return total, nil
}

// fakeLedger models the external ledger. A submitted record is confirmed on
// the ledger side even when AwaitConfirmation is told to fail, which is the
// "confirmed after the caller gave up" case.
type fakeLedger struct {
	mu       sync.Mutex
	records  map[string]ledger.Receipt
	submits  int
	exists   int
	nextID   int
	submitFn func(rec ledger.Record) error
	awaitErr []error // consumed one per AwaitConfirmation call
	failWith string  // non-empty makes the ledger fail records with this reason
	existErr error

	awaitGate chan struct{} // when set, AwaitConfirmation blocks until closed
	awaiting  chan struct{} // signalled when AwaitConfirmation starts
}

var _ ledger.Client = (*fakeLedger)(nil)

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: make(map[string]ledger.Receipt)}
}

func (l *fakeLedger) Submit(ctx context.Context, rec ledger.Record) (ledger.PendingHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.submitFn != nil {
		if err := l.submitFn(rec); err != nil {
			return ledger.PendingHandle{}, err
		}
	}
	l.submits++
	l.nextID++
	handle := fmt.Sprintf("h-%d", l.nextID)
	if l.failWith != "" {
		l.records[rec.Token] = ledger.Receipt{State: ledger.ReceiptFailed, Handle: handle, Reason: l.failWith}
	} else {
		l.records[rec.Token] = ledger.Receipt{State: ledger.ReceiptConfirmed, Handle: handle, ConfirmationID: fmt.Sprintf("0xconf%d", l.nextID)}
	}
	return ledger.PendingHandle{ID: handle, Record: rec, SubmittedAt: time.Now()}, nil
}

func (l *fakeLedger) AwaitConfirmation(ctx context.Context, handle ledger.PendingHandle) (ledger.Receipt, error) {
	if l.awaiting != nil {
		l.awaiting <- struct{}{}
	}
	if l.awaitGate != nil {
		<-l.awaitGate
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.awaitErr) > 0 {
		err := l.awaitErr[0]
		l.awaitErr = l.awaitErr[1:]
		if err != nil {
			return ledger.Receipt{}, err
		}
	}
	return l.records[handle.Record.Token], nil
}

func (l *fakeLedger) Exists(ctx context.Context, rec ledger.Record) (ledger.Receipt, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.exists++
	if l.existErr != nil {
		return ledger.Receipt{}, false, l.existErr
	}
	r, ok := l.records[rec.Token]
	if !ok || r.State == ledger.ReceiptFailed {
		return ledger.Receipt{}, false, nil
	}
	return r, true, nil
}

func (l *fakeLedger) submitCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.submits
}
