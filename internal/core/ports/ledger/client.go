// Package ledger describes the external, append-only ledger that credit
// approvals are anchored to.
package ledger

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
)

// ReceiptState is the ledger-side state of a submitted record.
type ReceiptState string

const (
	ReceiptPending   ReceiptState = "pending"
	ReceiptConfirmed ReceiptState = "confirmed"
	ReceiptFailed    ReceiptState = "failed"
)

// Record is the payload anchored on the ledger for one credit request.
// Token is derived from the credit request ID, so it is stable across retries
// and doubles as the idempotency key for Exists.
type Record struct {
	Token       string `json:"token"`
	Fingerprint string `json:"fingerprint"`
}

// NewRecord builds the ledger record for a credit request. The fingerprint is the
// Keccak-256 digest of the evidence locator.
func NewRecord(creditRequestID, evidenceLocator string) Record {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(evidenceLocator))
	return Record{
		Token:       TokenFor(creditRequestID),
		Fingerprint: "0x" + hex.EncodeToString(h.Sum(nil)),
	}
}

// TokenFor returns the ledger token for a credit request.
func TokenFor(creditRequestID string) string {
	return "cr-" + creditRequestID
}

// CreditRequestIDFromToken reverses TokenFor.
func CreditRequestIDFromToken(token string) (string, bool) {
	id, ok := strings.CutPrefix(token, "cr-")
	return id, ok && id != ""
}

// Payload is the canonical string form submitted to the ledger.
func (r Record) Payload() string {
	return r.Token + ":" + r.Fingerprint
}

// PendingHandle refers to a submitted but not yet confirmed record.
type PendingHandle struct {
	ID          string
	Record      Record
	SubmittedAt time.Time
}

// Receipt is the ledger's answer about a record.
type Receipt struct {
	State          ReceiptState
	ConfirmationID string
	Handle         string
	Reason         string
}

// Confirmed reports whether the ledger has durably accepted the record.
func (r Receipt) Confirmed() bool {
	return r.State == ReceiptConfirmed && r.ConfirmationID != ""
}

// Client talks to the external ledger. Errors wrap apperrors.ErrSubmissionRejected,
// apperrors.ErrConfirmationTimeout or apperrors.ErrLedgerUnavailable.
type Client interface {
	// Submit sends a record for inclusion. It does not wait for confirmation.
	Submit(ctx context.Context, rec Record) (PendingHandle, error)

	// AwaitConfirmation blocks until the record is confirmed, fails, or the
	// configured confirmation timeout elapses.
	AwaitConfirmation(ctx context.Context, handle PendingHandle) (Receipt, error)

	// Exists looks the record up by token. A record that failed on the ledger is
	// reported as not found.
	Exists(ctx context.Context, rec Record) (Receipt, bool, error)
}
