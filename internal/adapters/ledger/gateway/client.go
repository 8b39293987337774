// Package gateway implements ledger.Client against the HTTP ledger gateway.
//
// The gateway fronts the on-chain certificate registry:
//
//	POST /records           {token, fingerprint, payload} -> 202 {handle}
//	GET  /records/{handle}  -> 200 {handle, state, confirmationID, reason}
//	GET  /tokens/{token}    -> 200 receipt | 404
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/ledger"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/metrics"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

// Config configures the gateway client.
type Config struct {
	BaseURL             string
	Token               string
	RequestTimeout      time.Duration
	ConfirmationTimeout time.Duration
	PollInterval        time.Duration
	MaxPollInterval     time.Duration
}

type Client struct {
	http   *resty.Client
	cfg    Config
	logger *slog.Logger
}

var _ ledger.Client = (*Client)(nil)

var errStillPending = errors.New("record still pending")

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.MaxPollInterval <= 0 {
		cfg.MaxPollInterval = 8 * cfg.PollInterval
	}
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		httpClient.SetAuthToken(cfg.Token)
	}
	return &Client{http: httpClient, cfg: cfg, logger: logger}
}

type submitRequest struct {
	Token       string `json:"token"`
	Fingerprint string `json:"fingerprint"`
	Payload     string `json:"payload"`
}

type submitResponse struct {
	Handle string `json:"handle"`
}

type receiptResponse struct {
	Handle         string `json:"handle"`
	State          string `json:"state"`
	ConfirmationID string `json:"confirmationID"`
	Reason         string `json:"reason"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (r receiptResponse) toReceipt() ledger.Receipt {
	return ledger.Receipt{
		State:          ledger.ReceiptState(r.State),
		ConfirmationID: r.ConfirmationID,
		Handle:         r.Handle,
		Reason:         r.Reason,
	}
}

// Submit posts the record. A 4xx answer means the gateway will never accept it.
func (c *Client) Submit(ctx context.Context, rec ledger.Record) (ledger.PendingHandle, error) {
	var out submitResponse
	var errOut errorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(submitRequest{Token: rec.Token, Fingerprint: rec.Fingerprint, Payload: rec.Payload()}).
		SetResult(&out).
		SetError(&errOut).
		Post("/records")
	if err = classify("submit", resp, err, errOut); err != nil {
		metrics.ObserveLedgerCall("submit", err)
		return ledger.PendingHandle{}, err
	}
	metrics.ObserveLedgerCall("submit", nil)
	if out.Handle == "" {
		return ledger.PendingHandle{}, fmt.Errorf("%w: gateway returned no handle for %s", apperrors.ErrLedgerUnavailable, rec.Token)
	}

	c.logger.Debug("Submitted ledger record", slog.String("token", rec.Token), slog.String("handle", out.Handle))
	return ledger.PendingHandle{ID: out.Handle, Record: rec, SubmittedAt: time.Now().UTC()}, nil
}

// Status fetches the current receipt for a handle without waiting.
func (c *Client) Status(ctx context.Context, handle ledger.PendingHandle) (ledger.Receipt, error) {
	var out receiptResponse
	var errOut errorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("handle", handle.ID).
		SetResult(&out).
		SetError(&errOut).
		Get("/records/{handle}")
	if err = classify("status", resp, err, errOut); err != nil {
		metrics.ObserveLedgerCall("status", err)
		return ledger.Receipt{}, err
	}
	metrics.ObserveLedgerCall("status", nil)
	return out.toReceipt(), nil
}

// AwaitConfirmation polls Status with exponential backoff until the record
// leaves the pending state or ConfirmationTimeout elapses. Transient polling
// errors are retried until the deadline.
func (c *Client) AwaitConfirmation(ctx context.Context, handle ledger.PendingHandle) (ledger.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, c.cfg.ConfirmationTimeout)
	defer cancel()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.PollInterval
	b.MaxInterval = c.cfg.MaxPollInterval
	b.MaxElapsedTime = 0

	var receipt ledger.Receipt
	var lastErr error
	op := func() error {
		r, err := c.Status(waitCtx, handle)
		if err != nil {
			if errors.Is(err, apperrors.ErrSubmissionRejected) {
				return backoff.Permanent(err)
			}
			lastErr = err
			return err
		}
		if r.State == ledger.ReceiptPending {
			lastErr = errStillPending
			return errStillPending
		}
		receipt = r
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(b, waitCtx)); err != nil {
		if errors.Is(err, apperrors.ErrSubmissionRejected) {
			return ledger.Receipt{}, err
		}
		if ctx.Err() != nil {
			return ledger.Receipt{}, fmt.Errorf("%w: waiting for %s: %w", apperrors.ErrConfirmationTimeout, handle.Record.Token, ctx.Err())
		}
		c.logger.Warn("Ledger confirmation timed out",
			slog.String("token", handle.Record.Token),
			slog.String("handle", handle.ID),
			slog.Duration("timeout", c.cfg.ConfirmationTimeout),
			slog.Any("last_error", lastErr),
		)
		return ledger.Receipt{}, fmt.Errorf("%w: %s not confirmed within %s", apperrors.ErrConfirmationTimeout, handle.Record.Token, c.cfg.ConfirmationTimeout)
	}

	if receipt.State == ledger.ReceiptConfirmed && receipt.ConfirmationID == "" {
		return ledger.Receipt{}, fmt.Errorf("%w: confirmed receipt for %s carries no confirmation id", apperrors.ErrLedgerUnavailable, handle.Record.Token)
	}
	return receipt, nil
}

// Exists looks a record up by token. Failed records are reported as absent so
// they can be submitted again.
func (c *Client) Exists(ctx context.Context, rec ledger.Record) (ledger.Receipt, bool, error) {
	var out receiptResponse
	var errOut errorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("token", rec.Token).
		SetResult(&out).
		SetError(&errOut).
		Get("/tokens/{token}")
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		metrics.ObserveLedgerCall("exists", nil)
		return ledger.Receipt{}, false, nil
	}
	if err = classify("exists", resp, err, errOut); err != nil {
		metrics.ObserveLedgerCall("exists", err)
		return ledger.Receipt{}, false, err
	}
	metrics.ObserveLedgerCall("exists", nil)

	receipt := out.toReceipt()
	if receipt.State == ledger.ReceiptFailed {
		return receipt, false, nil
	}
	return receipt, true, nil
}

// classify maps a gateway answer onto the ledger error sentinels.
func classify(op string, resp *resty.Response, err error, body errorResponse) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrLedgerUnavailable, op, err)
	}
	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("%w: %s returned %d", apperrors.ErrLedgerUnavailable, op, status)
	case status >= 400:
		reason := body.Error
		if reason == "" {
			reason = http.StatusText(status)
		}
		return fmt.Errorf("%w: %s returned %d: %s", apperrors.ErrSubmissionRejected, op, status, reason)
	default:
		return fmt.Errorf("%w: %s returned unexpected status %d", apperrors.ErrLedgerUnavailable, op, status)
	}
}
