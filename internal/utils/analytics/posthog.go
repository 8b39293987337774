// Package analytics wraps the PostHog client so callers need not care whether
// it was configured.
package analytics

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// Tracker sends product events. The zero value drops every event.
type Tracker struct {
	client posthog.Client
	logger *slog.Logger
}

// NewTracker returns a no-op tracker when apiKey is empty.
func NewTracker(apiKey, endpoint string, logger *slog.Logger) *Tracker {
	if apiKey == "" {
		logger.Warn("PostHog API key is empty, analytics disabled")
		return &Tracker{}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		logger.Error("Failed to initialize PostHog client, analytics disabled", slog.String("error", err.Error()))
		return &Tracker{}
	}
	return &Tracker{client: client, logger: logger}
}

func (t *Tracker) Enabled() bool {
	return t != nil && t.client != nil
}

// Enqueue queues an event for the given distinct ID.
func (t *Tracker) Enqueue(distinctID string, event string, properties map[string]any) {
	if !t.Enabled() {
		return
	}
	if err := t.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	}); err != nil {
		t.logger.Warn("Failed to enqueue analytics event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

func (t *Tracker) Close() {
	if !t.Enabled() {
		return
	}
	_ = t.client.Close()
}
