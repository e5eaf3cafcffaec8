package onboarding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mgilberte/opsdeck-backend/pkg/config"
)

// webhookPayload is the JSON body posted to the configured endpoint.
type webhookPayload struct {
	Event      string `json:"event"`
	ClientName string `json:"clientName"`
	Amount     string `json:"amount"`
	AcceptedAt string `json:"acceptedAt"`
}

// WebhookNotifier posts acceptance notifications to a configured URL. An
// empty URL disables delivery entirely.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier builds a notifier from config.
func NewWebhookNotifier(cfg config.OnboardingConfig) *WebhookNotifier {
	timeout := cfg.WebhookTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookNotifier{
		url:    cfg.WebhookURL,
		client: &http.Client{Timeout: timeout},
	}
}

// NotifyAccepted delivers the notification once; no retries.
func (n *WebhookNotifier) NotifyAccepted(ctx context.Context, accepted AcceptedOffer) error {
	if n.url == "" {
		return nil
	}

	payload := webhookPayload{
		Event:      "offer.accepted",
		ClientName: accepted.ClientName,
		Amount:     accepted.Amount.StringFixed(2),
		AcceptedAt: accepted.AcceptedAt.UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
