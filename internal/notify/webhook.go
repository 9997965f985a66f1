package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookNotifier implements Notifier by POSTing alert JSON to a
// configured URL. The receiving end decides what to do with it.
type WebhookNotifier struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// WebhookOption configures a WebhookNotifier.
type WebhookOption func(*WebhookNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) WebhookOption {
	return func(w *WebhookNotifier) {
		w.client = c
	}
}

// WithHeaders adds static headers to every webhook request, e.g. an
// authorization token.
func WithHeaders(headers map[string]string) WebhookOption {
	return func(w *WebhookNotifier) {
		w.headers = headers
	}
}

// NewWebhookNotifier creates a notifier POSTing to url.
func NewWebhookNotifier(url string, opts ...WebhookOption) *WebhookNotifier {
	w := &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// webhookPayload is the JSON body of one webhook delivery.
type webhookPayload struct {
	Event  string         `json:"event"`
	Watch  string         `json:"watch"`
	Alerts []AlertPayload `json:"alerts"`
}

// SendAlert delivers a single alert.
func (w *WebhookNotifier) SendAlert(ctx context.Context, alert *AlertPayload) error {
	return w.post(ctx, webhookPayload{
		Event:  "price_alert",
		Watch:  alert.WatchName,
		Alerts: []AlertPayload{*alert},
	})
}

// SendBatchAlert delivers a batch of alerts in one request.
func (w *WebhookNotifier) SendBatchAlert(ctx context.Context, alerts []AlertPayload, watchName string) error {
	if len(alerts) == 0 {
		return nil
	}
	return w.post(ctx, webhookPayload{
		Event:  "price_alert_batch",
		Watch:  watchName,
		Alerts: alerts,
	})
}

func (w *WebhookNotifier) post(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
