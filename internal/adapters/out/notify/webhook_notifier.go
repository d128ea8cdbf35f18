// Package notify provides outbound messaging adapters. Each adapter implements
// ports.Notifier for one transport; the outbox worker picks the adapter by the
// message's platform.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dispatch/internal/core/domain/model/outbox"
)

// WebhookNotifier delivers outbox messages by POSTing them as JSON to a
// configured platform endpoint (a bot gateway or relay service).
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a notifier that posts to the given endpoint.
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// webhookBody is the wire format accepted by platform relay endpoints.
type webhookBody struct {
	MessageID   string          `json:"message_id"`
	RecipientID string          `json:"recipient_id"`
	MessageType string          `json:"message_type"`
	Payload     json.RawMessage `json:"payload"`
}

// Send posts one message to the relay for one concrete recipient. Any non-2xx
// response counts as a failed attempt and feeds the outbox backoff.
func (n *WebhookNotifier) Send(ctx context.Context, message *outbox.Message, recipientChatID string) error {
	body, err := json.Marshal(webhookBody{
		MessageID:   message.ID().String(),
		RecipientID: recipientChatID,
		MessageType: message.MessageType(),
		Payload:     message.Payload(),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("notify endpoint returned status %d", resp.StatusCode)
	}

	return nil
}
