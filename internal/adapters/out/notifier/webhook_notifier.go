// Package notifier delivers work-complete notices to an external webhook.
// The receiving side is typically a staff messaging bridge that fans the
// notice out to the assigned archivists.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"circulation/internal/core/domain/services"
)

const defaultTimeout = 10 * time.Second

// payload is the wire format of a work-complete notice.
type payload struct {
	OrderID        string   `json:"order_id"`
	OrderURL       string   `json:"order_url"`
	Assignees      []string `json:"assignees"`
	RequestContext string   `json:"request_context,omitempty"`
}

// WebhookNotifier posts work-complete notices as JSON to a configured URL.
type WebhookNotifier struct {
	client        *http.Client
	webhookURL    string
	publicBaseURL string
	logger        *slog.Logger
}

// NewWebhookNotifier creates a notifier posting to webhookURL. The public
// base URL is used to build the order link embedded in each notice.
func NewWebhookNotifier(webhookURL, publicBaseURL string, logger *slog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		client:        &http.Client{Timeout: defaultTimeout},
		webhookURL:    webhookURL,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger.With("component", "webhook_notifier"),
	}
}

// Notify delivers the notice. A non-2xx response counts as a failure.
func (n *WebhookNotifier) Notify(ctx context.Context, notice services.WorkCompleteNotice) error {
	body, err := json.Marshal(payload{
		OrderID:        notice.OrderID.String(),
		OrderURL:       fmt.Sprintf("%s/#/orders/%s", n.publicBaseURL, notice.OrderID),
		Assignees:      notice.Assignees,
		RequestContext: notice.RequestContext,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
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
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	n.logger.Info("work complete notice delivered",
		"order_id", notice.OrderID,
		"assignees", len(notice.Assignees))
	return nil
}
