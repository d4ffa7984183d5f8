package notify

import (
	"context"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/go-resty/resty/v2"
)

// WebhookNotifier forwards signals to a realtime gateway over HTTP, one POST
// per signal. Retries are left to the caller's circuit breaker.
type WebhookNotifier struct {
	client *resty.Client
	url    string
}

// NewWebhookNotifier creates a notifier posting to url.
//
// Parameters:
//   - url: Endpoint of the realtime gateway
//   - timeout: Deadline of a single POST
//
// Example:
//
//	n := notify.NewWebhookNotifier("http://gateway:8080/signals", 2*time.Second)
//	if err := n.ProviderOrdersChanged(ctx); err != nil {
//	    // Gateway down; the coordinator logs and moves on
//	}
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		client: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader("Content-Type", "application/json"),
		url: url,
	}
}

// ProviderOrdersChanged posts a provider-orders signal.
func (n *WebhookNotifier) ProviderOrdersChanged(ctx context.Context) error {
	return n.post(ctx, Signal{Channel: ChannelProviderOrders})
}

// CourierReadyOrdersChanged posts a courier-ready-orders signal.
func (n *WebhookNotifier) CourierReadyOrdersChanged(ctx context.Context) error {
	return n.post(ctx, Signal{Channel: ChannelCourierReadyOrders})
}

// RequesterOrdersChanged posts a requester-orders signal for one requester.
func (n *WebhookNotifier) RequesterOrdersChanged(ctx context.Context, requesterID kernel.UUID) error {
	return n.post(ctx, Signal{Channel: ChannelRequesterOrders, RequesterID: requesterID.String()})
}

// StockChanged posts a stock-changed signal.
func (n *WebhookNotifier) StockChanged(ctx context.Context) error {
	return n.post(ctx, Signal{Channel: ChannelStockChanged})
}

// post fails on transport errors and on any non-2xx status.
func (n *WebhookNotifier) post(ctx context.Context, s Signal) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(s).
		Post(n.url)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("realtime gateway returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// Noop discards every signal.
type Noop struct{}

// ProviderOrdersChanged does nothing.
func (Noop) ProviderOrdersChanged(context.Context) error { return nil }

// CourierReadyOrdersChanged does nothing.
func (Noop) CourierReadyOrdersChanged(context.Context) error { return nil }

// RequesterOrdersChanged does nothing.
func (Noop) RequesterOrdersChanged(context.Context, kernel.UUID) error { return nil }

// StockChanged does nothing.
func (Noop) StockChanged(context.Context) error { return nil }
