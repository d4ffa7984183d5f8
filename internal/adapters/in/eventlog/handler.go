// Package eventlog consumes order events from the bus and writes them to the
// structured log. Deliveries are deduplicated by message id.
package eventlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"marketplace/internal/core/application/orchestration"
	"marketplace/internal/pkg/metrics"
)

// ErrMalformedEvent marks a payload that can never be processed. Such
// deliveries are dropped instead of requeued.
var ErrMalformedEvent = errors.New("malformed event")

const (
	outcomeLogged    = "logged"
	outcomeDuplicate = "duplicate"
	outcomeMalformed = "malformed"
	outcomeError     = "error"
)

// Claimer records that a message id was handled.
type Claimer interface {
	ClaimEvent(ctx context.Context, messageID string) (bool, error)
}

// Message is a delivery stripped of its transport details.
type Message struct {
	ID    string
	Topic string
	Body  []byte
}

// Handler writes each order event to the structured log at most once per message id.
type Handler struct {
	claimer Claimer
	logger  *slog.Logger
}

// NewHandler creates a handler deduplicating through claimer.
//
// Example:
//
//	handler := eventlog.NewHandler(rediscache.NewCache(client), logger)
//	err := handler.Handle(ctx, eventlog.Message{ID: d.MessageId, Topic: d.RoutingKey, Body: d.Body})
func NewHandler(claimer Claimer, logger *slog.Logger) *Handler {
	return &Handler{claimer: claimer, logger: logger.With("component", "event_log")}
}

// Handle logs msg once. Messages without an id cannot be deduplicated and are
// logged every time they arrive.
func (h *Handler) Handle(ctx context.Context, msg Message) error {
	var event orchestration.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		h.count(msg.Topic, outcomeMalformed)
		return fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if event.OrderID == "" {
		h.count(msg.Topic, outcomeMalformed)
		return fmt.Errorf("%w: missing orderId", ErrMalformedEvent)
	}

	if msg.ID != "" {
		claimed, err := h.claimer.ClaimEvent(ctx, msg.ID)
		if err != nil {
			h.count(msg.Topic, outcomeError)
			return err
		}
		if !claimed {
			h.count(msg.Topic, outcomeDuplicate)
			h.logger.Debug("Duplicate event skipped", "messageId", msg.ID, "topic", msg.Topic)
			return nil
		}
	}

	h.logger.Info("Order event",
		"messageId", msg.ID,
		"topic", msg.Topic,
		"orderId", event.OrderID,
		"action", event.Action,
		"status", event.Status,
		"version", event.Version,
		"occurredAt", event.OccurredAt,
	)
	h.count(msg.Topic, outcomeLogged)
	return nil
}

// count records the outcome of one message.
func (h *Handler) count(topic, outcome string) {
	metrics.EventsConsumedTotal.WithLabelValues(topic, outcome).Inc()
}
