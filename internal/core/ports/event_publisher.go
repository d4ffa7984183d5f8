package ports

import "context"

// EventPublisher emits domain events on a routing-key addressed bus.
// Delivery is at-least-once; consumers must tolerate duplicates.
type EventPublisher interface {
	// Publish sends payload, encoded as JSON, under topic.
	Publish(ctx context.Context, topic string, payload any) error
}
