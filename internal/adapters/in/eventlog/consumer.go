package eventlog

import (
	"context"
	"errors"
	"log/slog"

	"marketplace/internal/adapters/out/eventbus"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultQueue = "order_events_log"
	// BindingKey matches every order topic however many words it has.
	BindingKey = "order.#"
	prefetch   = 10
)

var ErrDeliveriesClosed = errors.New("delivery channel closed by broker")

// Consumer feeds deliveries from a durable queue bound to every order topic
// into a Handler.
type Consumer struct {
	ch      *amqp.Channel
	queue   string
	handler *Handler
	logger  *slog.Logger
}

// NewConsumer opens a channel on conn and declares the exchange, the queue
// and its binding.
func NewConsumer(conn *amqp.Connection, exchange, queue string, handler *Handler, logger *slog.Logger) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	if err = eventbus.DeclareExchange(ch, exchange); err != nil {
		_ = ch.Close()
		return nil, err
	}

	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, err
	}

	if err = ch.QueueBind(queue, BindingKey, exchange, false, nil); err != nil {
		_ = ch.Close()
		return nil, err
	}

	if err = ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, err
	}

	return &Consumer{
		ch:      ch,
		queue:   queue,
		handler: handler,
		logger:  logger.With("component", "event_consumer", "queue", queue),
	}, nil
}

// Run consumes until ctx is cancelled or the broker closes the channel.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	c.logger.Info("Consuming")
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrDeliveriesClosed
			}
			c.HandleDelivery(ctx, d)
		}
	}
}

// HandleDelivery acks handled messages, drops malformed ones and requeues
// the rest.
func (c *Consumer) HandleDelivery(ctx context.Context, d amqp.Delivery) {
	err := c.handler.Handle(ctx, Message{ID: d.MessageId, Topic: d.RoutingKey, Body: d.Body})

	var ackErr error
	switch {
	case err == nil:
		ackErr = d.Ack(false)
	case errors.Is(err, ErrMalformedEvent):
		c.logger.Warn("Dropping malformed event", "messageId", d.MessageId, "topic", d.RoutingKey, "error", err)
		ackErr = d.Nack(false, false)
	default:
		c.logger.Error("Event handling failed, requeueing", "messageId", d.MessageId, "topic", d.RoutingKey, "error", err)
		ackErr = d.Nack(false, true)
	}

	if ackErr != nil {
		c.logger.Error("Acknowledgement failed", "messageId", d.MessageId, "error", ackErr)
	}
}

// Close closes the channel, which ends Run.
func (c *Consumer) Close() error {
	return c.ch.Close()
}
