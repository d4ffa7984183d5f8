package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const contentTypeJSON = "application/json"

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher implements ports.EventPublisher on one AMQP channel. It never
// reconnects: a broken channel keeps failing until the process restarts,
// and every failure is absorbed by the caller's side-effect handling.
type Publisher struct {
	mu       sync.Mutex
	ch       channel
	exchange string
	now      func() time.Time
}

// Dial opens a connection and channel and declares the exchange.
// The caller owns the returned connection.
func Dial(url, exchange string) (*Publisher, *amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	if err = DeclareExchange(ch, exchange); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	return NewPublisher(ch, exchange), conn, nil
}

// NewPublisher publishes to exchange on ch. The exchange must already exist.
//
// Example:
//
//	pub := eventbus.NewPublisher(ch, "marketplace.events")
//	err := pub.Publish(ctx, orchestration.TopicOrderCreated, payload)
func NewPublisher(ch channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange, now: time.Now}
}

// Publish sends payload as a persistent JSON message routed by topic. Each
// message gets a fresh MessageId that consumers use for deduplication.
func (p *Publisher) Publish(ctx context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", topic, err)
	}

	msg := amqp.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    p.now(),
		Type:         topic,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, topic, false, false, msg)
}

// Close closes the underlying channel.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.Close()
}

// OfflinePublisher stands in when the broker was unreachable at startup.
type OfflinePublisher struct {
	cause error
}

// NewOfflinePublisher creates a publisher that fails every call with cause.
func NewOfflinePublisher(cause error) OfflinePublisher {
	if cause == nil {
		cause = errors.New("event bus not configured")
	}
	return OfflinePublisher{cause: cause}
}

// Publish always fails, wrapping the startup error.
func (p OfflinePublisher) Publish(_ context.Context, topic string, _ any) error {
	return errs.NewDependencyUnavailableError("event bus ("+topic+")", p.cause)
}
