// Package eventbus publishes order events to a RabbitMQ topic exchange.
//
// Messages are persistent JSON with a unique MessageId so consumers can
// deduplicate at-least-once deliveries.
package eventbus

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "marketplace.events"

// DeclareExchange makes sure the durable topic exchange exists. Publisher and
// consumers both call it, so either can start first.
func DeclareExchange(ch *amqp.Channel, exchange string) error {
	return ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
}
