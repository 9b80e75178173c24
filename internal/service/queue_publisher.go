// Package queue_publisher publishes booking events to RabbitMQ.  Errors are
// logged and returned so callers can decide to carry on without the event.
package queue_publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/bus-seat-booking/internal/queue"
)

// Publisher dials the broker for every publish.  Bookings are rare enough
// that holding a long-lived channel is not worth the reconnect logic.
type Publisher struct {
	URL    string
	Logger *slog.Logger
}

// PublishBookingConfirmed publishes event to the booking.confirmed queue as
// a persistent JSON message.
func (p *Publisher) PublishBookingConfirmed(ctx context.Context, event q.BookingConfirmedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return p.fail("marshal event", err)
	}

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return p.fail("dial", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return p.fail("channel open", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		q.BookingQueueName, // name
		true,               // durable
		false,              // autoDelete
		false,              // exclusive
		false,              // noWait
		nil,                // args
	); err != nil {
		return p.fail("queue declare", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.Reference,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",                 // default exchange
		q.BookingQueueName, // routing key = queue name
		false,              // mandatory
		false,              // immediate
		pub,
	); err != nil {
		return p.fail("publish", err)
	}
	return nil
}

func (p *Publisher) fail(step string, err error) error {
	if p.Logger != nil {
		p.Logger.Error("rabbitmq: "+step+" failed", slog.Any("error", err))
	}
	return fmt.Errorf("rabbitmq %s: %w", step, err)
}
