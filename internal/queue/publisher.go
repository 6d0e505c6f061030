package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends PaymentConfirmedEvents.
type Publisher interface {
	PublishPaymentConfirmed(ctx context.Context, ev PaymentConfirmedEvent) error
}

// AMQPPublisher dials the broker per publish.  Confirmations are rare
// enough that holding a connection open is not worth the reconnect logic.
type AMQPPublisher struct {
	url    string
	logger echo.Logger
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string, logger echo.Logger) *AMQPPublisher {
	return &AMQPPublisher{url: url, logger: logger}
}

// PublishPaymentConfirmed publishes ev as a persistent message on the
// payment.confirmed queue.  Errors are logged and returned so the caller
// can choose to ignore them.
func (p *AMQPPublisher) PublishPaymentConfirmed(ctx context.Context, ev PaymentConfirmedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Warnf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warnf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch); err != nil {
		p.logger.Warnf("rabbitmq: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", PaymentConfirmedQueue, false, false, pub); err != nil {
		p.logger.Warnf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// NopPublisher drops every event.  Used when EVENTS_ENABLED is off.
type NopPublisher struct{}

func (NopPublisher) PublishPaymentConfirmed(context.Context, PaymentConfirmedEvent) error { return nil }

func declare(ch *amqp.Channel) error {
	if _, err := ch.QueueDeclare(PaymentConfirmedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return nil
}
