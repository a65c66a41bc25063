package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/lalarentals/users-micro/internal/config"
	"github.com/lalarentals/users-micro/internal/notify"
)

// Publisher hands emails to the broker.  It implements notify.Deliverer so
// it can sit behind an AsyncDispatcher like any other transport.
type Publisher struct {
	url    string
	queue  string
	logger *slog.Logger
	now    func() time.Time
}

func NewPublisher(cfg config.AMQPConfig, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{url: cfg.URL, queue: cfg.Queue, logger: logger, now: time.Now}
}

// Deliver publishes msg as a persistent EmailRequested message on the
// durable queue.  A connection is opened per call; volume is a handful of
// messages per booking.
func (p *Publisher) Deliver(ctx context.Context, msg notify.Message) error {
	body, err := json.Marshal(NewEmailRequested(msg, p.now()))
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Warn("rabbitmq: dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch, p.queue); err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		Body:         body,
	}
	// default exchange, routing key = queue name
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// declare makes sure the durable queue exists.  It is idempotent.
func declare(ch *amqp.Channel, queue string) error {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return nil
}
