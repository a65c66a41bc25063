package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/lalarentals/users-micro/internal/config"
	"github.com/lalarentals/users-micro/internal/notify"
)

// Consumer drains the email queue into a Deliverer, normally SMTP.
type Consumer struct {
	url       string
	queue     string
	deliverer notify.Deliverer
	logger    *slog.Logger
	observe   func(result string)
}

func NewConsumer(cfg config.AMQPConfig, deliverer notify.Deliverer, logger *slog.Logger, observe func(string)) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	if observe == nil {
		observe = func(string) {}
	}
	return &Consumer{url: cfg.URL, queue: cfg.Queue, deliverer: deliverer, logger: logger, observe: observe}
}

// Run connects to the broker and consumes until ctx is cancelled,
// reconnecting with exponential backoff when the connection drops.  It
// returns nil on cancellation.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return nil
		}
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.Warn("email-consumer: failed to dial broker", "error", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.logger.Warn("email-consumer: consume loop ended; reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return nil
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		c.logger.Warn("email-consumer: set QoS failed", "error", err)
	}
	if err := declare(ch, c.queue); err != nil {
		return err
	}
	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Handle(ctx, d.Body); err != nil {
				c.logger.Error("email-consumer: handle message failed", "error", err)
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes one message body and delivers the email.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	ev, err := DecodeEmailRequested(body)
	if err != nil {
		c.observe(notify.ResultFailed)
		return fmt.Errorf("decode: %w", err)
	}
	if err := c.deliverer.Deliver(ctx, ev.Message()); err != nil {
		c.observe(notify.ResultFailed)
		return fmt.Errorf("deliver %s: %w", ev.ID, err)
	}
	c.observe(notify.ResultSent)
	c.logger.Info("email sent", "id", ev.ID, "to", ev.To, "subject", ev.Subject)
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
