// Package notify sends transactional email.  Services hand a Message to a
// Dispatcher after their write has committed; delivery happens off the
// request path and its failures never reach the caller.
package notify

import (
	"context"
	"log/slog"
)

// Message is one HTML email.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

// Deliverer performs the actual send.  Implementations may block.
type Deliverer interface {
	Deliver(ctx context.Context, msg Message) error
}

// Dispatcher accepts a message for best-effort delivery.  It must not
// block on the transport and reports nothing back.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message)
}

// Discard drops every message.
type Discard struct{}

func (Discard) Dispatch(context.Context, Message) {}

// LogDeliverer logs messages instead of sending them.  It is the default
// transport in development.
type LogDeliverer struct {
	Logger *slog.Logger
}

func (d LogDeliverer) Deliver(ctx context.Context, msg Message) error {
	l := d.Logger
	if l == nil {
		l = slog.Default()
	}
	l.InfoContext(ctx, "email", "to", msg.To, "subject", msg.Subject, "bytes", len(msg.HTMLBody))
	return nil
}
