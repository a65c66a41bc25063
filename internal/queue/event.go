// Package queue carries email notifications over RabbitMQ.  The API process
// publishes EmailRequested messages; the notify-worker consumes them and
// sends the mail.
package queue

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lalarentals/users-micro/internal/notify"
)

// EmailRequested is the payload published for every outgoing email.  It
// carries the fully rendered message so the worker needs no database.
type EmailRequested struct {
	ID          string    `json:"id"`
	To          string    `json:"to"`
	Subject     string    `json:"subject"`
	HTMLBody    string    `json:"html_body"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewEmailRequested wraps msg with a fresh id and timestamp.
func NewEmailRequested(msg notify.Message, now time.Time) EmailRequested {
	return EmailRequested{
		ID:          uuid.NewString(),
		To:          msg.To,
		Subject:     msg.Subject,
		HTMLBody:    msg.HTMLBody,
		RequestedAt: now.UTC(),
	}
}

// Message returns the email to deliver.
func (e EmailRequested) Message() notify.Message {
	return notify.Message{To: e.To, Subject: e.Subject, HTMLBody: e.HTMLBody}
}

// DecodeEmailRequested parses a message body.  A payload without a
// recipient is rejected.
func DecodeEmailRequested(body []byte) (EmailRequested, error) {
	var ev EmailRequested
	if err := json.Unmarshal(body, &ev); err != nil {
		return EmailRequested{}, err
	}
	if ev.To == "" {
		return EmailRequested{}, errors.New("email request has no recipient")
	}
	return ev, nil
}
