package notify

import (
	"context"
	"errors"

	"gopkg.in/gomail.v2"

	"github.com/lalarentals/users-micro/internal/config"
)

// SMTPSender delivers HTML mail through an SMTP relay with STARTTLS.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Deliver sends msg.  gomail has no context support, so ctx is only
// checked before dialing.
func (s *SMTPSender) Deliver(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return errors.New("notify: message has no recipient")
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)
	return s.dialer.DialAndSend(m)
}
