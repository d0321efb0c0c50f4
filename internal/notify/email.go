package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
)

// EmailChannel delivers email notifications over SMTP.
type EmailChannel struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailChannel(host string, port int, user, pass, from string) *EmailChannel {
	return &EmailChannel{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

func (e *EmailChannel) Send(ctx context.Context, req models.NotificationRequest) error {
	if req.Recipient == "" {
		return fmt.Errorf("email notification has no recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", req.Recipient)
	m.SetHeader("Subject", req.Subject)
	if req.HTML {
		m.SetBody("text/html", req.Body)
	} else {
		m.SetBody("text/plain", req.Body)
	}

	return e.dialer.DialAndSend(m)
}
