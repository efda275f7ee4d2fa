package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Message is a rendered email ready for delivery.
type Message struct {
	FromName    string
	FromAddress string
	To          string
	Subject     string
	HTMLBody    string
}

// FromHeader renders the From header as "{name} <{address}>".
func (m Message) FromHeader() string {
	return fmt.Sprintf("%s <%s>", m.FromName, m.FromAddress)
}

// Mailer delivers a rendered message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers messages through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

// NewSMTPMailer creates a mailer for the given relay.
func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, username, password)}
}

// Send opens a connection per message. gomail does not accept a context, so ctx is only checked up front.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.dialer.Host == "" {
		return fmt.Errorf("smtp relay not configured")
	}

	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", msg.FromAddress, msg.FromName)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTMLBody)

	return m.dialer.DialAndSend(gm)
}
