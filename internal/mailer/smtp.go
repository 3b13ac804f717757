// Package mailer sends share notification mail. Delivery failures are a
// boundary concern and never fail the sharing operation that triggered them.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends a notification mail to a single address.
type Mailer interface {
	Send(address, subject, body string) error
}

// SMTP is a Mailer backed by an SMTP server.
type SMTP struct {
	Server   string
	Port     int
	User     string
	Password string
}

// Send composes and delivers an HTML mail to the given address.
func (s *SMTP) Send(address, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", "Docshare", s.User))
	m.SetHeader("To", address)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Server, s.Port, s.User, s.Password)

	return d.DialAndSend(m)
}

// Ensure SMTP implements Mailer.
var _ Mailer = (*SMTP)(nil)
