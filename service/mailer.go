package service

import (
	"fmt"

	mail "github.com/go-mail/mail/v2"
)

// Mailer sends password-reset tokens over SMTP.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewMailer configures an SMTP mailer. Mandatory STARTTLS; credentials
// come from config.
func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{host: host, port: port, username: username, password: password, from: from}
}

// SendPasswordReset mails a one-time reset token to the user.
func (m *Mailer) SendPasswordReset(to, name, token string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reset your readshelf password")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nUse this code to reset your readshelf password: %s\n\nIt expires in one hour. If you didn't ask for it, ignore this mail.\n",
		name, token))

	d := mail.NewDialer(m.host, m.port, m.username, m.password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	return d.DialAndSend(msg)
}
