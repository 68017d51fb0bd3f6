package notification

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"homevisit/config"
)

// dialer is satisfied by *gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer delivers messages over SMTP. Send does not retry; a rejected message
// is returned to the caller as an error.
type Mailer struct {
	dialer dialer
	from   string
}

// NewMailer returns nil when no outbound address is configured.
func NewMailer(cfg config.EmailConfig) *Mailer {
	if !cfg.Enabled() {
		return nil
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.HostUser, cfg.HostPassword)
	d.SSL = cfg.UseTLS
	return &Mailer{dialer: d, from: cfg.HostUser}
}

// From is the configured outbound address.
func (m *Mailer) From() string {
	return m.from
}

// Send delivers msg. An empty msg.From falls back to the configured address.
func (m *Mailer) Send(msg Message) error {
	gm, err := m.build(msg)
	if err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("failed to send email %q: %w", msg.Subject, err)
	}
	return nil
}

func (m *Mailer) build(msg Message) (*gomail.Message, error) {
	if len(msg.To) == 0 {
		return nil, errors.New("email has no recipients")
	}
	from := msg.From
	if from == "" {
		from = m.from
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", from)
	gm.SetHeader("To", msg.To...)
	if len(msg.Cc) > 0 {
		gm.SetHeader("Cc", msg.Cc...)
	}
	if msg.ReplyTo != "" {
		gm.SetHeader("Reply-To", msg.ReplyTo)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)
	if msg.HTML != "" {
		gm.AddAlternative("text/html", msg.HTML)
	}
	return gm, nil
}
