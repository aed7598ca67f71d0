// Package mailer sends the staff notification for new contact submissions.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/meridianclub/backend/internal/model"
)

// ErrNotConfigured is returned by a Notifier without SMTP settings.
var ErrNotConfigured = errors.New("email notifications are not configured")

// Notifier sends notifications about new submissions.
type Notifier interface {
	NotifyContact(ctx context.Context, sub model.ContactSubmission) error
}

// SMTPConfig holds the outgoing mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	NotifyTo string
}

// Enabled reports whether enough settings are present to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.NotifyTo != "" && (c.From != "" || c.User != "")
}

// New returns an SMTP notifier, or a notifier that always fails with
// ErrNotConfigured when cfg is incomplete.
func New(cfg SMTPConfig) Notifier {
	if !cfg.Enabled() {
		return disabled{}
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPNotifier{cfg: cfg}
}

type disabled struct{}

func (disabled) NotifyContact(ctx context.Context, sub model.ContactSubmission) error {
	return ErrNotConfigured
}

// SMTPNotifier delivers notifications over SMTP.
type SMTPNotifier struct {
	cfg SMTPConfig
}

// NotifyContact emails the staff inbox about a new contact submission.
func (s *SMTPNotifier) NotifyContact(ctx context.Context, sub model.ContactSubmission) error {
	msg, err := ContactMessage(s.cfg.From, s.cfg.NotifyTo, sub)
	if err != nil {
		return err
	}

	opts := []mail.Option{mail.WithPort(s.cfg.Port)}
	if s.cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.User),
			mail.WithPassword(s.cfg.Password),
		)
	}
	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// ContactMessage builds the notification for sub. Replies go to the
// submitter.
func ContactMessage(from, to string, sub model.ContactSubmission) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("failed to set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("failed to set to: %w", err)
	}
	if err := msg.ReplyTo(sub.Email); err != nil {
		return nil, fmt.Errorf("failed to set reply-to: %w", err)
	}
	msg.Subject(ContactSubject(sub))
	msg.SetBodyString(mail.TypeTextPlain, ContactBody(sub))
	return msg, nil
}

// ContactSubject is the notification subject line.
func ContactSubject(sub model.ContactSubmission) string {
	subject := strings.TrimSpace(sub.Subject)
	if subject == "" {
		subject = "(no subject)"
	}
	return "New contact form submission: " + subject
}

// ContactBody is the plain-text notification body.
func ContactBody(sub model.ContactSubmission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", sub.Name)
	fmt.Fprintf(&b, "Email: %s\n", sub.Email)
	fmt.Fprintf(&b, "Subject: %s\n", sub.Subject)
	if !sub.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Received: %s\n", sub.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
	}
	b.WriteString("\n")
	b.WriteString(sub.Message)
	b.WriteString("\n")
	return b.String()
}
