package notify

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

const (
	defaultSMTPPort = 587
	smtpTimeout     = 30 * time.Second
)

var (
	_ driven.Notifier = (*SMTPNotifier)(nil)
	_ driven.Notifier = (*NullNotifier)(nil)
)

// SendFunc delivers a built message.
type SendFunc func(ctx context.Context, msg *mail.Msg) error

// SMTPNotifier sends notifications to the configured recipients.
type SMTPNotifier struct {
	settings domain.EmailSettings
	send     SendFunc
	logger   *zap.Logger
}

// NewSMTPNotifier creates a notifier for settings. A nil send dials the
// configured server for every message.
func NewSMTPNotifier(settings domain.EmailSettings, send SendFunc, logger *zap.Logger) *SMTPNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &SMTPNotifier{settings: settings, send: send, logger: logger}
	if n.send == nil {
		n.send = n.dial
	}
	return n
}

// New returns the SMTP notifier when email is enabled, else a NullNotifier.
func New(settings domain.EmailSettings, logger *zap.Logger) driven.Notifier {
	if !settings.Enabled {
		return NewNullNotifier(logger)
	}
	return NewSMTPNotifier(settings, nil, logger)
}

// Send builds and delivers n.
func (s *SMTPNotifier) Send(ctx context.Context, n domain.Notification) error {
	msg, err := s.Build(n)
	if err != nil {
		return err
	}
	if err := s.send(ctx, msg); err != nil {
		return fmt.Errorf("send email %q: %w", n.Subject, err)
	}
	s.logger.Info("email sent", zap.String("subject", n.Subject), zap.Strings("to", s.settings.To))
	return nil
}

// Build renders n as a message. Attachments that no longer exist are skipped.
func (s *SMTPNotifier) Build(n domain.Notification) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.settings.From); err != nil {
		return nil, fmt.Errorf("%w: email from: %v", domain.ErrInvalidInput, err)
	}
	if err := msg.To(s.settings.To...); err != nil {
		return nil, fmt.Errorf("%w: email to: %v", domain.ErrInvalidInput, err)
	}
	msg.Subject(n.Subject)

	contentType := mail.TypeTextPlain
	if n.HTML {
		contentType = mail.TypeTextHTML
	}
	msg.SetBodyString(contentType, n.Body)

	for _, path := range n.Attachments {
		if _, err := os.Stat(path); err != nil {
			s.logger.Warn("attachment missing, skipped", zap.String("path", path), zap.Error(err))
			continue
		}
		msg.AttachFile(path)
	}
	return msg, nil
}

func (s *SMTPNotifier) dial(ctx context.Context, msg *mail.Msg) error {
	port := s.settings.SMTPPort
	if port == 0 {
		port = defaultSMTPPort
	}
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTimeout(smtpTimeout),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if s.settings.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.settings.Username),
			mail.WithPassword(s.settings.Password),
		)
	}
	client, err := mail.NewClient(s.settings.SMTPHost, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// NullNotifier drops notifications when email is disabled.
type NullNotifier struct {
	logger *zap.Logger
}

// NewNullNotifier creates a notifier that only logs.
func NewNullNotifier(logger *zap.Logger) *NullNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NullNotifier{logger: logger}
}

// Send logs the subject and returns nil.
func (n *NullNotifier) Send(_ context.Context, msg domain.Notification) error {
	n.logger.Debug("email disabled, notification dropped", zap.String("subject", msg.Subject))
	return nil
}
