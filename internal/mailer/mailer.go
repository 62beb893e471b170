// Package mailer renders and dispatches confirmation emails. Dispatch is
// best-effort by contract: the registration row is the source of truth and
// a delivery failure only surfaces as email_sent=false.
package mailer

import (
	"errors"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/gandaki-ict/backend/config"
)

// ErrSMTPNotConfigured is returned when direct sending is attempted without
// SMTP settings.
var ErrSMTPNotConfigured = errors.New("smtp not configured")

// SMTPSender delivers HTML email over SMTP.
type SMTPSender struct {
	cfg    config.EmailConfig
	logger *zap.Logger
}

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(cfg config.EmailConfig, logger *zap.Logger) *SMTPSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPSender{cfg: cfg, logger: logger}
}

// Send delivers one HTML email. In dev mode nothing is sent; the
// verification link is logged instead and the call succeeds so the flow
// behaves as in production.
func (s *SMTPSender) Send(to, subject, htmlBody, verifyURL string) error {
	if s.cfg.DevMode {
		s.logger.Info("dev mode: email not sent",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("verify_url", verifyURL))
		return nil
	}
	if s.cfg.SMTPHost == "" {
		return ErrSMTPNotConfigured
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}
	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.cfg.FromName, s.cfg.FromAddress, to, subject, htmlBody)
	if err := smtp.SendMail(addr, auth, s.cfg.FromAddress, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
