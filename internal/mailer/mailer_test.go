package mailer

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gandaki-ict/backend/config"
)

func TestSendDevModeLogsVerifyLink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := NewSMTPSender(config.EmailConfig{DevMode: true}, zap.New(core))

	verifyURL := "https://gandakiict.org.np/verify/EVT-2026-00042-ABCD"
	err := sender.Send("sita@example.com", "Registration confirmed", "<html></html>", verifyURL)
	if err != nil {
		t.Fatalf("dev mode send returned error: %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if got := fields["verify_url"]; got != verifyURL {
		t.Errorf("logged verify_url = %v, want %q", got, verifyURL)
	}
	if got := fields["to"]; got != "sita@example.com" {
		t.Errorf("logged to = %v, want recipient", got)
	}
}

func TestSendWithoutSMTPConfigFails(t *testing.T) {
	sender := NewSMTPSender(config.EmailConfig{}, zap.NewNop())
	err := sender.Send("sita@example.com", "subject", "<html></html>", "https://example.com/verify/x")
	if err != ErrSMTPNotConfigured {
		t.Errorf("err = %v, want ErrSMTPNotConfigured", err)
	}
}
