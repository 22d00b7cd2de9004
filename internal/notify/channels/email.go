package channels

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"match-portal/match-portal-backend/internal/config"
	"match-portal/match-portal-backend/internal/notify"
)

// EmailAdapter delivers notification content over authenticated SMTP
type EmailAdapter struct {
	config config.MailConfig
	logger *zap.Logger
}

// NewEmailAdapter creates the email adapter. Missing credentials do not fail
// construction; the adapter reports itself unreachable instead.
func NewEmailAdapter(cfg config.MailConfig, logger *zap.Logger) *EmailAdapter {
	return &EmailAdapter{config: cfg, logger: logger}
}

// ChannelType implements notify.ChannelAdapter
func (a *EmailAdapter) ChannelType() string { return notify.ChannelEmail }

// Verify dials the SMTP server once at startup. Verification is advisory: a
// failure logs a warning but later send attempts still go through.
func (a *EmailAdapter) Verify() {
	if a.config.SMTPHost == "" {
		return
	}
	addr := fmt.Sprintf("%s:%d", a.config.SMTPHost, a.config.SMTPPort)
	client, err := smtp.Dial(addr)
	if err != nil {
		a.logger.Warn("SMTP verification failed, sends will still be attempted",
			zap.String("addr", addr),
			zap.Error(err))
		return
	}
	_ = client.Close()
	a.logger.Info("SMTP transport verified", zap.String("addr", addr))
}

// CanSendTo performs the structural precondition check only; no network I/O
func (a *EmailAdapter) CanSendTo(r *notify.Recipient) bool {
	if a.config.SMTPHost == "" || a.config.FromAddress == "" {
		return false
	}
	return strings.Contains(r.Email, "@")
}

// Send renders subject + HTML body and pushes it through the SMTP transport.
// Returns false on transport failure so the dispatcher continues with other
// channels.
func (a *EmailAdapter) Send(ctx context.Context, r *notify.Recipient, c *notify.Content) bool {
	msg := a.buildMessage(r, c)
	auth := smtp.PlainAuth("", a.config.Username, a.config.Password, a.config.SMTPHost)
	addr := fmt.Sprintf("%s:%d", a.config.SMTPHost, a.config.SMTPPort)

	if err := smtp.SendMail(addr, auth, a.config.FromAddress, []string{r.Email}, msg); err != nil {
		a.logger.Error("email send failed",
			zap.String("recipient", r.UserID.String()),
			zap.String("to", r.Email),
			zap.String("subject", c.Subject),
			zap.Error(err))
		return false
	}
	a.logger.Info("email sent",
		zap.String("recipient", r.UserID.String()),
		zap.String("subject", c.Subject))
	return true
}

// buildMessage assembles an HTML MIME message; when no HTML was rendered the
// plain body is converted to minimal HTML.
func (a *EmailAdapter) buildMessage(r *notify.Recipient, c *notify.Content) []byte {
	htmlBody := c.HTML
	if htmlBody == "" {
		htmlBody = "<p>" + strings.ReplaceAll(c.Body, "\n", "<br>") + "</p>"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", a.config.FromName, a.config.FromAddress)
	fmt.Fprintf(&b, "To: %s\r\n", r.Email)
	fmt.Fprintf(&b, "Subject: %s\r\n", c.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
