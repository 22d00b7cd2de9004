package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"match-portal/match-portal-backend/internal/config"
	"match-portal/match-portal-backend/internal/notify"
)

// e164Pattern is the strict international number format both the sender and
// every recipient must satisfy: leading plus, no separators.
var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// WhatsAppAdapter delivers notification content through a WhatsApp Business
// API provider. Freeform text is best-effort (subject to the provider's
// 24-hour opt-in window); content-template delivery works outside it.
type WhatsAppAdapter struct {
	config     config.WhatsAppConfig
	httpClient *http.Client
	logger     *zap.Logger
	configured bool
}

// NewWhatsAppAdapter creates the WhatsApp adapter. Absent credentials or a
// malformed sender number degrade to "cannot send" instead of failing
// construction.
func NewWhatsAppAdapter(cfg config.WhatsAppConfig, logger *zap.Logger) *WhatsAppAdapter {
	configured := cfg.AccountSID != "" && cfg.AuthToken != "" && e164Pattern.MatchString(cfg.FromNumber)
	if !configured {
		logger.Warn("WhatsApp adapter not fully configured, channel disabled")
	}
	return &WhatsAppAdapter{
		config:     cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		configured: configured,
	}
}

// ChannelType implements notify.ChannelAdapter
func (a *WhatsAppAdapter) ChannelType() string { return notify.ChannelWhatsApp }

// NormalizeNumber strips separators and converts common prefixes to strict
// international format. Bare national numbers (leading zero) are rewritten
// with defaultCountryCode when one is configured. Returns an empty string
// when the result still is not a valid international number.
func NormalizeNumber(raw, defaultCountryCode string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, raw)
	switch {
	case strings.HasPrefix(cleaned, "00"):
		cleaned = "+" + cleaned[2:]
	case strings.HasPrefix(cleaned, "0") && defaultCountryCode != "":
		cleaned = "+" + defaultCountryCode + cleaned[1:]
	case cleaned != "" && !strings.HasPrefix(cleaned, "+"):
		cleaned = "+" + cleaned
	}
	if !e164Pattern.MatchString(cleaned) {
		return ""
	}
	return cleaned
}

// CanSendTo requires configured credentials and a normalizable recipient
// phone number; no network I/O.
func (a *WhatsAppAdapter) CanSendTo(r *notify.Recipient) bool {
	if !a.configured {
		return false
	}
	return NormalizeNumber(r.Phone, a.config.DefaultCountryCode) != ""
}

// Send posts the message to the provider. Template delivery is used when the
// content carries a template SID; otherwise the body goes out as freeform
// text. Returns false on any transport or provider error.
func (a *WhatsAppAdapter) Send(ctx context.Context, r *notify.Recipient, c *notify.Content) bool {
	to := NormalizeNumber(r.Phone, a.config.DefaultCountryCode)
	if to == "" {
		return false
	}

	form := url.Values{}
	form.Set("From", "whatsapp:"+a.config.FromNumber)
	form.Set("To", "whatsapp:"+to)
	if c.TemplateSID != "" {
		form.Set("ContentSid", c.TemplateSID)
		if len(c.TemplateVariables) > 0 {
			vars, _ := json.Marshal(c.TemplateVariables)
			form.Set("ContentVariables", string(vars))
		}
	} else {
		form.Set("Body", c.Body)
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json",
		strings.TrimRight(a.config.APIBaseURL, "/"), a.config.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		a.logger.Error("whatsapp request build failed", zap.Error(err))
		return false
	}
	req.SetBasicAuth(a.config.AccountSID, a.config.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error("whatsapp send failed",
			zap.String("recipient", r.UserID.String()),
			zap.String("to", to),
			zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		code, message := parseProviderError(body)
		a.logger.Error("whatsapp provider rejected message",
			zap.String("recipient", r.UserID.String()),
			zap.String("to", to),
			zap.Int("http_status", resp.StatusCode),
			zap.Int("provider_code", code),
			zap.String("provider_message", message))
		return false
	}

	a.logger.Info("whatsapp message sent",
		zap.String("recipient", r.UserID.String()),
		zap.Bool("template", c.TemplateSID != ""))
	return true
}

// parseProviderError extracts the provider error code and message from a
// Twilio-style error body.
func parseProviderError(body []byte) (int, string) {
	var payload struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, string(body)
	}
	return payload.Code, payload.Message
}
