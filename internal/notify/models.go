package notify

import (
	"context"

	"github.com/google/uuid"

	"match-portal/match-portal-backend/internal/suggestions"
)

// Notification channels
const (
	ChannelEmail    = "EMAIL"
	ChannelWhatsApp = "WHATSAPP"
	ChannelSMS      = "SMS"
)

// Recipient is one resolved notification target: a participant with contact
// fields, locale and preferred channels already decided.
type Recipient struct {
	UserID   uuid.UUID
	Role     suggestions.ParticipantRole
	Name     string
	Email    string
	Phone    string
	Locale   string
	Channels []string
}

// Content is the rendered notification payload. HTML is optional; adapters
// fall back to Body. TemplateSID/TemplateVariables request provider-template
// delivery on channels that support it (WhatsApp outside the opt-in window).
type Content struct {
	Subject           string
	Body              string
	HTML              string
	TemplateSID       string
	TemplateVariables map[string]string
}

// ChannelAdapter is the uniform send contract every channel implements.
// CanSendTo is a structural precondition check and must not perform network
// I/O. Send returns false on transport failure so the dispatcher can continue
// with other channels.
type ChannelAdapter interface {
	ChannelType() string
	CanSendTo(r *Recipient) bool
	Send(ctx context.Context, r *Recipient, c *Content) bool
}

// ChannelResult records the outcome of one channel attempt for one recipient
type ChannelResult struct {
	Channel   string
	Recipient string
	Sent      bool
	Skipped   bool
	Reason    string
}
