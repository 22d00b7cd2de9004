package notify

import (
	"context"

	"go.uber.org/zap"

	"match-portal/match-portal-backend/internal/suggestions"
)

// Service fans notifications out to recipients and channels. One registry is
// populated at process start and injected into the transition engine; there
// is no global singleton. Every delivery failure is logged and swallowed
// here: the committed transition is never affected by messaging.
type Service struct {
	adapters      map[string]ChannelAdapter
	resolver      *ContentResolver
	defaultLocale string
	logger        *zap.Logger
}

// NewService creates the dispatcher with an empty adapter registry
func NewService(resolver *ContentResolver, defaultLocale string, logger *zap.Logger) *Service {
	return &Service{
		adapters:      make(map[string]ChannelAdapter),
		resolver:      resolver,
		defaultLocale: defaultLocale,
		logger:        logger,
	}
}

// RegisterAdapter registers a channel adapter under its channel type
func (s *Service) RegisterAdapter(adapter ChannelAdapter) {
	s.adapters[adapter.ChannelType()] = adapter
}

// HandleStatusChange resolves recipients for the suggestion's new status and
// dispatches localized content to each over their preferred channels.
// Implements the engine's StatusNotifier contract.
func (s *Service) HandleStatusChange(ctx context.Context, sg *suggestions.Suggestion, opts suggestions.TransitionOptions) {
	recipients := ResolveRecipients(sg, s.defaultLocale)
	if len(recipients) == 0 {
		s.logger.Warn("no recipients resolved, parties not preloaded?",
			zap.String("suggestion_id", sg.ID.String()),
			zap.String("status", string(sg.Status)))
		return
	}

	for i := range recipients {
		r := &recipients[i]
		if !roleAllowed(r.Role, opts.NotifyParties) {
			continue
		}
		s.notifyRecipient(ctx, sg, r, opts)
	}
}

// notifyRecipient renders and sends to a single recipient, isolating any
// panic so one recipient's failure never stops the others.
func (s *Service) notifyRecipient(ctx context.Context, sg *suggestions.Suggestion, r *Recipient, opts suggestions.TransitionOptions) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("recipient dispatch panicked",
				zap.String("suggestion_id", sg.ID.String()),
				zap.String("recipient", r.UserID.String()),
				zap.Any("panic", rec))
		}
	}()

	content := s.resolver.Resolve(sg, r, opts)
	results := s.Send(ctx, r, content, r.Channels)
	for _, res := range results {
		if res.Sent {
			continue
		}
		s.logger.Warn("notification not delivered",
			zap.String("suggestion_id", sg.ID.String()),
			zap.String("status", string(sg.Status)),
			zap.String("channel", res.Channel),
			zap.String("recipient", res.Recipient),
			zap.Bool("skipped", res.Skipped),
			zap.String("reason", res.Reason))
	}
}

// Send dispatches content to one recipient over each requested channel.
// Unregistered adapters and failed precondition checks are skipped with a
// warning; transport failures are captured per channel so one channel never
// prevents attempting another.
func (s *Service) Send(ctx context.Context, r *Recipient, content *Content, channels []string) []ChannelResult {
	results := make([]ChannelResult, 0, len(channels))
	for _, channel := range channels {
		adapter, ok := s.adapters[channel]
		if !ok {
			results = append(results, ChannelResult{
				Channel: channel, Recipient: r.UserID.String(),
				Skipped: true, Reason: "no adapter registered",
			})
			continue
		}
		if !adapter.CanSendTo(r) {
			results = append(results, ChannelResult{
				Channel: channel, Recipient: r.UserID.String(),
				Skipped: true, Reason: "recipient not reachable on this channel",
			})
			continue
		}
		results = append(results, s.sendOne(ctx, adapter, r, content))
	}
	return results
}

// sendOne invokes a single adapter, converting panics into a failed result
func (s *Service) sendOne(ctx context.Context, adapter ChannelAdapter, r *Recipient, content *Content) (result ChannelResult) {
	result = ChannelResult{Channel: adapter.ChannelType(), Recipient: r.UserID.String()}
	defer func() {
		if rec := recover(); rec != nil {
			result.Sent = false
			result.Reason = "adapter panicked"
			s.logger.Error("channel adapter panicked",
				zap.String("channel", adapter.ChannelType()),
				zap.String("recipient", r.UserID.String()),
				zap.Any("panic", rec))
		}
	}()
	if adapter.Send(ctx, r, content) {
		result.Sent = true
	} else {
		result.Reason = "transport failure"
	}
	return result
}

// roleAllowed applies the optional notifyParties allow-list
func roleAllowed(role suggestions.ParticipantRole, allowed []suggestions.ParticipantRole) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}
