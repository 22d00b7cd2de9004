package suggestions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ParticipantRole identifies a user's relationship to a suggestion
type ParticipantRole string

const (
	RoleMatchmaker  ParticipantRole = "matchmaker"
	RoleFirstParty  ParticipantRole = "first_party"
	RoleSecondParty ParticipantRole = "second_party"
)

// TransitionOptions tunes a single transition request. All fields are
// optional.
type TransitionOptions struct {
	// Notes overrides the auto-generated history note.
	Notes string
	// NotifyParties restricts notification delivery to the listed roles.
	// Empty means notify every resolved recipient.
	NotifyParties []ParticipantRole
	// CustomMessage replaces template content with a matchmaker-authored
	// message wrapped around a details link.
	CustomMessage string
}

// StatusNotifier receives the committed suggestion after every transition.
// Implementations must not return delivery errors; dispatch is best-effort.
type StatusNotifier interface {
	HandleStatusChange(ctx context.Context, s *Suggestion, opts TransitionOptions)
}

// PushSender delivers a mobile push message to a single user, fire-and-forget
type PushSender interface {
	SendToUser(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string)
}

// EngineConfig carries engine tunables
type EngineConfig struct {
	// DecisionDeadline is how long a party has to respond once a suggestion
	// is sent to them.
	DecisionDeadline time.Duration
}

// DefaultEngineConfig returns the default engine configuration
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{DecisionDeadline: 7 * 24 * time.Hour}
}

// Engine orchestrates status transitions: validate, persist atomically, then
// fan out notifications and push best-effort. The persisted transition is
// authoritative and independent of messaging reliability.
type Engine struct {
	repo     Repository
	notifier StatusNotifier
	push     PushSender
	logger   *zap.Logger
	config   EngineConfig
}

// NewEngine creates a transition engine. notifier and push may be nil, which
// disables the corresponding side effect.
func NewEngine(repo Repository, notifier StatusNotifier, push PushSender, logger *zap.Logger, config EngineConfig) *Engine {
	return &Engine{
		repo:     repo,
		notifier: notifier,
		push:     push,
		logger:   logger,
		config:   config,
	}
}

// TransitionStatus moves a suggestion into newStatus on behalf of actorID.
// Table legality and permission are both validated against the row re-read
// inside the transaction; any failure aborts before writes. On success the
// updated suggestion is returned regardless of notification outcome.
func (e *Engine) TransitionStatus(ctx context.Context, suggestionID, actorID uuid.UUID, newStatus Status, opts TransitionOptions) (*Suggestion, error) {
	updated, err := e.repo.Transition(ctx, suggestionID, func(s *Suggestion) (*StatusHistory, error) {
		if err := ValidateTransition(s.Status, newStatus); err != nil {
			return nil, err
		}
		if err := CanChangeStatus(s, actorID, newStatus); err != nil {
			return nil, err
		}
		notes := opts.Notes
		if notes == "" {
			notes = fmt.Sprintf("Status changed from %s to %s", s.Status, newStatus)
		}
		from := s.Status
		e.applyTransition(s, newStatus)
		return &StatusHistory{
			Status: newStatus,
			Notes:  notes,
			Context: datatypes.JSONMap{
				"changed_by":      actorID.String(),
				"previous_status": string(from),
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("suggestion status changed",
		zap.String("suggestion_id", updated.ID.String()),
		zap.String("previous_status", string(updated.PreviousStatus)),
		zap.String("status", string(updated.Status)),
		zap.String("actor_id", actorID.String()))

	e.dispatchNotifications(ctx, updated, opts)
	e.dispatchPush(ctx, updated)

	return updated, nil
}

// applyTransition mutates status bookkeeping and stamps the milestone
// timestamp mapped to the new status. Milestones are set once and never
// retroactively edited.
func (e *Engine) applyTransition(s *Suggestion, newStatus Status) {
	now := time.Now()
	s.PreviousStatus = s.Status
	s.Status = newStatus
	s.LastStatusChange = now
	s.LastActivity = now

	switch newStatus {
	case StatusPendingFirstParty:
		if s.FirstPartySent == nil {
			s.FirstPartySent = &now
		}
		if s.DecisionDeadline == nil {
			deadline := now.Add(e.config.DecisionDeadline)
			s.DecisionDeadline = &deadline
		}
	case StatusFirstPartyApproved, StatusFirstPartyDeclined, StatusFirstPartyInterested:
		if s.FirstPartyResponded == nil {
			s.FirstPartyResponded = &now
		}
	case StatusPendingSecondParty:
		if s.SecondPartySent == nil {
			s.SecondPartySent = &now
		}
		// The second party gets a full response window even when the first
		// party answered close to their own deadline.
		deadline := now.Add(e.config.DecisionDeadline)
		s.DecisionDeadline = &deadline
	case StatusSecondPartyApproved, StatusSecondPartyDeclined:
		if s.SecondPartyResponded == nil {
			s.SecondPartyResponded = &now
		}
	case StatusMeetingScheduled:
		if s.FirstMeetingScheduled == nil {
			s.FirstMeetingScheduled = &now
		}
	case StatusClosed, StatusCancelled, StatusExpired, StatusMarried:
		if s.ClosedAt == nil {
			s.ClosedAt = &now
		}
	}
}

// dispatchNotifications runs the notification fan-out after the transaction
// committed. Panics and errors stay inside this method.
func (e *Engine) dispatchNotifications(ctx context.Context, s *Suggestion, opts TransitionOptions) {
	if e.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("notification dispatch panicked",
				zap.String("suggestion_id", s.ID.String()),
				zap.Any("panic", r))
		}
	}()
	e.notifier.HandleStatusChange(ctx, s, opts)
}

// pushTarget pairs a user with the push content for one status
type pushTarget struct {
	userID uuid.UUID
	title  string
	body   string
}

// pushTargets returns who gets a mobile push for the suggestion's new status.
// Only a subset of transitions push; everything else is silent.
func pushTargets(s *Suggestion) []pushTarget {
	switch s.Status {
	case StatusPendingFirstParty:
		return []pushTarget{{s.FirstPartyID, "New suggestion", "A matchmaker has a suggestion for you"}}
	case StatusPendingSecondParty:
		return []pushTarget{{s.SecondPartyID, "New suggestion", "A matchmaker has a suggestion for you"}}
	case StatusFirstPartyApproved, StatusSecondPartyApproved:
		return []pushTarget{{s.MatchmakerID, "Suggestion update", "A party approved the suggestion"}}
	case StatusFirstPartyDeclined, StatusSecondPartyDeclined:
		return []pushTarget{{s.MatchmakerID, "Suggestion update", "A party declined the suggestion"}}
	case StatusContactDetailsShared:
		return []pushTarget{
			{s.FirstPartyID, "Contact details shared", "You can now contact your match"},
			{s.SecondPartyID, "Contact details shared", "You can now contact your match"},
		}
	case StatusEngaged:
		return []pushTarget{
			{s.FirstPartyID, "Mazal tov!", "The suggestion reached an engagement"},
			{s.SecondPartyID, "Mazal tov!", "The suggestion reached an engagement"},
			{s.MatchmakerID, "Mazal tov!", "Your suggestion reached an engagement"},
		}
	case StatusMarried:
		return []pushTarget{
			{s.FirstPartyID, "Mazal tov!", "The suggestion reached a marriage"},
			{s.SecondPartyID, "Mazal tov!", "The suggestion reached a marriage"},
			{s.MatchmakerID, "Mazal tov!", "Your suggestion reached a marriage"},
		}
	}
	return nil
}

// dispatchPush delivers push messages for the new status, fire-and-forget
func (e *Engine) dispatchPush(ctx context.Context, s *Suggestion) {
	if e.push == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("push dispatch panicked",
				zap.String("suggestion_id", s.ID.String()),
				zap.Any("panic", r))
		}
	}()
	data := map[string]string{
		"suggestion_id": s.ID.String(),
		"status":        string(s.Status),
	}
	for _, t := range pushTargets(s) {
		e.push.SendToUser(ctx, t.userID, t.title, t.body, data)
	}
}
