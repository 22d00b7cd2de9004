package suggestions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// CreateSuggestionRequest carries everything a matchmaker supplies when
// proposing an introduction.
type CreateSuggestionRequest struct {
	MatchmakerID     uuid.UUID `json:"matchmaker_id"`
	FirstPartyID     uuid.UUID `json:"first_party_id"`
	SecondPartyID    uuid.UUID `json:"second_party_id"`
	MatchingReason   string    `json:"matching_reason"`
	FirstPartyNotes  string    `json:"first_party_notes"`
	SecondPartyNotes string    `json:"second_party_notes"`
	InternalNotes    string    `json:"internal_notes"`
	Priority         Priority  `json:"priority"`
}

// Service exposes the suggestion operations consumed by the HTTP layer and
// the expiry worker.
type Service interface {
	CreateSuggestion(ctx context.Context, req CreateSuggestionRequest) (*Suggestion, error)
	GetSuggestion(ctx context.Context, id uuid.UUID) (*Suggestion, error)
	ListSuggestions(ctx context.Context, participantID uuid.UUID) ([]Suggestion, error)
	GetHistory(ctx context.Context, id uuid.UUID) ([]StatusHistory, error)
	GetActions(ctx context.Context, id, viewerID uuid.UUID) ([]Action, error)
	UpdateNotes(ctx context.Context, id, actorID uuid.UUID, update NotesUpdate) (*Suggestion, error)
	TransitionStatus(ctx context.Context, id, actorID uuid.UUID, newStatus Status, opts TransitionOptions) (*Suggestion, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
}

type service struct {
	repo   Repository
	engine *Engine
	logger *zap.Logger
}

// NewService creates the suggestion service
func NewService(repo Repository, engine *Engine, logger *zap.Logger) Service {
	return &service{repo: repo, engine: engine, logger: logger}
}

// CreateSuggestion persists the suggestion at DRAFT with its initial history
// record, then advances it to PENDING_FIRST_PARTY through the engine so the
// invitation notification and deadline stamping run through the same path as
// every other transition.
func (s *service) CreateSuggestion(ctx context.Context, req CreateSuggestionRequest) (*Suggestion, error) {
	if req.MatchmakerID == uuid.Nil || req.FirstPartyID == uuid.Nil || req.SecondPartyID == uuid.Nil {
		return nil, errors.New("matchmaker_id, first_party_id and second_party_id are required")
	}
	if req.FirstPartyID == req.SecondPartyID {
		return nil, errors.New("first and second party must be different users")
	}

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	now := time.Now()
	suggestion := &Suggestion{
		MatchmakerID:     req.MatchmakerID,
		FirstPartyID:     req.FirstPartyID,
		SecondPartyID:    req.SecondPartyID,
		Status:           StatusDraft,
		Priority:         priority,
		MatchingReason:   req.MatchingReason,
		FirstPartyNotes:  req.FirstPartyNotes,
		SecondPartyNotes: req.SecondPartyNotes,
		InternalNotes:    req.InternalNotes,
		LastStatusChange: now,
		LastActivity:     now,
	}
	history := &StatusHistory{
		Status:  StatusDraft,
		Notes:   "Suggestion created",
		Context: datatypes.JSONMap{"changed_by": req.MatchmakerID.String()},
	}
	if err := s.repo.Create(ctx, suggestion, history); err != nil {
		return nil, err
	}

	return s.engine.TransitionStatus(ctx, suggestion.ID, req.MatchmakerID, StatusPendingFirstParty, TransitionOptions{})
}

func (s *service) GetSuggestion(ctx context.Context, id uuid.UUID) (*Suggestion, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListSuggestions(ctx context.Context, participantID uuid.UUID) ([]Suggestion, error) {
	return s.repo.ListByParticipant(ctx, participantID)
}

func (s *service) GetHistory(ctx context.Context, id uuid.UUID) ([]StatusHistory, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListHistory(ctx, id)
}

func (s *service) GetActions(ctx context.Context, id, viewerID uuid.UUID) ([]Action, error) {
	suggestion, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return AvailableActions(suggestion, viewerID), nil
}

// UpdateNotes is matchmaker-only; candidates never edit suggestion notes
func (s *service) UpdateNotes(ctx context.Context, id, actorID uuid.UUID, update NotesUpdate) (*Suggestion, error) {
	suggestion, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID != suggestion.MatchmakerID {
		return nil, &NotesPermissionError{ActorID: actorID}
	}
	return s.repo.UpdateNotes(ctx, id, update)
}

func (s *service) TransitionStatus(ctx context.Context, id, actorID uuid.UUID, newStatus Status, opts TransitionOptions) (*Suggestion, error) {
	return s.engine.TransitionStatus(ctx, id, actorID, newStatus, opts)
}

// ExpireOverdue moves suggestions whose decision deadline passed while still
// pending a party response into EXPIRED. Each expiry runs through the engine
// acting as the matchmaker, so history and notifications stay uniform. Errors
// on individual suggestions are logged and do not stop the sweep.
func (s *service) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	overdue, err := s.repo.ListPendingPastDeadline(ctx, now)
	if err != nil {
		return 0, err
	}
	expired := 0
	for i := range overdue {
		sg := &overdue[i]
		updated, err := s.repo.Transition(ctx, sg.ID, func(row *Suggestion) (*StatusHistory, error) {
			if row.Status != StatusPendingFirstParty && row.Status != StatusPendingSecondParty {
				return nil, fmt.Errorf("suggestion %s no longer pending", row.ID)
			}
			s.engine.applyTransition(row, StatusExpired)
			return &StatusHistory{
				Status: StatusExpired,
				Notes:  fmt.Sprintf("Decision deadline passed while %s", row.PreviousStatus),
				Context: datatypes.JSONMap{
					"previous_status": string(row.PreviousStatus),
					"trigger":         "deadline_sweep",
				},
			}, nil
		})
		if err != nil {
			s.logger.Warn("expiry skipped",
				zap.String("suggestion_id", sg.ID.String()),
				zap.Error(err))
			continue
		}
		s.engine.dispatchNotifications(ctx, updated, TransitionOptions{})
		expired++
	}
	return expired, nil
}
