package suggestions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced suggestion does not exist
var ErrNotFound = errors.New("suggestion not found")

// Repository is the persistence boundary for suggestions. Transition applies
// a mutation plus its history record in one transaction, re-reading the row
// inside the transaction so a stale-read transition attempt is validated
// against the persisted current state.
type Repository interface {
	Create(ctx context.Context, s *Suggestion, history *StatusHistory) error
	GetByID(ctx context.Context, id uuid.UUID) (*Suggestion, error)
	ListByParticipant(ctx context.Context, userID uuid.UUID) ([]Suggestion, error)
	ListHistory(ctx context.Context, suggestionID uuid.UUID) ([]StatusHistory, error)
	UpdateNotes(ctx context.Context, id uuid.UUID, update NotesUpdate) (*Suggestion, error)
	ListPendingPastDeadline(ctx context.Context, now time.Time) ([]Suggestion, error)
	Transition(ctx context.Context, id uuid.UUID, apply func(s *Suggestion) (*StatusHistory, error)) (*Suggestion, error)
}

// NotesUpdate carries optional matchmaker-authored note changes
type NotesUpdate struct {
	MatchingReason   *string `json:"matching_reason"`
	FirstPartyNotes  *string `json:"first_party_notes"`
	SecondPartyNotes *string `json:"second_party_notes"`
	InternalNotes    *string `json:"internal_notes"`
	FollowUpNotes    *string `json:"follow_up_notes"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a suggestion repository backed by gorm
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func withParties(db *gorm.DB) *gorm.DB {
	return db.Preload("Matchmaker").Preload("FirstParty").Preload("SecondParty")
}

// Create persists a new suggestion together with its initial history record
func (r *repository) Create(ctx context.Context, s *Suggestion, history *StatusHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(s).Error; err != nil {
			return fmt.Errorf("create suggestion: %w", err)
		}
		history.SuggestionID = s.ID
		if err := tx.Create(history).Error; err != nil {
			return fmt.Errorf("create initial history: %w", err)
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Suggestion, error) {
	var s Suggestion
	if err := withParties(r.db.WithContext(ctx)).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get suggestion: %w", err)
	}
	return &s, nil
}

func (r *repository) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]Suggestion, error) {
	var list []Suggestion
	err := withParties(r.db.WithContext(ctx)).
		Where("matchmaker_id = ? OR first_party_id = ? OR second_party_id = ?", userID, userID, userID).
		Order("last_activity DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	return list, nil
}

func (r *repository) ListHistory(ctx context.Context, suggestionID uuid.UUID) ([]StatusHistory, error) {
	var history []StatusHistory
	err := r.db.WithContext(ctx).
		Where("suggestion_id = ?", suggestionID).
		Order("created_at ASC").
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return history, nil
}

// UpdateNotes mutates the matchmaker-authored note fields only. Status and
// timestamps are untouchable here; terminal suggestions reject edits.
func (r *repository) UpdateNotes(ctx context.Context, id uuid.UUID, update NotesUpdate) (*Suggestion, error) {
	var out *Suggestion
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s Suggestion
		if err := withParties(tx).First(&s, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("get suggestion: %w", err)
		}
		if s.Status.IsTerminal() {
			return fmt.Errorf("suggestion %s is %s and no longer editable", s.ID, s.Status)
		}
		if update.MatchingReason != nil {
			s.MatchingReason = *update.MatchingReason
		}
		if update.FirstPartyNotes != nil {
			s.FirstPartyNotes = *update.FirstPartyNotes
		}
		if update.SecondPartyNotes != nil {
			s.SecondPartyNotes = *update.SecondPartyNotes
		}
		if update.InternalNotes != nil {
			s.InternalNotes = *update.InternalNotes
		}
		if update.FollowUpNotes != nil {
			s.FollowUpNotes = *update.FollowUpNotes
		}
		s.LastActivity = time.Now()
		if err := tx.Save(&s).Error; err != nil {
			return fmt.Errorf("update notes: %w", err)
		}
		out = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListPendingPastDeadline returns suggestions still awaiting a party response
// whose decision deadline has passed. Used by the expiry worker.
func (r *repository) ListPendingPastDeadline(ctx context.Context, now time.Time) ([]Suggestion, error) {
	var list []Suggestion
	err := withParties(r.db.WithContext(ctx)).
		Where("status IN ?", []string{string(StatusPendingFirstParty), string(StatusPendingSecondParty)}).
		Where("decision_deadline IS NOT NULL AND decision_deadline < ?", now).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list pending past deadline: %w", err)
	}
	return list, nil
}

// Transition re-reads the suggestion, applies the mutation and appends the
// returned history record, all in one transaction. Either the row update and
// the history insert both commit, or neither does.
func (r *repository) Transition(ctx context.Context, id uuid.UUID, apply func(s *Suggestion) (*StatusHistory, error)) (*Suggestion, error) {
	var out *Suggestion
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s Suggestion
		if err := withParties(tx).First(&s, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("get suggestion: %w", err)
		}
		history, err := apply(&s)
		if err != nil {
			return err
		}
		if err := tx.Save(&s).Error; err != nil {
			return fmt.Errorf("update suggestion: %w", err)
		}
		history.SuggestionID = s.ID
		if err := tx.Create(history).Error; err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		out = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
