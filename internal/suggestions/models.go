package suggestions

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"match-portal/match-portal-backend/internal/users"
)

// Priority is informational only; it never affects transition legality
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Suggestion is a matchmaker-proposed introduction between two candidates.
// Status is mutated exclusively through the transition engine; rows are never
// physically deleted (CLOSED/CANCELLED are soft termination).
type Suggestion struct {
	ID uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`

	MatchmakerID  uuid.UUID `json:"matchmaker_id" gorm:"type:uuid;not null;index"`
	FirstPartyID  uuid.UUID `json:"first_party_id" gorm:"type:uuid;not null;index"`
	SecondPartyID uuid.UUID `json:"second_party_id" gorm:"type:uuid;not null;index"`

	Matchmaker  *users.User `json:"matchmaker,omitempty" gorm:"foreignKey:MatchmakerID"`
	FirstParty  *users.User `json:"first_party,omitempty" gorm:"foreignKey:FirstPartyID"`
	SecondParty *users.User `json:"second_party,omitempty" gorm:"foreignKey:SecondPartyID"`

	Status         Status   `json:"status" gorm:"not null;index"`
	PreviousStatus Status   `json:"previous_status" gorm:""`
	Priority       Priority `json:"priority" gorm:"default:MEDIUM"`

	MatchingReason   string `json:"matching_reason" gorm:""`
	FirstPartyNotes  string `json:"first_party_notes" gorm:""`
	SecondPartyNotes string `json:"second_party_notes" gorm:""`
	InternalNotes    string `json:"internal_notes" gorm:""`
	FollowUpNotes    string `json:"follow_up_notes" gorm:""`

	// Milestone timestamps, each stamped once at the transition that causes it
	FirstPartySent        *time.Time `json:"first_party_sent" gorm:""`
	FirstPartyResponded   *time.Time `json:"first_party_responded" gorm:""`
	SecondPartySent       *time.Time `json:"second_party_sent" gorm:""`
	SecondPartyResponded  *time.Time `json:"second_party_responded" gorm:""`
	FirstMeetingScheduled *time.Time `json:"first_meeting_scheduled" gorm:""`
	ClosedAt              *time.Time `json:"closed_at" gorm:""`
	DecisionDeadline      *time.Time `json:"decision_deadline" gorm:"index"`
	LastStatusChange      time.Time  `json:"last_status_change" gorm:""`
	LastActivity          time.Time  `json:"last_activity" gorm:""`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the default gorm table name
func (Suggestion) TableName() string { return "suggestions" }

// StatusHistory is an append-only log entry; one record per transition,
// including the initial creation. Never updated or deleted.
type StatusHistory struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SuggestionID uuid.UUID `json:"suggestion_id" gorm:"type:uuid;not null;index"`
	Status       Status    `json:"status" gorm:"not null"`
	Notes        string    `json:"notes" gorm:""`
	// Context carries audit detail for the transition: who acted, from what
	// status, and what triggered it.
	Context   datatypes.JSONMap `json:"context" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the default gorm table name
func (StatusHistory) TableName() string { return "suggestion_status_history" }

// IsParticipant reports whether userID is one of the three involved users
func (s *Suggestion) IsParticipant(userID uuid.UUID) bool {
	return userID == s.MatchmakerID || userID == s.FirstPartyID || userID == s.SecondPartyID
}

// PartyUser returns the loaded user record for the given participant id, nil
// when the association was not preloaded or the id is not a participant.
func (s *Suggestion) PartyUser(userID uuid.UUID) *users.User {
	switch userID {
	case s.MatchmakerID:
		return s.Matchmaker
	case s.FirstPartyID:
		return s.FirstParty
	case s.SecondPartyID:
		return s.SecondParty
	}
	return nil
}
