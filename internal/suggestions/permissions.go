package suggestions

import (
	"fmt"

	"github.com/google/uuid"
)

// UnauthorizedTransitionError reports an actor who may not perform the
// requested transition given their relationship to the suggestion.
type UnauthorizedTransitionError struct {
	ActorID uuid.UUID
	To      Status
}

func (e *UnauthorizedTransitionError) Error() string {
	return fmt.Sprintf("user %s is not allowed to set status %s", e.ActorID, e.To)
}

// NotesPermissionError reports a non-matchmaker attempting to edit the
// matchmaker-authored note fields.
type NotesPermissionError struct {
	ActorID uuid.UUID
}

func (e *NotesPermissionError) Error() string {
	return fmt.Sprintf("user %s is not allowed to edit suggestion notes", e.ActorID)
}

// CanChangeStatus decides whether actorID may move the suggestion into
// requested. Pure function; callers validate table legality separately.
//
// Rules, in priority order:
//   - first-party responses require the first party or the matchmaker
//   - second-party responses require the second party or the matchmaker
//   - everything else requires the matchmaker
//   - CANCELLED may additionally be requested by any involved participant
func CanChangeStatus(s *Suggestion, actorID uuid.UUID, requested Status) error {
	switch requested {
	case StatusFirstPartyApproved, StatusFirstPartyDeclined, StatusFirstPartyInterested:
		if actorID == s.FirstPartyID || actorID == s.MatchmakerID {
			return nil
		}
	case StatusSecondPartyApproved, StatusSecondPartyDeclined:
		if actorID == s.SecondPartyID || actorID == s.MatchmakerID {
			return nil
		}
	case StatusCancelled:
		if s.IsParticipant(actorID) {
			return nil
		}
	default:
		if actorID == s.MatchmakerID {
			return nil
		}
	}
	return &UnauthorizedTransitionError{ActorID: actorID, To: requested}
}
