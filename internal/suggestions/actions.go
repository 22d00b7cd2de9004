package suggestions

import (
	"github.com/google/uuid"
)

// Action describes a transition the viewer may initiate from the current
// state, used to drive UI affordances.
type Action struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	NextStatus Status `json:"next_status"`
}

// actionLabels maps a target status to the label shown on the action button
var actionLabels = map[Status]string{
	StatusPendingFirstParty:      "Send to first party",
	StatusFirstPartyInterested:   "Mark interested",
	StatusFirstPartyApproved:     "Approve",
	StatusFirstPartyDeclined:     "Decline",
	StatusPendingSecondParty:     "Send to second party",
	StatusSecondPartyApproved:    "Approve",
	StatusSecondPartyDeclined:    "Decline",
	StatusContactDetailsShared:   "Share contact details",
	StatusAwaitingDateFeedback:   "Request date feedback",
	StatusThinkingAfterDate:      "Still thinking",
	StatusProceedingToSecondDate: "Proceed to second date",
	StatusEndedAfterFirstDate:    "End after first date",
	StatusMeetingScheduled:       "Schedule meeting",
	StatusDating:                 "Mark as dating",
	StatusEngaged:                "Mark as engaged",
	StatusMarried:                "Mark as married",
	StatusClosed:                 "Close",
	StatusCancelled:              "Cancel",
}

// actionIDs maps a target status to a stable machine-readable action id
var actionIDs = map[Status]string{
	StatusPendingFirstParty:      "send_to_first_party",
	StatusFirstPartyInterested:   "mark_interested",
	StatusFirstPartyApproved:     "approve",
	StatusFirstPartyDeclined:     "decline",
	StatusPendingSecondParty:     "send_to_second_party",
	StatusSecondPartyApproved:    "approve",
	StatusSecondPartyDeclined:    "decline",
	StatusContactDetailsShared:   "share_contact_details",
	StatusAwaitingDateFeedback:   "request_date_feedback",
	StatusThinkingAfterDate:      "still_thinking",
	StatusProceedingToSecondDate: "proceed_to_second_date",
	StatusEndedAfterFirstDate:    "end_after_first_date",
	StatusMeetingScheduled:       "schedule_meeting",
	StatusDating:                 "mark_dating",
	StatusEngaged:                "mark_engaged",
	StatusMarried:                "mark_married",
	StatusClosed:                 "close",
	StatusCancelled:              "cancel",
}

// AvailableActions returns the transitions the viewer may legally initiate
// from the suggestion's current state. The list is filtered by both the
// transition table and CanChangeStatus, so an action is never offered that
// the permission validator would reject. Terminal states and viewers who are
// not participants get an empty list.
func AvailableActions(s *Suggestion, viewerID uuid.UUID) []Action {
	actions := []Action{}
	if !s.IsParticipant(viewerID) {
		return actions
	}
	for _, next := range s.Status.AllowedNext() {
		if err := CanChangeStatus(s, viewerID, next); err != nil {
			continue
		}
		label, ok := actionLabels[next]
		if !ok {
			label = string(next)
		}
		id, ok := actionIDs[next]
		if !ok {
			id = string(next)
		}
		actions = append(actions, Action{ID: id, Label: label, NextStatus: next})
	}
	return actions
}
