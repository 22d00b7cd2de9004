package suggestions

import (
	"fmt"
	"strings"

	"match-portal/match-portal-backend/pkg/workflows"
)

// Status is the lifecycle state of a suggestion
type Status string

const (
	StatusDraft                    Status = "DRAFT"
	StatusPendingFirstParty        Status = "PENDING_FIRST_PARTY"
	StatusFirstPartyInterested     Status = "FIRST_PARTY_INTERESTED"
	StatusFirstPartyApproved       Status = "FIRST_PARTY_APPROVED"
	StatusFirstPartyDeclined       Status = "FIRST_PARTY_DECLINED"
	StatusPendingSecondParty       Status = "PENDING_SECOND_PARTY"
	StatusSecondPartyApproved      Status = "SECOND_PARTY_APPROVED"
	StatusSecondPartyDeclined      Status = "SECOND_PARTY_DECLINED"
	StatusAwaitingMatchmaker       Status = "AWAITING_MATCHMAKER_APPROVAL"
	StatusContactDetailsShared     Status = "CONTACT_DETAILS_SHARED"
	StatusAwaitingDateFeedback     Status = "AWAITING_FIRST_DATE_FEEDBACK"
	StatusThinkingAfterDate        Status = "THINKING_AFTER_DATE"
	StatusProceedingToSecondDate   Status = "PROCEEDING_TO_SECOND_DATE"
	StatusEndedAfterFirstDate      Status = "ENDED_AFTER_FIRST_DATE"
	StatusMeetingPending           Status = "MEETING_PENDING"
	StatusMeetingScheduled         Status = "MEETING_SCHEDULED"
	StatusMatchApproved            Status = "MATCH_APPROVED"
	StatusMatchDeclined            Status = "MATCH_DECLINED"
	StatusDating                   Status = "DATING"
	StatusEngaged                  Status = "ENGAGED"
	StatusMarried                  Status = "MARRIED"
	StatusExpired                  Status = "EXPIRED"
	StatusClosed                   Status = "CLOSED"
	StatusCancelled                Status = "CANCELLED"
)

// allStatuses enumerates every valid status, used by ParseStatus
var allStatuses = []Status{
	StatusDraft, StatusPendingFirstParty, StatusFirstPartyInterested,
	StatusFirstPartyApproved, StatusFirstPartyDeclined, StatusPendingSecondParty,
	StatusSecondPartyApproved, StatusSecondPartyDeclined, StatusAwaitingMatchmaker,
	StatusContactDetailsShared, StatusAwaitingDateFeedback, StatusThinkingAfterDate,
	StatusProceedingToSecondDate, StatusEndedAfterFirstDate, StatusMeetingPending,
	StatusMeetingScheduled, StatusMatchApproved, StatusMatchDeclined,
	StatusDating, StatusEngaged, StatusMarried, StatusExpired,
	StatusClosed, StatusCancelled,
}

// transitionTable lists every allowed (from → to) edge. Terminal states map
// to an empty slice. MEETING_PENDING, MEETING_SCHEDULED, MATCH_APPROVED,
// MATCH_DECLINED and AWAITING_MATCHMAKER_APPROVAL have no inbound edges here;
// they are retained as legacy states with defined outgoing behavior.
var transitionTable = map[string][]string{
	string(StatusDraft):                  {string(StatusPendingFirstParty)},
	string(StatusPendingFirstParty):      {string(StatusFirstPartyApproved), string(StatusFirstPartyDeclined), string(StatusFirstPartyInterested), string(StatusCancelled)},
	string(StatusFirstPartyInterested):   {string(StatusFirstPartyApproved), string(StatusFirstPartyDeclined), string(StatusCancelled)},
	string(StatusFirstPartyApproved):     {string(StatusPendingSecondParty), string(StatusCancelled)},
	string(StatusFirstPartyDeclined):     {string(StatusClosed)},
	string(StatusPendingSecondParty):     {string(StatusSecondPartyApproved), string(StatusSecondPartyDeclined), string(StatusCancelled)},
	string(StatusSecondPartyApproved):    {string(StatusContactDetailsShared), string(StatusCancelled)},
	string(StatusSecondPartyDeclined):    {string(StatusClosed)},
	string(StatusAwaitingMatchmaker):     {string(StatusContactDetailsShared), string(StatusCancelled)},
	string(StatusContactDetailsShared):   {string(StatusAwaitingDateFeedback), string(StatusCancelled)},
	string(StatusAwaitingDateFeedback):   {string(StatusThinkingAfterDate), string(StatusEndedAfterFirstDate), string(StatusCancelled)},
	string(StatusThinkingAfterDate):      {string(StatusProceedingToSecondDate), string(StatusEndedAfterFirstDate), string(StatusCancelled)},
	string(StatusProceedingToSecondDate): {string(StatusDating), string(StatusCancelled)},
	string(StatusEndedAfterFirstDate):    {string(StatusClosed)},
	string(StatusMeetingPending):         {string(StatusMeetingScheduled), string(StatusCancelled)},
	string(StatusMeetingScheduled):       {string(StatusDating), string(StatusCancelled)},
	string(StatusMatchApproved):          {string(StatusDating), string(StatusCancelled)},
	string(StatusMatchDeclined):          {string(StatusClosed)},
	string(StatusDating):                 {string(StatusEngaged), string(StatusClosed), string(StatusCancelled)},
	string(StatusEngaged):                {string(StatusMarried), string(StatusCancelled)},
	string(StatusMarried):                {},
	string(StatusExpired):                {},
	string(StatusClosed):                 {},
	string(StatusCancelled):              {},
}

// stateMachine is the shared transition validator built from the table above
var stateMachine = workflows.NewStateMachine(transitionTable)

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown suggestion status %q", s)
}

// IsTerminal reports whether the status admits no outgoing transitions
func (s Status) IsTerminal() bool {
	return stateMachine.IsTerminal(string(s))
}

// AllowedNext returns the legal successor statuses for s
func (s Status) AllowedNext() []Status {
	raw := stateMachine.GetAllowedTransitions(string(s))
	next := make([]Status, 0, len(raw))
	for _, r := range raw {
		next = append(next, Status(r))
	}
	return next
}

// InvalidTransitionError reports a requested status that is not a legal
// successor of the current one. Allowed carries the legal successor set so
// callers can surface it.
type InvalidTransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, 0, len(e.Allowed))
	for _, s := range e.Allowed {
		allowed = append(allowed, string(s))
	}
	return fmt.Sprintf("invalid transition %s -> %s (allowed: %s)", e.From, e.To, strings.Join(allowed, ", "))
}

// ValidateTransition checks the requested transition against the table. It
// must pass before any persistence happens.
func ValidateTransition(current, requested Status) error {
	if !stateMachine.CanTransition(string(current), string(requested)) {
		return &InvalidTransitionError{From: current, To: requested, Allowed: current.AllowedNext()}
	}
	return nil
}
