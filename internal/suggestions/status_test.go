package suggestions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransition_LegalEdges(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusDraft, StatusPendingFirstParty},
		{StatusPendingFirstParty, StatusFirstPartyApproved},
		{StatusPendingFirstParty, StatusFirstPartyDeclined},
		{StatusPendingFirstParty, StatusFirstPartyInterested},
		{StatusPendingFirstParty, StatusCancelled},
		{StatusFirstPartyInterested, StatusFirstPartyApproved},
		{StatusFirstPartyApproved, StatusPendingSecondParty},
		{StatusFirstPartyDeclined, StatusClosed},
		{StatusPendingSecondParty, StatusSecondPartyApproved},
		{StatusSecondPartyApproved, StatusContactDetailsShared},
		{StatusSecondPartyDeclined, StatusClosed},
		{StatusAwaitingMatchmaker, StatusContactDetailsShared},
		{StatusContactDetailsShared, StatusAwaitingDateFeedback},
		{StatusAwaitingDateFeedback, StatusThinkingAfterDate},
		{StatusAwaitingDateFeedback, StatusEndedAfterFirstDate},
		{StatusThinkingAfterDate, StatusProceedingToSecondDate},
		{StatusProceedingToSecondDate, StatusDating},
		{StatusEndedAfterFirstDate, StatusClosed},
		{StatusMeetingPending, StatusMeetingScheduled},
		{StatusMeetingScheduled, StatusDating},
		{StatusMatchApproved, StatusDating},
		{StatusMatchDeclined, StatusClosed},
		{StatusDating, StatusEngaged},
		{StatusDating, StatusClosed},
		{StatusEngaged, StatusMarried},
		{StatusEngaged, StatusCancelled},
	}
	for _, tc := range legal {
		assert.NoError(t, ValidateTransition(tc.from, tc.to), "%s -> %s should be legal", tc.from, tc.to)
	}
}

// Every (current, requested) pair absent from the table must fail with an
// InvalidTransitionError carrying the legal successor set.
func TestValidateTransition_RejectsEverythingNotInTable(t *testing.T) {
	for _, from := range allStatuses {
		allowed := map[Status]bool{}
		for _, next := range from.AllowedNext() {
			allowed[next] = true
		}
		for _, to := range allStatuses {
			if allowed[to] {
				continue
			}
			err := ValidateTransition(from, to)
			require.Error(t, err, "%s -> %s must be rejected", from, to)

			var invalid *InvalidTransitionError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, from, invalid.From)
			assert.Equal(t, to, invalid.To)
			assert.ElementsMatch(t, from.AllowedNext(), invalid.Allowed)
		}
	}
}

func TestTerminalStatesHaveNoSuccessors(t *testing.T) {
	for _, s := range []Status{StatusMarried, StatusExpired, StatusClosed, StatusCancelled} {
		assert.True(t, s.IsTerminal())
		assert.Empty(t, s.AllowedNext())
	}
}

func TestDraftHasSingleSuccessor(t *testing.T) {
	err := ValidateTransition(StatusDraft, StatusContactDetailsShared)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []Status{StatusPendingFirstParty}, invalid.Allowed)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("PENDING_FIRST_PARTY")
	require.NoError(t, err)
	assert.Equal(t, StatusPendingFirstParty, s)

	_, err = ParseStatus("NOT_A_STATUS")
	assert.Error(t, err)

	// lowercase is not accepted
	_, err = ParseStatus("pending_first_party")
	assert.Error(t, err)
}
