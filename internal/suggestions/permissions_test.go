package suggestions

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSuggestion() (*Suggestion, uuid.UUID, uuid.UUID, uuid.UUID) {
	matchmaker := uuid.New()
	first := uuid.New()
	second := uuid.New()
	return &Suggestion{
		ID:            uuid.New(),
		MatchmakerID:  matchmaker,
		FirstPartyID:  first,
		SecondPartyID: second,
		Status:        StatusPendingFirstParty,
	}, matchmaker, first, second
}

func TestCanChangeStatus_FirstPartyResponses(t *testing.T) {
	s, matchmaker, first, second := testSuggestion()
	stranger := uuid.New()

	for _, target := range []Status{StatusFirstPartyApproved, StatusFirstPartyDeclined, StatusFirstPartyInterested} {
		assert.NoError(t, CanChangeStatus(s, first, target))
		assert.NoError(t, CanChangeStatus(s, matchmaker, target))
		assert.Error(t, CanChangeStatus(s, second, target))
		assert.Error(t, CanChangeStatus(s, stranger, target))
	}
}

func TestCanChangeStatus_SecondPartyResponses(t *testing.T) {
	s, matchmaker, first, second := testSuggestion()
	stranger := uuid.New()

	for _, target := range []Status{StatusSecondPartyApproved, StatusSecondPartyDeclined} {
		assert.NoError(t, CanChangeStatus(s, second, target))
		assert.NoError(t, CanChangeStatus(s, matchmaker, target))
		assert.Error(t, CanChangeStatus(s, first, target))
		assert.Error(t, CanChangeStatus(s, stranger, target))
	}
}

func TestCanChangeStatus_MatchmakerOnlyTransitions(t *testing.T) {
	s, matchmaker, first, second := testSuggestion()

	for _, target := range []Status{StatusPendingSecondParty, StatusContactDetailsShared, StatusEngaged, StatusMarried, StatusClosed} {
		assert.NoError(t, CanChangeStatus(s, matchmaker, target))
		assert.Error(t, CanChangeStatus(s, first, target))
		assert.Error(t, CanChangeStatus(s, second, target))
	}
}

func TestCanChangeStatus_CancelEscapeHatch(t *testing.T) {
	s, matchmaker, first, second := testSuggestion()
	stranger := uuid.New()

	assert.NoError(t, CanChangeStatus(s, matchmaker, StatusCancelled))
	assert.NoError(t, CanChangeStatus(s, first, StatusCancelled))
	assert.NoError(t, CanChangeStatus(s, second, StatusCancelled))

	err := CanChangeStatus(s, stranger, StatusCancelled)
	require.Error(t, err)

	var unauthorized *UnauthorizedTransitionError
	require.ErrorAs(t, err, &unauthorized)
	assert.Equal(t, stranger, unauthorized.ActorID)
	assert.Equal(t, StatusCancelled, unauthorized.To)
}
