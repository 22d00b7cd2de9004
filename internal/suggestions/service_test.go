package suggestions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(repo *memRepo, notifier StatusNotifier) Service {
	engine := newTestEngine(repo, notifier, nil)
	return NewService(repo, engine, zap.NewNop())
}

func TestCreateSuggestion(t *testing.T) {
	repo := newMemRepo()
	notifier := &recordingNotifier{}
	service := newTestService(repo, notifier)

	matchmaker, first, second := uuid.New(), uuid.New(), uuid.New()
	created, err := service.CreateSuggestion(context.Background(), CreateSuggestionRequest{
		MatchmakerID:    matchmaker,
		FirstPartyID:    first,
		SecondPartyID:   second,
		MatchingReason:  "similar values, both love hiking",
		FirstPartyNotes: "I really think this could work",
	})
	require.NoError(t, err)

	// created at DRAFT, auto-advanced to PENDING_FIRST_PARTY
	assert.Equal(t, StatusPendingFirstParty, created.Status)
	assert.Equal(t, StatusDraft, created.PreviousStatus)
	require.NotNil(t, created.FirstPartySent)
	require.NotNil(t, created.DecisionDeadline)
	assert.True(t, created.DecisionDeadline.After(time.Now()))
	assert.Equal(t, PriorityMedium, created.Priority)

	history, _ := repo.ListHistory(context.Background(), created.ID)
	require.Len(t, history, 2)
	assert.Equal(t, StatusDraft, history[0].Status)
	assert.Equal(t, StatusPendingFirstParty, history[1].Status)

	// the invitation went through the notification path
	assert.Equal(t, []Status{StatusPendingFirstParty}, notifier.calls)
}

func TestCreateSuggestion_Validation(t *testing.T) {
	service := newTestService(newMemRepo(), nil)
	sameID := uuid.New()

	_, err := service.CreateSuggestion(context.Background(), CreateSuggestionRequest{
		MatchmakerID:  uuid.New(),
		FirstPartyID:  sameID,
		SecondPartyID: sameID,
	})
	assert.Error(t, err)

	_, err = service.CreateSuggestion(context.Background(), CreateSuggestionRequest{
		FirstPartyID:  uuid.New(),
		SecondPartyID: uuid.New(),
	})
	assert.Error(t, err)
}

func TestUpdateNotes_MatchmakerOnly(t *testing.T) {
	repo := newMemRepo()
	service := newTestService(repo, nil)
	s, matchmaker, first, _ := seedSuggestion(t, repo, StatusPendingFirstParty)

	notes := "spoke to both families"
	updated, err := service.UpdateNotes(context.Background(), s.ID, matchmaker, NotesUpdate{InternalNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.InternalNotes)

	_, err = service.UpdateNotes(context.Background(), s.ID, first, NotesUpdate{InternalNotes: &notes})
	var denied *NotesPermissionError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, first, denied.ActorID)
	assert.NotContains(t, err.Error(), "status")
}

func TestGetSuggestion_NotFound(t *testing.T) {
	service := newTestService(newMemRepo(), nil)
	_, err := service.GetSuggestion(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpireOverdue_SecondPartyWindowRefreshed(t *testing.T) {
	repo := newMemRepo()
	service := newTestService(repo, nil)
	s, matchmaker, first, _ := seedSuggestion(t, repo, StatusPendingFirstParty)

	// first party responds only after their own deadline already passed
	past := time.Now().Add(-time.Hour)
	_, err := repo.Transition(context.Background(), s.ID, func(row *Suggestion) (*StatusHistory, error) {
		row.DecisionDeadline = &past
		return &StatusHistory{Status: row.Status, Notes: "deadline backdated for test"}, nil
	})
	require.NoError(t, err)

	_, err = service.TransitionStatus(context.Background(), s.ID, first, StatusFirstPartyApproved, TransitionOptions{})
	require.NoError(t, err)
	updated, err := service.TransitionStatus(context.Background(), s.ID, matchmaker, StatusPendingSecondParty, TransitionOptions{})
	require.NoError(t, err)

	// the second party starts with a fresh response window
	require.NotNil(t, updated.DecisionDeadline)
	assert.True(t, updated.DecisionDeadline.After(time.Now()))

	expired, err := service.ExpireOverdue(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, expired)

	row, _ := repo.GetByID(context.Background(), s.ID)
	assert.Equal(t, StatusPendingSecondParty, row.Status)
}

func TestExpireOverdue(t *testing.T) {
	repo := newMemRepo()
	notifier := &recordingNotifier{}
	service := newTestService(repo, notifier)

	past := time.Now().Add(-48 * time.Hour)
	overdue, _, _, _ := seedSuggestion(t, repo, StatusPendingFirstParty)
	fresh, _, _, _ := seedSuggestion(t, repo, StatusPendingFirstParty)

	_, err := repo.Transition(context.Background(), overdue.ID, func(s *Suggestion) (*StatusHistory, error) {
		s.DecisionDeadline = &past
		return &StatusHistory{Status: s.Status, Notes: "deadline backdated for test"}, nil
	})
	require.NoError(t, err)

	expired, err := service.ExpireOverdue(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	expiredRow, _ := repo.GetByID(context.Background(), overdue.ID)
	assert.Equal(t, StatusExpired, expiredRow.Status)
	assert.Equal(t, StatusPendingFirstParty, expiredRow.PreviousStatus)
	require.NotNil(t, expiredRow.ClosedAt)

	freshRow, _ := repo.GetByID(context.Background(), fresh.ID)
	assert.Equal(t, StatusPendingFirstParty, freshRow.Status)

	// expiry notices go through the dispatcher like any other transition
	assert.Contains(t, notifier.calls, StatusExpired)
}
