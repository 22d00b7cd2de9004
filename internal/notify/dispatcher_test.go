package notify

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"match-portal/match-portal-backend/internal/suggestions"
)

// fakeAdapter is a scriptable channel adapter for dispatcher tests
type fakeAdapter struct {
	channel   string
	reachable func(*Recipient) bool
	send      func(*Recipient, *Content) bool
	sentTo    []uuid.UUID
}

func (f *fakeAdapter) ChannelType() string { return f.channel }

func (f *fakeAdapter) CanSendTo(r *Recipient) bool {
	if f.reachable == nil {
		return true
	}
	return f.reachable(r)
}

func (f *fakeAdapter) Send(ctx context.Context, r *Recipient, c *Content) bool {
	ok := true
	if f.send != nil {
		ok = f.send(r, c)
	}
	if ok {
		f.sentTo = append(f.sentTo, r.UserID)
	}
	return ok
}

func newTestDispatcher(t *testing.T, adapters ...ChannelAdapter) *Service {
	t.Helper()
	svc := NewService(newTestResolver(t), "en", zap.NewNop())
	for _, a := range adapters {
		svc.RegisterAdapter(a)
	}
	return svc
}

func TestSend_ChannelIsolation(t *testing.T) {
	email := &fakeAdapter{channel: ChannelEmail, send: func(*Recipient, *Content) bool { return false }}
	whatsapp := &fakeAdapter{channel: ChannelWhatsApp}
	svc := newTestDispatcher(t, email, whatsapp)

	r := &Recipient{UserID: uuid.New(), Locale: "en", Channels: []string{ChannelEmail, ChannelWhatsApp}}
	results := svc.Send(context.Background(), r, &Content{Subject: "s", Body: "b"}, r.Channels)

	require.Len(t, results, 2)
	assert.False(t, results[0].Sent)
	assert.Equal(t, "transport failure", results[0].Reason)
	// the email failure did not prevent the WhatsApp attempt
	assert.True(t, results[1].Sent)
	assert.Len(t, whatsapp.sentTo, 1)
}

func TestSend_UnregisteredChannelSkipped(t *testing.T) {
	svc := newTestDispatcher(t, &fakeAdapter{channel: ChannelEmail})

	r := &Recipient{UserID: uuid.New(), Locale: "en"}
	results := svc.Send(context.Background(), r, &Content{}, []string{ChannelSMS, ChannelEmail})

	require.Len(t, results, 2)
	assert.True(t, results[0].Skipped)
	assert.Equal(t, "no adapter registered", results[0].Reason)
	assert.True(t, results[1].Sent)
}

func TestSend_UnreachableRecipientSkipped(t *testing.T) {
	whatsapp := &fakeAdapter{channel: ChannelWhatsApp, reachable: func(r *Recipient) bool { return r.Phone != "" }}
	svc := newTestDispatcher(t, whatsapp)

	r := &Recipient{UserID: uuid.New(), Locale: "en"} // no phone
	results := svc.Send(context.Background(), r, &Content{}, []string{ChannelWhatsApp})

	require.Len(t, results, 1)
	assert.True(t, results[0].Skipped)
	assert.Empty(t, whatsapp.sentTo)
}

func TestSend_AdapterPanicIsContained(t *testing.T) {
	boom := &fakeAdapter{channel: ChannelEmail, send: func(*Recipient, *Content) bool { panic("smtp meltdown") }}
	whatsapp := &fakeAdapter{channel: ChannelWhatsApp}
	svc := newTestDispatcher(t, boom, whatsapp)

	r := &Recipient{UserID: uuid.New(), Locale: "en"}
	results := svc.Send(context.Background(), r, &Content{}, []string{ChannelEmail, ChannelWhatsApp})

	require.Len(t, results, 2)
	assert.False(t, results[0].Sent)
	assert.Equal(t, "adapter panicked", results[0].Reason)
	assert.True(t, results[1].Sent)
}

func TestHandleStatusChange_RecipientIsolation(t *testing.T) {
	s := suggestionWithParties()
	s.Status = suggestions.StatusContactDetailsShared // both parties notified

	firstID := s.FirstPartyID
	email := &fakeAdapter{
		channel: ChannelEmail,
		send: func(r *Recipient, _ *Content) bool {
			if r.UserID == firstID {
				panic("recipient A exploded")
			}
			return true
		},
	}
	svc := newTestDispatcher(t, email)

	svc.HandleStatusChange(context.Background(), s, suggestions.TransitionOptions{})

	// recipient B was still attempted and succeeded
	assert.Equal(t, []uuid.UUID{s.SecondPartyID}, email.sentTo)
}

func TestHandleStatusChange_NotifyPartiesAllowList(t *testing.T) {
	s := suggestionWithParties()
	s.Status = suggestions.StatusEngaged // all three resolved

	email := &fakeAdapter{channel: ChannelEmail}
	svc := newTestDispatcher(t, email)

	svc.HandleStatusChange(context.Background(), s, suggestions.TransitionOptions{
		NotifyParties: []suggestions.ParticipantRole{suggestions.RoleMatchmaker},
	})

	assert.Equal(t, []uuid.UUID{s.MatchmakerID}, email.sentTo)
}

func TestHandleStatusChange_DispatchesToResolvedRecipients(t *testing.T) {
	s := suggestionWithParties()
	s.Status = suggestions.StatusPendingFirstParty

	email := &fakeAdapter{channel: ChannelEmail}
	whatsapp := &fakeAdapter{channel: ChannelWhatsApp}
	svc := newTestDispatcher(t, email, whatsapp)

	svc.HandleStatusChange(context.Background(), s, suggestions.TransitionOptions{})

	// the first party is the only recipient, on both candidate channels
	assert.Equal(t, []uuid.UUID{s.FirstPartyID}, email.sentTo)
	assert.Equal(t, []uuid.UUID{s.FirstPartyID}, whatsapp.sentTo)
}
