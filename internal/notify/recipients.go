package notify

import (
	"match-portal/match-portal-backend/internal/suggestions"
	"match-portal/match-portal-backend/internal/users"
)

// candidateChannels are the default channels for candidates; matchmaker
// notices go out on email only.
var (
	candidateChannels  = []string{ChannelEmail, ChannelWhatsApp}
	matchmakerChannels = []string{ChannelEmail}
)

// rolesForStatus maps the status just entered to the participants who must be
// told about it.
func rolesForStatus(status suggestions.Status) []suggestions.ParticipantRole {
	switch status {
	case suggestions.StatusPendingFirstParty:
		return []suggestions.ParticipantRole{suggestions.RoleFirstParty}
	case suggestions.StatusFirstPartyApproved,
		suggestions.StatusFirstPartyDeclined,
		suggestions.StatusFirstPartyInterested:
		return []suggestions.ParticipantRole{suggestions.RoleMatchmaker}
	case suggestions.StatusPendingSecondParty:
		return []suggestions.ParticipantRole{suggestions.RoleSecondParty}
	case suggestions.StatusSecondPartyApproved,
		suggestions.StatusSecondPartyDeclined:
		return []suggestions.ParticipantRole{suggestions.RoleMatchmaker}
	case suggestions.StatusContactDetailsShared,
		suggestions.StatusAwaitingDateFeedback:
		return []suggestions.ParticipantRole{suggestions.RoleFirstParty, suggestions.RoleSecondParty}
	case suggestions.StatusEngaged, suggestions.StatusMarried:
		return []suggestions.ParticipantRole{suggestions.RoleFirstParty, suggestions.RoleSecondParty, suggestions.RoleMatchmaker}
	default:
		return []suggestions.ParticipantRole{suggestions.RoleMatchmaker}
	}
}

// ResolveRecipients builds the recipient set for the suggestion's current
// status. Participants whose user record was not preloaded are skipped; the
// dispatcher logs the gap. defaultLocale fills in for users without a
// language preference.
func ResolveRecipients(s *suggestions.Suggestion, defaultLocale string) []Recipient {
	recipients := []Recipient{}
	for _, role := range rolesForStatus(s.Status) {
		var user *users.User
		channels := candidateChannels
		switch role {
		case suggestions.RoleMatchmaker:
			user = s.Matchmaker
			channels = matchmakerChannels
		case suggestions.RoleFirstParty:
			user = s.FirstParty
		case suggestions.RoleSecondParty:
			user = s.SecondParty
		}
		if user == nil {
			continue
		}
		recipients = append(recipients, Recipient{
			UserID:   user.ID,
			Role:     role,
			Name:     user.FullName(),
			Email:    user.Email,
			Phone:    user.Phone,
			Locale:   user.Locale(defaultLocale),
			Channels: channels,
		})
	}
	return recipients
}
