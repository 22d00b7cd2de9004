package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"match-portal/match-portal-backend/internal/notify/locales"
	"match-portal/match-portal-backend/internal/suggestions"
)

// ContentResolver renders localized notification content for one recipient.
// Invitation mode preserves curiosity for first contact; standard mode is
// direct and informative; custom mode wraps a matchmaker-authored message.
type ContentResolver struct {
	locales      *locales.Locales
	baseURL      string
	supportEmail string
}

// NewContentResolver creates a content resolver. baseURL is the public site
// root used to build deep links embedded in content.
func NewContentResolver(l *locales.Locales, baseURL, supportEmail string) *ContentResolver {
	return &ContentResolver{
		locales:      l,
		baseURL:      strings.TrimRight(baseURL, "/"),
		supportEmail: supportEmail,
	}
}

// isInvitation reports whether this status/recipient pair is a first contact:
// the suggestion is newly pending a candidate's response and the recipient is
// that candidate.
func isInvitation(status suggestions.Status, role suggestions.ParticipantRole) bool {
	return (status == suggestions.StatusPendingFirstParty && role == suggestions.RoleFirstParty) ||
		(status == suggestions.StatusPendingSecondParty && role == suggestions.RoleSecondParty)
}

// statusMessageIDs maps each notified status to its body message. Statuses
// not listed fall back to StatusDefault.
var statusMessageIDs = map[suggestions.Status]string{
	suggestions.StatusFirstPartyInterested: "StatusFirstPartyInterested",
	suggestions.StatusFirstPartyApproved:   "StatusFirstPartyApproved",
	suggestions.StatusFirstPartyDeclined:   "StatusFirstPartyDeclined",
	suggestions.StatusSecondPartyApproved:  "StatusSecondPartyApproved",
	suggestions.StatusSecondPartyDeclined:  "StatusSecondPartyDeclined",
	suggestions.StatusContactDetailsShared: "StatusContactDetailsShared",
	suggestions.StatusAwaitingDateFeedback: "StatusAwaitingFirstDateFeedback",
	suggestions.StatusEngaged:              "StatusEngaged",
	suggestions.StatusMarried:              "StatusMarried",
	suggestions.StatusExpired:              "StatusExpired",
}

// Resolve produces the content for one recipient in their locale
func (cr *ContentResolver) Resolve(s *suggestions.Suggestion, r *Recipient, opts suggestions.TransitionOptions) *Content {
	localizer := cr.locales.Localizer(r.Locale)

	switch {
	case opts.CustomMessage != "":
		return cr.customContent(s, r, opts.CustomMessage)
	case isInvitation(s.Status, r.Role):
		return cr.invitationContent(s, r)
	default:
		return cr.standardContent(s, r, localizer)
	}
}

// invitationContent deliberately omits the counterpart's identifying
// attributes: the personal note, a teaser, the review link and an optional
// soft deadline are all the candidate sees before responding.
func (cr *ContentResolver) invitationContent(s *suggestions.Suggestion, r *Recipient) *Content {
	localizer := cr.locales.Localizer(r.Locale)

	matchmakerName := ""
	if s.Matchmaker != nil {
		matchmakerName = s.Matchmaker.FullName()
	}
	reviewURL := fmt.Sprintf("%s/suggestions/%s/review", cr.baseURL, s.ID)

	lines := []string{
		cr.locales.Message(localizer, "InvitationGreeting", map[string]interface{}{"PartyName": r.Name}),
		cr.locales.Message(localizer, "InvitationBody", map[string]interface{}{"MatchmakerName": matchmakerName}),
	}

	personalNote := s.FirstPartyNotes
	if r.Role == suggestions.RoleSecondParty {
		personalNote = s.SecondPartyNotes
	}
	if personalNote != "" {
		lines = append(lines, cr.locales.Message(localizer, "InvitationNote", map[string]interface{}{"PersonalNote": personalNote}))
	}
	if s.DecisionDeadline != nil {
		lines = append(lines, cr.locales.Message(localizer, "InvitationDeadline", map[string]interface{}{
			"Deadline": s.DecisionDeadline.Format("02/01/2006"),
		}))
	}
	lines = append(lines, cr.locales.Message(localizer, "InvitationCTA", map[string]interface{}{"ReviewURL": reviewURL}))

	body := strings.Join(lines, "\n\n")
	return &Content{
		Subject: cr.locales.Message(localizer, "InvitationSubject", nil),
		Body:    body,
		HTML:    wrapHTML(body, r.Locale),
	}
}

// customContent wraps an ad hoc matchmaker-authored message with a link to
// the suggestion details.
func (cr *ContentResolver) customContent(s *suggestions.Suggestion, r *Recipient, message string) *Content {
	localizer := cr.locales.Localizer(r.Locale)
	detailsURL := fmt.Sprintf("%s/suggestions/%s", cr.baseURL, s.ID)

	body := message + "\n\n" + cr.locales.Message(localizer, "CustomFooter", map[string]interface{}{"DetailsURL": detailsURL})
	return &Content{
		Subject: cr.locales.Message(localizer, "CustomSubject", nil),
		Body:    body,
		HTML:    wrapHTML(body, r.Locale),
	}
}

// standardContent resolves the status-keyed template with placeholder
// substitution: direct informative content for approvals, declines, sharing
// and milestone states.
func (cr *ContentResolver) standardContent(s *suggestions.Suggestion, r *Recipient, localizer *i18n.Localizer) *Content {
	matchmakerName := ""
	if s.Matchmaker != nil {
		matchmakerName = s.Matchmaker.FullName()
	}
	data := map[string]interface{}{
		"PartyName":      respondingPartyName(s),
		"MatchmakerName": matchmakerName,
		"Status":         string(s.Status),
	}

	msgID, ok := statusMessageIDs[s.Status]
	if !ok {
		msgID = "StatusDefault"
	}

	subjectID := "StatusUpdateSubject"
	if s.Status == suggestions.StatusEngaged || s.Status == suggestions.StatusMarried {
		subjectID = "CelebrationSubject"
	}

	dashboardURL := fmt.Sprintf("%s/dashboard", cr.baseURL)
	lines := []string{
		cr.locales.Message(localizer, msgID, data),
		cr.locales.Message(localizer, "DashboardLink", map[string]interface{}{"DashboardURL": dashboardURL}),
	}
	if cr.supportEmail != "" {
		lines = append(lines, cr.locales.Message(localizer, "SupportFooter", map[string]interface{}{"SupportEmail": cr.supportEmail}))
	}

	body := strings.Join(lines, "\n\n")
	return &Content{
		Subject: cr.locales.Message(localizer, subjectID, nil),
		Body:    body,
		HTML:    wrapHTML(body, r.Locale),
	}
}

// respondingPartyName names the candidate the status update is about: the
// first party for first-party responses, the second for second-party ones.
// For terminal/expiry statuses the previous status decides which party was
// pending.
func respondingPartyName(s *suggestions.Suggestion) string {
	first, second := "", ""
	if s.FirstParty != nil {
		first = s.FirstParty.FullName()
	}
	if s.SecondParty != nil {
		second = s.SecondParty.FullName()
	}
	switch s.Status {
	case suggestions.StatusFirstPartyApproved,
		suggestions.StatusFirstPartyDeclined,
		suggestions.StatusFirstPartyInterested:
		return first
	case suggestions.StatusSecondPartyApproved,
		suggestions.StatusSecondPartyDeclined:
		return second
	case suggestions.StatusExpired:
		if s.PreviousStatus == suggestions.StatusPendingSecondParty {
			return second
		}
		return first
	}
	return first
}

// wrapHTML converts plain text to a minimal HTML document, applying RTL
// direction for locales that need it.
func wrapHTML(body, locale string) string {
	dir := "ltr"
	if locales.IsRTL(locale) {
		dir = "rtl"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<div dir=%q>", dir)
	for _, paragraph := range strings.Split(body, "\n\n") {
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(paragraph), "\n", "<br>"))
		b.WriteString("</p>")
	}
	b.WriteString("</div>")
	return b.String()
}
