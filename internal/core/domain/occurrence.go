package domain

import "time"

// OccurrenceStatus represents the lifecycle state of a citizen report.
type OccurrenceStatus string

const (
	StatusOpen       OccurrenceStatus = "open"
	StatusInProgress OccurrenceStatus = "in_progress"
	StatusResolved   OccurrenceStatus = "resolved"
	StatusClosed     OccurrenceStatus = "closed"
)

// OccurrenceSummary is the slim view of a report returned by the list
// endpoint. The notification feed derives its degraded-mode items from it
// when the dedicated notifications endpoint is not deployed.
type OccurrenceSummary struct {
	ID        int              `json:"id"`
	Title     string           `json:"title"`
	Status    OccurrenceStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// notificationFacets maps an occurrence status to how the derived
// notification presents it: severity kind, headline, and the past-tense
// verb phrase spliced into the message body.
var notificationFacets = map[OccurrenceStatus]struct {
	kind  NotificationKind
	title string
	verb  string
}{
	StatusOpen:       {KindInfo, "Report received", "received by the city hall"},
	StatusInProgress: {KindWarning, "In progress", "put in progress"},
	StatusResolved:   {KindSuccess, "Resolved!", "resolved"},
	StatusClosed:     {KindInfo, "Closed", "closed"},
}

// NotificationKind returns the severity kind a status update maps to.
// Unknown statuses render as plain informational updates.
func (s OccurrenceStatus) NotificationKind() NotificationKind {
	if f, ok := notificationFacets[s]; ok {
		return f.kind
	}
	return KindInfo
}

// NotificationTitle returns the headline for a status update.
func (s OccurrenceStatus) NotificationTitle() string {
	if f, ok := notificationFacets[s]; ok {
		return f.title
	}
	return "Update"
}

// NotificationText returns the message body for a status update on the
// occurrence with the given title.
func (s OccurrenceStatus) NotificationText(occurrenceTitle string) string {
	verb := "updated"
	if f, ok := notificationFacets[s]; ok {
		verb = f.verb
	}
	return "Your report \"" + occurrenceTitle + "\" was " + verb
}
