package domain

import (
	"fmt"
	"time"
)

// NotificationKind is the severity tag a notification carries; the UI maps
// it to an icon and colour.
type NotificationKind string

const (
	KindInfo    NotificationKind = "info"
	KindWarning NotificationKind = "warning"
	KindSuccess NotificationKind = "success"
	KindMessage NotificationKind = "message"
)

// Notification is a single item in a user's notification stream.
type Notification struct {
	ID           int              `json:"id"`
	Kind         NotificationKind `json:"type"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	OccurrenceID int              `json:"occurrence_id,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	Read         bool             `json:"read"`
}

// UnreadCount recomputes the number of unread notifications from the item
// list. The count is never stored separately, so it cannot drift from the
// flags it summarises.
func UnreadCount(items []Notification) int {
	n := 0
	for _, it := range items {
		if !it.Read {
			n++
		}
	}
	return n
}

// Message is one entry in an occurrence's chat thread. Items synthesized
// locally while the endpoint is absent use a UUID in LocalID and a zero ID.
type Message struct {
	ID        int       `json:"id"`
	LocalID   string    `json:"local_id,omitempty"`
	UserID    int       `json:"user_id"`
	UserName  string    `json:"user_name"`
	IsStaff   bool      `json:"is_admin"`
	Text      string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// RelativeTime renders a feed timestamp the way the portal displays it:
// coarse buckets for the recent past, a plain date beyond a week.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	default:
		return t.Format("02/01/2006")
	}
}
