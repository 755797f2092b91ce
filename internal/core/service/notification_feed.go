package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/participa/citizen-portal/internal/core/domain"
	"github.com/participa/citizen-portal/internal/core/ports"
	"github.com/participa/citizen-portal/internal/metrics"
)

const notificationFeedName = "notifications"

// fallbackPageSize is how many of the user's own occurrences the degraded
// feed is derived from.
const fallbackPageSize = 5

// NotificationFeed keeps a user's notification stream fresh by polling.
// When the dedicated notifications endpoint is not deployed (404), the feed
// degrades to items derived from the user's own submitted occurrences, so
// the view stays populated either way.
type NotificationFeed struct {
	client  ports.APIClient
	session ports.IdentitySource
	poller  *Poller
	logger  zerolog.Logger

	mu       sync.RWMutex
	items    []domain.Notification
	degraded bool
}

type notificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
}

type occurrencesResponse struct {
	Occurrences []domain.OccurrenceSummary `json:"occurrences"`
}

// NewNotificationFeed creates a feed refreshing every interval while
// started.
func NewNotificationFeed(client ports.APIClient, session ports.IdentitySource, interval time.Duration, logger zerolog.Logger) *NotificationFeed {
	f := &NotificationFeed{
		client:  client,
		session: session,
		logger:  logger.With().Str("component", "notification_feed").Logger(),
	}
	f.poller = NewPoller(notificationFeedName, interval, f.Refresh, logger)
	return f
}

// Start begins polling. The owning view calls this on mount once an
// identity is present.
func (f *NotificationFeed) Start(ctx context.Context) { f.poller.Start(ctx) }

// Stop cancels polling. The owning view calls this on unmount.
func (f *NotificationFeed) Stop() { f.poller.Stop() }

// Refresh fetches the stream once and replaces the held items wholesale,
// so out-of-order completions resolve to whichever finished last.
func (f *NotificationFeed) Refresh(ctx context.Context) error {
	user := f.session.CurrentUser()
	if user == nil {
		return domain.ErrNotAuthenticated
	}

	items, degraded, err := FetchWithFallback(ctx, f.fetchNotifications, func(ctx context.Context) ([]domain.Notification, error) {
		return f.deriveFromOccurrences(ctx, user.ID)
	})
	if err != nil {
		return err
	}
	if degraded {
		metrics.FeedFallbacksTotal.WithLabelValues(notificationFeedName).Inc()
	}

	f.mu.Lock()
	f.items = items
	f.degraded = degraded
	f.mu.Unlock()
	return nil
}

func (f *NotificationFeed) fetchNotifications(ctx context.Context) ([]domain.Notification, error) {
	var resp notificationsResponse
	if err := f.client.Get(ctx, "/notifications", &resp); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

// deriveFromOccurrences rebuilds a presentable feed from the citizen's own
// recent reports: one notification per occurrence, phrased from its status.
// The first three derived items are unread, mirroring a fresh stream.
func (f *NotificationFeed) deriveFromOccurrences(ctx context.Context, userID int) ([]domain.Notification, error) {
	var resp occurrencesResponse
	path := fmt.Sprintf("/occurrences?citizen_id=%d&per_page=%d", userID, fallbackPageSize)
	if err := f.client.Get(ctx, path, &resp); err != nil {
		return nil, err
	}

	items := make([]domain.Notification, 0, len(resp.Occurrences))
	for i, occ := range resp.Occurrences {
		items = append(items, domain.Notification{
			ID:           i + 1,
			Kind:         occ.Status.NotificationKind(),
			Title:        occ.Status.NotificationTitle(),
			Message:      occ.Status.NotificationText(occ.Title),
			OccurrenceID: occ.ID,
			CreatedAt:    occ.UpdatedAt,
			Read:         i > 2,
		})
	}
	return items, nil
}

// MarkRead flips one item to read. The flag is flipped locally first —
// optimistically — then the canonical endpoint is told; its absence (404)
// is ignored because there is nothing to reconcile against. Other failures
// are returned but never revert the local flag.
func (f *NotificationFeed) MarkRead(ctx context.Context, id int) error {
	f.mu.Lock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
			break
		}
	}
	f.mu.Unlock()

	err := f.client.Patch(ctx, fmt.Sprintf("/notifications/%d/read", id), nil, nil)
	if err != nil && !ports.IsEndpointMissing(err) {
		f.logger.Warn().Err(err).Int("notification_id", id).Msg("mark-read not acknowledged by server")
		return err
	}
	return nil
}

// MarkAllRead flips every item to read, with the same optimistic contract
// as MarkRead.
func (f *NotificationFeed) MarkAllRead(ctx context.Context) error {
	f.mu.Lock()
	for i := range f.items {
		f.items[i].Read = true
	}
	f.mu.Unlock()

	err := f.client.Post(ctx, "/notifications/mark-all-read", nil, nil)
	if err != nil && !ports.IsEndpointMissing(err) {
		f.logger.Warn().Err(err).Msg("mark-all-read not acknowledged by server")
		return err
	}
	return nil
}

// Items returns a snapshot of the stream in server order.
func (f *NotificationFeed) Items() []domain.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.Notification, len(f.items))
	copy(out, f.items)
	return out
}

// UnreadCount is always recomputed from the item list, never stored.
func (f *NotificationFeed) UnreadCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return domain.UnreadCount(f.items)
}

// Degraded reports whether the last refresh was served from the fallback
// derivation.
func (f *NotificationFeed) Degraded() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.degraded
}
