package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/participa/citizen-portal/internal/core/domain"
	"github.com/participa/citizen-portal/internal/core/ports"
	"github.com/participa/citizen-portal/internal/metrics"
)

const chatFeedName = "chat"

// ChatThread is the message feed of one occurrence, kept fresh by polling
// while the chat panel is open.
//
// When the messages endpoint is not deployed (404) the thread degrades: it
// starts empty — no fabricated counterpart — and holds only the messages
// the local user sends, which exist purely client-side and are never
// reconciled against the server.
type ChatThread struct {
	client       ports.APIClient
	session      ports.IdentitySource
	occurrenceID int
	poller       *Poller
	logger       zerolog.Logger

	mu       sync.RWMutex
	messages []domain.Message
	degraded bool
}

type messagesResponse struct {
	Messages []domain.Message `json:"messages"`
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

type sendMessageResponse struct {
	Message domain.Message `json:"message"`
}

// NewChatThread creates the thread for one occurrence, refreshing every
// interval while started.
func NewChatThread(client ports.APIClient, session ports.IdentitySource, occurrenceID int, interval time.Duration, logger zerolog.Logger) *ChatThread {
	t := &ChatThread{
		client:       client,
		session:      session,
		occurrenceID: occurrenceID,
		logger: logger.With().
			Str("component", "chat_thread").
			Int("occurrence_id", occurrenceID).
			Logger(),
	}
	t.poller = NewPoller(chatFeedName, interval, t.Refresh, logger)
	return t
}

// Start begins polling; called when the chat panel opens.
func (t *ChatThread) Start(ctx context.Context) { t.poller.Start(ctx) }

// Stop cancels polling; called when the chat panel closes.
func (t *ChatThread) Stop() { t.poller.Stop() }

// Refresh fetches the thread once. Server responses replace the held
// messages wholesale (insertion order from the response, last completed
// fetch wins). In degraded mode only locally synthesized messages survive
// a refresh; there is no server thread to merge with.
func (t *ChatThread) Refresh(ctx context.Context) error {
	if t.session.CurrentUser() == nil {
		return domain.ErrNotAuthenticated
	}

	msgs, degraded, err := FetchWithFallback(ctx, t.fetchMessages, func(ctx context.Context) ([]domain.Message, error) {
		return nil, nil
	})
	if err != nil {
		return err
	}
	if degraded {
		metrics.FeedFallbacksTotal.WithLabelValues(chatFeedName).Inc()
	}

	t.mu.Lock()
	if degraded {
		t.messages = localOnly(t.messages)
	} else {
		t.messages = msgs
	}
	t.degraded = degraded
	t.mu.Unlock()
	return nil
}

func (t *ChatThread) fetchMessages(ctx context.Context) ([]domain.Message, error) {
	var resp messagesResponse
	if err := t.client.Get(ctx, fmt.Sprintf("/occurrences/%d/messages", t.occurrenceID), &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// Send posts a message to the thread. With a live endpoint the server's
// echo of the message is appended; with an absent endpoint (404) a local
// message is synthesized instead so the conversation view stays coherent.
// Blank input is dropped. Any other failure propagates to the caller.
func (t *ChatThread) Send(ctx context.Context, text string) error {
	user := t.session.CurrentUser()
	if user == nil {
		return domain.ErrNotAuthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var resp sendMessageResponse
	err := t.client.Post(ctx, fmt.Sprintf("/occurrences/%d/messages", t.occurrenceID), sendMessageRequest{Message: text}, &resp)
	switch {
	case err == nil:
		t.append(resp.Message)
		return nil
	case ports.IsEndpointMissing(err):
		t.append(domain.Message{
			LocalID:   uuid.NewString(),
			UserID:    user.ID,
			UserName:  user.Name,
			IsStaff:   user.UserType.IsAdminEquivalent(),
			Text:      text,
			CreatedAt: time.Now().UTC(),
		})
		return nil
	default:
		return err
	}
}

// Messages returns a snapshot of the thread in insertion order.
func (t *ChatThread) Messages() []domain.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Degraded reports whether the last refresh found the endpoint absent.
func (t *ChatThread) Degraded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.degraded
}

func (t *ChatThread) append(m domain.Message) {
	t.mu.Lock()
	t.messages = append(t.messages, m)
	t.mu.Unlock()
}

// localOnly filters a thread down to the messages synthesized client-side.
func localOnly(msgs []domain.Message) []domain.Message {
	var out []domain.Message
	for _, m := range msgs {
		if m.LocalID != "" {
			out = append(out, m)
		}
	}
	return out
}
