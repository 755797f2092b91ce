package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/participa/citizen-portal/internal/metrics"
)

// Poller approximates real-time updates for a view-scoped feed over plain
// request/response: one immediate fetch on activation, then a fetch every
// interval until Stop.
//
// Each fetch runs in its own goroutine, so a fetch slower than the interval
// overlaps with the next one; completions may land out of order and the
// consumer must replace its state wholesale from whichever finishes last.
// A failed fetch never cancels the schedule.
type Poller struct {
	feed     string
	interval time.Duration
	fetch    func(ctx context.Context) error
	logger   zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewPoller creates a Poller for the named feed. feed is used as the
// metrics label and in log lines.
func NewPoller(feed string, interval time.Duration, fetch func(ctx context.Context) error, logger zerolog.Logger) *Poller {
	return &Poller{
		feed:     feed,
		interval: interval,
		fetch:    fetch,
		logger:   logger.With().Str("feed", feed).Logger(),
	}
}

// Start activates the poller. Starting an already-active poller is a no-op:
// at most one timer is live per poller. The schedule also ends when ctx is
// cancelled.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	go p.run(ctx)
}

// Stop synchronously cancels the schedule. No fetch fires after Stop
// returns; fetches already in flight finish on their own and their results
// are the consumer's to discard. Stop is idempotent, and the poller may be
// started again afterwards.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	go p.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	metrics.PollTicksTotal.WithLabelValues(p.feed).Inc()
	if err := p.fetch(ctx); err != nil {
		metrics.PollErrorsTotal.WithLabelValues(p.feed).Inc()
		p.logger.Warn().Err(err).Msg("poll fetch failed")
	}
}
