// Package poll implements the screen-owned refresh timer that fakes a live
// feed on top of a stateless request/response backend.
package poll

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Fetch is one poll action. It must be idempotent: every tick re-fetches a
// full snapshot. A returned error is logged and skipped; the next tick
// retries unconditionally.
type Fetch func(ctx context.Context) error

// Poller invokes a fetch immediately on Start and then on a fixed cadence
// until Stop. Ticks are not serialized against each other: a fetch slower
// than the interval overlaps the next one. There is no backoff, jitter, or
// request coalescing.
//
// The context passed to the fetch is cancelled by Stop. A fetch that
// applies its result to a view must check ctx.Err() first so a response
// landing after navigation never touches a torn-down screen.
type Poller struct {
	name     string
	interval time.Duration
	fetch    Fetch
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates a poller. The name is used for logging only.
func New(name string, interval time.Duration, fetch Fetch, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		name:     name,
		interval: interval,
		fetch:    fetch,
		logger:   logger,
	}
}

// Start begins polling. A running poller is stopped first, so Start is safe
// to call when retargeting a screen (e.g. opening a different conversation).
func (p *Poller) Start(ctx context.Context) {
	p.Stop()

	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	go p.loop(ctx)
}

// Stop prevents all further fetch invocations and cancels the context seen
// by any in-flight fetch. Idempotent.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Running reports whether the poller is currently started.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Poller) loop(ctx context.Context) {
	p.run(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.run(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	// Each tick runs in its own goroutine so a slow fetch never delays the
	// cadence. Overlap is accepted, not prevented.
	go func() {
		if err := p.fetch(ctx); err != nil && ctx.Err() == nil {
			p.logger.Warn("poll fetch failed", zap.String("poller", p.name), zap.Error(err))
		}
	}()
}
