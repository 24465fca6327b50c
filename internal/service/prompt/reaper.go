package prompt

import (
	"context"
	"time"

	"github.com/sandevgo/prompter/pkg/log"
)

const defaultSweepInterval = 30 * time.Second

// Reaper cancels sessions that have been idle for longer than the configured
// timeout. A timeout of zero keeps sessions until they are cleared.
type Reaper struct {
	manager  *Manager
	timeout  func() time.Duration
	interval time.Duration
	now      func() time.Time
	done     chan struct{}
}

func NewReaper(manager *Manager, timeout func() time.Duration) *Reaper {
	return &Reaper{
		manager:  manager,
		timeout:  timeout,
		interval: defaultSweepInterval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

func (r *Reaper) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-r.done:
			return nil
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

func (r *Reaper) Shutdown(ctx context.Context) error {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
	return nil
}

// Sweep runs one expiry pass and returns the number of cancelled sessions.
func (r *Reaper) Sweep(ctx context.Context) int {
	timeout := r.timeout()
	if timeout <= 0 {
		return 0
	}

	n := r.manager.Expire(ctx, r.now().Add(-timeout))
	if n > 0 {
		log.FromCtx(ctx).Info().Int("sessions", n).Dur("timeout", timeout).Msg("expired idle prompt sessions")
	}
	return n
}
