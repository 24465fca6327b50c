package prompt

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sandevgo/prompter/pkg/log"
)

var (
	ErrSessionExists = errors.New("session already in progress")
	ErrNoSession     = errors.New("no session in progress")
)

// Manager owns the active queues, at most one per session id. It never looks
// inside a queue beyond asking whether it has terminated.
type Manager struct {
	mu     sync.Mutex
	queues map[string]*Queue
}

func NewManager() *Manager {
	return &Manager{
		queues: make(map[string]*Queue),
	}
}

// Register adds q for id. An existing entry is left untouched and
// ErrSessionExists is returned.
func (m *Manager) Register(ctx context.Context, id string, q *Queue) error {
	m.mu.Lock()
	if _, exists := m.queues[id]; exists {
		m.mu.Unlock()
		log.FromCtx(ctx).Warn().Str("session", id).Msg("rejected second prompt session")
		return fmt.Errorf("%w: %s", ErrSessionExists, id)
	}
	m.queues[id] = q
	m.mu.Unlock()

	q.OnTerminal(ctx, func(ctx context.Context, q *Queue) {
		m.release(ctx, id, q)
	})
	return nil
}

func (m *Manager) release(ctx context.Context, id string, q *Queue) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.queues[id]; ok && current == q {
		delete(m.queues, id)
		log.FromCtx(ctx).Debug().Str("session", id).Str("state", q.State().String()).Msg("prompt session released")
	}
}

// Lookup returns the live queue for id. A queue that has just terminated but
// not yet been released is reported as absent.
func (m *Manager) Lookup(id string) (*Queue, bool) {
	m.mu.Lock()
	q, ok := m.queues[id]
	m.mu.Unlock()

	if !ok || q.State().Terminal() {
		return nil, false
	}
	return q, true
}

func (m *Manager) Active(id string) bool {
	_, ok := m.Lookup(id)
	return ok
}

// Clear removes the entry for id and cancels it without a notice. Hosts call
// it when a user goes away.
func (m *Manager) Clear(ctx context.Context, id string) bool {
	m.mu.Lock()
	q, ok := m.queues[id]
	delete(m.queues, id)
	m.mu.Unlock()

	if !ok {
		return false
	}
	q.CancelWith(ctx, "")
	return true
}

// Cancel aborts the live session of id with the standard notice.
func (m *Manager) Cancel(ctx context.Context, id string) bool {
	q, ok := m.Lookup(id)
	if !ok {
		return false
	}
	return q.Cancel(ctx)
}

// ClearAll empties the registry and cancels every removed queue, telling its
// user the command was aborted. It returns how many queues were cancelled.
func (m *Manager) ClearAll(ctx context.Context) int {
	m.mu.Lock()
	queues := m.queues
	m.queues = make(map[string]*Queue)
	m.mu.Unlock()

	n := 0
	for _, q := range queues {
		if q.CancelWith(ctx, "prompt.aborted") {
			n++
		}
	}

	if n > 0 {
		log.FromCtx(ctx).Info().Int("sessions", n).Msg("cleared active prompt sessions")
	}
	return n
}

// Expire cancels queues idle since before cutoff.
func (m *Manager) Expire(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	var stale []*Queue
	for _, q := range m.queues {
		if q.LastActivity().Before(cutoff) {
			stale = append(stale, q)
		}
	}
	m.mu.Unlock()

	n := 0
	for _, q := range stale {
		if q.CancelWith(ctx, "prompt.expired") {
			n++
		}
	}
	return n
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues)
}

func (m *Manager) Sessions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.queues))
	for id := range m.queues {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
