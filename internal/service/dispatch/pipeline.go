// Package dispatch is the host side of event delivery: every inbound line of
// user text runs through a priority-ordered chain of listeners and, if none
// of them consumes it, through the command routers.
package dispatch

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/i18n"
	"github.com/sandevgo/prompter/pkg/log"
)

type Verdict int

const (
	Passthrough Verdict = iota
	Consumed
)

func (v Verdict) String() string {
	if v == Consumed {
		return "consumed"
	}
	return "passthrough"
}

// Event is one "user typed X" notification.
type Event struct {
	SessionID string
	// Text may be rewritten by listeners; Original never changes.
	Text       string
	Original   string
	Replier    core.Replier
	ReceivedAt time.Time
}

func NewEvent(sessionID, text string, r core.Replier) *Event {
	return &Event{
		SessionID:  sessionID,
		Text:       text,
		Original:   text,
		Replier:    r,
		ReceivedAt: time.Now(),
	}
}

type Listener interface {
	Name() string
	Handle(ctx context.Context, ev *Event) Verdict
}

// Listener priorities, lowest runs first.
const (
	PriorityRewrite  = 5
	PrioritySession  = 10
	PriorityDetector = 20
)

type entry struct {
	priority int
	listener Listener
}

type Pipeline struct {
	mu        sync.RWMutex
	listeners []entry
	routers   []core.CmdRouter
	messenger *i18n.Messenger
}

func NewPipeline(messenger *i18n.Messenger, routers ...core.CmdRouter) *Pipeline {
	return &Pipeline{
		routers:   routers,
		messenger: messenger,
	}
}

// Register adds l to the chain. Listeners with equal priority run in
// registration order.
func (p *Pipeline) Register(priority int, l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.listeners = append(p.listeners, entry{priority: priority, listener: l})
	sort.SliceStable(p.listeners, func(i, j int) bool {
		return p.listeners[i].priority < p.listeners[j].priority
	})
}

func (p *Pipeline) Unregister(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, e := range p.listeners {
		if e.listener.Name() == name {
			p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Pipeline) Listeners() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, len(p.listeners))
	for i, e := range p.listeners {
		names[i] = e.listener.Name()
	}
	return names
}

// Handle delivers ev. It returns Consumed when a listener or a router took
// the event; plain chat nobody claimed comes back as Passthrough.
func (p *Pipeline) Handle(ctx context.Context, ev *Event) Verdict {
	logger := log.FromCtx(ctx)
	ctx = core.WithReplier(ctx, ev.Replier)

	p.mu.RLock()
	listeners := make([]entry, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.RUnlock()

	for _, e := range listeners {
		if e.listener.Handle(ctx, ev) == Consumed {
			logger.Debug().
				Str("session", ev.SessionID).
				Str("listener", e.listener.Name()).
				Msg("event consumed")
			return Consumed
		}
	}

	inv, ok := core.ParseInvocation(ev.SessionID, ev.Text)
	if !ok {
		return Passthrough
	}

	for _, r := range p.routers {
		reply, handled := r.Execute(ctx, ev.SessionID, ev.Text)
		if !handled {
			continue
		}
		if reply != "" {
			if err := ev.Replier.Reply(ctx, reply); err != nil {
				logger.Error().Err(err).Str("command", inv.Name).Msg("failed to send command reply")
			}
		}
		return Consumed
	}

	if err := p.messenger.Send(ctx, ev.Replier, "command.unknown", inv.Name); err != nil {
		logger.Error().Err(err).Msg("failed to send unknown command notice")
	}
	return Consumed
}

// Complete collects completion candidates for a partial line from every router.
func (p *Pipeline) Complete(ctx context.Context, sessionID, line string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range p.routers {
		for _, c := range r.Complete(ctx, sessionID, line) {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// Commands lists every command the routers expose, by name.
func (p *Pipeline) Commands() []core.Command {
	var out []core.Command
	for _, r := range p.routers {
		out = append(out, r.ListCommands()...)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].Name(), out[j].Name()) < 0
	})
	return out
}
