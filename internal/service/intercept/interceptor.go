// Package intercept decides which inbound commands start a prompt session and
// dispatches the commands those sessions resolve to.
//
// Two strategies exist. The passive listener sees command text before the
// routers do. Table hijack swaps each router's dispatch table for a
// decorating one, so lookups made for execution and tab-completion pass
// through the session registry first.
package intercept

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/i18n"
	"github.com/sandevgo/prompter/internal/service/placeholder"
	"github.com/sandevgo/prompter/internal/service/prompt"
	"github.com/sandevgo/prompter/pkg/log"
)

type Mode string

const (
	ModePassive     Mode = "passive"
	ModeTableHijack Mode = "table-hijack"
)

// Dispatcher is a host command dispatcher.
type Dispatcher interface {
	Name() string
	Execute(ctx context.Context, sessionID, input string) (string, bool)
}

// TableDispatcher exposes its live table and can run a line against any
// table. Only these dispatchers can be hijacked.
type TableDispatcher interface {
	Dispatcher
	core.TableHolder
	ExecuteOn(ctx context.Context, table core.CommandTable, sessionID, input string) (string, bool)
}

type Options struct {
	// Unsafe enables table hijack after Delay.
	Unsafe bool
	Delay  time.Duration
	// History receives every finished session. Optional.
	History core.HistoryRepository
}

type Interceptor struct {
	manager     *prompt.Manager
	messenger   *i18n.Messenger
	opts        Options
	dispatchers []Dispatcher

	mu       sync.RWMutex
	bindings []*Binding
	closed   bool
	hijacked atomic.Bool
	done     chan struct{}
}

func New(manager *prompt.Manager, messenger *i18n.Messenger, opts Options, dispatchers ...Dispatcher) *Interceptor {
	return &Interceptor{
		manager:     manager,
		messenger:   messenger,
		opts:        opts,
		dispatchers: dispatchers,
		done:        make(chan struct{}),
	}
}

// Passive returns the listener used until the table hijack is in place.
func (i *Interceptor) Passive() *Passive {
	return &Passive{interceptor: i}
}

func (i *Interceptor) Mode() Mode {
	if i.hijacked.Load() {
		return ModeTableHijack
	}
	return ModePassive
}

// Start installs the table bindings after the configured delay. A failed
// install is logged and leaves the passive listener in charge.
func (i *Interceptor) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx).With().Str("component", "intercept").Logger()
	if !i.opts.Unsafe {
		logger.Info().Msg("prompt interception running in passive mode")
		return nil
	}

	timer := time.NewTimer(i.opts.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil
	case <-i.done:
		return nil
	case <-timer.C:
	}

	if err := i.install(ctx); err != nil {
		logger.Error().Err(err).Msg("table hijack failed, staying in passive mode")
		return nil
	}
	logger.Info().Int("dispatchers", len(i.dispatchers)).Msg("prompt interception switched to table hijack")
	return nil
}

// install binds every dispatcher or none.
func (i *Interceptor) install(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed || i.hijacked.Load() {
		return nil
	}

	var installed []*Binding
	for _, d := range i.dispatchers {
		b, err := newBinding(d, i)
		if err == nil {
			err = b.Install()
		}
		if err != nil {
			rollback(ctx, installed)
			return err
		}
		installed = append(installed, b)
	}

	i.bindings = installed
	i.hijacked.Store(true)
	return nil
}

func rollback(ctx context.Context, bindings []*Binding) {
	for k := len(bindings) - 1; k >= 0; k-- {
		if err := bindings[k].Uninstall(); err != nil {
			log.FromCtx(ctx).Error().Err(err).Str("dispatcher", bindings[k].Name()).Msg("failed to restore dispatch table")
		}
	}
}

// Shutdown cancels every live session and only then restores the original
// tables.
func (i *Interceptor) Shutdown(ctx context.Context) error {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return nil
	}
	i.closed = true
	close(i.done)
	bindings := i.bindings
	i.bindings = nil
	i.mu.Unlock()

	i.manager.ClearAll(ctx)

	var errs []error
	for k := len(bindings) - 1; k >= 0; k-- {
		if err := bindings[k].Uninstall(); err != nil {
			errs = append(errs, err)
		}
	}
	i.hijacked.Store(false)
	return errors.Join(errs...)
}

// begin starts a session for raw if it carries triggers. It reports whether
// the line was taken over.
func (i *Interceptor) begin(ctx context.Context, sessionID, raw string, r core.Replier) bool {
	tokens := placeholder.Parse(raw)
	if len(tokens) == 0 {
		return false
	}

	logger := log.FromCtx(ctx).With().Str("session", sessionID).Logger()
	if r == nil {
		logger.Warn().Str("command", raw).Msg("no reply channel for prompted command")
		return false
	}

	pctx := prompt.NewContext(sessionID, raw, tokens, r)
	q := prompt.NewQueue(pctx, i.messenger, prompt.WithResolver(i.Dispatch))

	if err := i.manager.Register(ctx, sessionID, q); err != nil {
		if errors.Is(err, prompt.ErrSessionExists) {
			if err := i.messenger.Send(ctx, r, "prompt.busy"); err != nil {
				logger.Error().Err(err).Msg("failed to send busy notice")
			}
		}
		return true
	}
	q.OnTerminal(ctx, i.record)

	if err := q.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to start prompt session")
		// A session whose first question never arrived would block the user.
		q.CancelWith(ctx, "")
	}
	return true
}

// Dispatch executes a resolved command. With bindings installed it goes
// through the original tables so it cannot start another session.
func (i *Interceptor) Dispatch(ctx context.Context, pctx *prompt.Context, command string) {
	logger := log.FromCtx(ctx).With().Str("session", pctx.SessionID).Str("command", command).Logger()

	i.mu.RLock()
	bindings := i.bindings
	i.mu.RUnlock()

	reply, handled := "", false
	if len(bindings) > 0 {
		for _, b := range bindings {
			if reply, handled = b.Dispatch(ctx, pctx.SessionID, command); handled {
				break
			}
		}
	} else {
		for _, d := range i.dispatchers {
			if reply, handled = d.Execute(ctx, pctx.SessionID, command); handled {
				break
			}
		}
	}

	if !handled {
		inv, _ := core.ParseInvocation(pctx.SessionID, command)
		logger.Warn().Msg("resolved command matched no dispatcher")
		if err := i.messenger.Send(ctx, pctx.Replier, "command.unknown", inv.Name); err != nil {
			logger.Error().Err(err).Msg("failed to send unknown command notice")
		}
		return
	}

	logger.Debug().Msg("resolved command dispatched")
	if reply == "" {
		return
	}
	if err := pctx.Replier.Reply(ctx, reply); err != nil {
		logger.Error().Err(err).Msg("failed to send command reply")
	}
}

func (i *Interceptor) record(ctx context.Context, q *prompt.Queue) {
	if i.opts.History == nil {
		return
	}

	pctx := q.Context()
	rec := core.SessionRecord{
		SessionID: pctx.SessionID,
		Template:  pctx.Command,
		Outcome:   core.OutcomeCancelled,
		Answers:   pctx.Answers(),
		CreatedAt: time.Now().UTC(),
	}
	if q.State() == prompt.StateResolved {
		rec.Outcome = core.OutcomeResolved
		rec.Command = q.Result()
	}

	if err := i.opts.History.AddRecord(ctx, rec); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("session", pctx.SessionID).Msg("failed to record session history")
	}
}

// verbatim reports whether the command named by inv takes trigger text as
// plain arguments.
func (i *Interceptor) verbatim(ctx context.Context, inv core.Invocation) bool {
	for _, d := range i.dispatchers {
		td, ok := d.(TableDispatcher)
		if !ok || td.Table() == nil {
			continue
		}
		if cmd, ok := td.Table().Lookup(ctx, inv); ok {
			return core.IsVerbatim(cmd)
		}
	}
	return false
}
