package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/prompter/internal/service/i18n"
	"github.com/sandevgo/prompter/pkg/log"
)

// CancelKeyword aborts a session when sent as a reply, in any case.
const CancelKeyword = "cancel"

var (
	ErrInvalidState = errors.New("invalid queue state")
	ErrNoTokens     = errors.New("command has no placeholders")
)

type State int

const (
	StateIdle State = iota
	StateAwaitingAnswer
	StateAdvancing
	StateResolved
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateAdvancing:
		return "advancing"
	case StateResolved:
		return "resolved"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) Terminal() bool {
	return s == StateResolved || s == StateCancelled
}

// ResolveFunc receives the reconstructed command of a resolved queue.
type ResolveFunc func(ctx context.Context, pctx *Context, command string)

// TerminalFunc runs once when the queue reaches Resolved or Cancelled.
type TerminalFunc func(ctx context.Context, q *Queue)

type QueueOption func(*Queue)

func WithResolver(fn ResolveFunc) QueueOption {
	return func(q *Queue) { q.onResolve = fn }
}

func WithClock(now func() time.Time) QueueOption {
	return func(q *Queue) { q.now = now }
}

// Queue resolves the tokens of one session, one prompt at a time.
type Queue struct {
	mu         sync.Mutex
	pctx       *Context
	prompts    []Prompt
	pos        int
	state      State
	result     string
	messenger  *i18n.Messenger
	onResolve  ResolveFunc
	onTerminal []TerminalFunc
	lastActive time.Time
	now        func() time.Time
}

func NewQueue(pctx *Context, messenger *i18n.Messenger, opts ...QueueOption) *Queue {
	q := &Queue{
		pctx:      pctx,
		messenger: messenger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}

	for i, tok := range pctx.tokens {
		q.prompts = append(q.prompts, newPrompt(pctx, tok, messenger, i == 0))
	}
	q.lastActive = q.now()
	return q
}

func (q *Queue) Context() *Context { return q.pctx }

func (q *Queue) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Current returns the prompt waiting for an answer.
func (q *Queue) Current() (Prompt, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state != StateAwaitingAnswer {
		return nil, false
	}
	return q.prompts[q.pos], true
}

// Result is the reconstructed command once the queue is resolved.
func (q *Queue) Result() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.result
}

func (q *Queue) LastActivity() time.Time {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastActive
}

// OnTerminal registers fn to run after the terminal transition. On an
// already terminal queue fn runs immediately.
func (q *Queue) OnTerminal(ctx context.Context, fn TerminalFunc) {
	q.mu.Lock()
	if !q.state.Terminal() {
		q.onTerminal = append(q.onTerminal, fn)
		q.mu.Unlock()
		return
	}
	q.mu.Unlock()
	fn(ctx, q)
}

// Start delivers the first prompt.
func (q *Queue) Start(ctx context.Context) error {
	q.mu.Lock()
	if q.state != StateIdle {
		state := q.state
		q.mu.Unlock()
		return fmt.Errorf("%w: start while %s", ErrInvalidState, state)
	}
	if len(q.prompts) == 0 {
		q.mu.Unlock()
		return ErrNoTokens
	}

	q.state = StateAwaitingAnswer
	q.lastActive = q.now()
	first := q.prompts[0]
	q.mu.Unlock()

	log.FromCtx(ctx).Debug().
		Str("session", q.pctx.SessionID).
		Int("prompts", len(q.prompts)).
		Msg("prompt session started")

	if err := first.Send(ctx); err != nil {
		return fmt.Errorf("failed to send prompt: %w", err)
	}
	return nil
}

// Submit takes the reply to the current prompt. The cancel keyword ends the
// session; anything else is the answer, stored verbatim.
func (q *Queue) Submit(ctx context.Context, raw string) error {
	q.mu.Lock()
	if q.state != StateAwaitingAnswer {
		state := q.state
		q.mu.Unlock()
		return fmt.Errorf("%w: answer while %s", ErrInvalidState, state)
	}
	q.lastActive = q.now()

	if isCancel(raw) {
		q.state = StateCancelled
		q.mu.Unlock()

		q.notify(ctx, "prompt.cancelled")
		q.finish(ctx)
		return nil
	}

	q.state = StateAdvancing
	answer := raw
	if tok := q.prompts[q.pos].Token(); strings.TrimSpace(answer) == "" && tok.Default != "" {
		answer = tok.Default
	}
	if cp, ok := q.prompts[q.pos].(*ChoicePrompt); ok {
		answer = cp.Answer(answer)
	}
	q.pctx.addAnswer(answer)
	q.pos++

	if q.pos < len(q.prompts) {
		next := q.prompts[q.pos]
		q.state = StateAwaitingAnswer
		q.mu.Unlock()

		if err := next.Send(ctx); err != nil {
			return fmt.Errorf("failed to send prompt: %w", err)
		}
		return nil
	}

	q.result = q.pctx.Reconstruct()
	q.state = StateResolved
	result := q.result
	q.mu.Unlock()

	log.FromCtx(ctx).Debug().
		Str("session", q.pctx.SessionID).
		Str("command", result).
		Msg("prompt session resolved")

	if q.onResolve != nil {
		q.onResolve(ctx, q.pctx, result)
	}
	q.finish(ctx)
	return nil
}

// Cancel aborts the session with the standard notice. It reports false if
// the queue had already terminated.
func (q *Queue) Cancel(ctx context.Context) bool {
	return q.CancelWith(ctx, "prompt.cancelled")
}

// CancelWith aborts the session and sends the message for noticeKey, or
// nothing if noticeKey is empty.
func (q *Queue) CancelWith(ctx context.Context, noticeKey string) bool {
	q.mu.Lock()
	if q.state.Terminal() {
		q.mu.Unlock()
		return false
	}
	q.state = StateCancelled
	q.mu.Unlock()

	if noticeKey != "" {
		q.notify(ctx, noticeKey)
	}
	q.finish(ctx)
	return true
}

func (q *Queue) notify(ctx context.Context, key string) {
	if q.pctx.Replier == nil {
		return
	}
	if err := q.messenger.Send(ctx, q.pctx.Replier, key); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("session", q.pctx.SessionID).Msg("failed to send session notice")
	}
}

// finish runs the terminal callbacks. Only the goroutine that performed the
// terminal transition calls it, so callbacks run once.
func (q *Queue) finish(ctx context.Context) {
	q.mu.Lock()
	callbacks := q.onTerminal
	q.onTerminal = nil
	q.mu.Unlock()

	for _, fn := range callbacks {
		fn(ctx, q)
	}
}

func isCancel(raw string) bool {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "/")
	return strings.EqualFold(s, CancelKeyword)
}
