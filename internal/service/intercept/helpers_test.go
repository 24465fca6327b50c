package intercept

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/command"
	"github.com/sandevgo/prompter/internal/service/dispatch"
	"github.com/sandevgo/prompter/internal/service/i18n"
	"github.com/sandevgo/prompter/internal/service/prompt"
)

var testMessages = map[string]string{
	"prompt.cancel_hint": "Type cancel to abort.",
	"prompt.cancelled":   "Cancelled.",
	"prompt.aborted":     "Aborted.",
	"prompt.busy":        "Busy.",
	"prompt.hint":        "(%s)",
	"command.unknown":    "Unknown /%s",
	"command.denied":     "Denied /%s",
	"command.error":      "Error %v",
}

type fakeReplier struct {
	mu   sync.Mutex
	msgs []string
	err  error
}

func (f *fakeReplier) Reply(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, text)
	return f.err
}

func (f *fakeReplier) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.msgs...)
}

func (f *fakeReplier) last() string {
	msgs := f.messages()
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

// joinCommand answers with a prefix and its arguments.
type joinCommand struct {
	name     string
	prefix   string
	verbatim bool
	mu       sync.Mutex
	calls    []core.Invocation
}

func (c *joinCommand) Name() string        { return c.name }
func (c *joinCommand) Description() string { return c.name }
func (c *joinCommand) Verbatim() bool      { return c.verbatim }

func (c *joinCommand) Execute(ctx context.Context, inv core.Invocation) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, inv)
	c.mu.Unlock()
	return strings.TrimSpace(c.prefix + " " + strings.Join(inv.Args, " ")), nil
}

func (c *joinCommand) Complete(ctx context.Context, inv core.Invocation) []string {
	return []string{"alpha", "beta"}
}

func (c *joinCommand) invocations() []core.Invocation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Invocation(nil), c.calls...)
}

// countingTable records how often the original table is consulted.
type countingTable struct {
	inner   core.CommandTable
	lookups atomic.Int32
}

func (t *countingTable) Lookup(ctx context.Context, inv core.Invocation) (core.Command, bool) {
	t.lookups.Add(1)
	return t.inner.Lookup(ctx, inv)
}

func (t *countingTable) Commands() []core.Command {
	return t.inner.Commands()
}

// stuckRouter refuses every table swap.
type stuckRouter struct {
	*command.Router
}

func (s stuckRouter) CompareAndSwapTable(old, replacement core.CommandTable) bool {
	return false
}

// probeRouter remembers how many sessions were live at every table swap.
type probeRouter struct {
	*command.Router
	manager *prompt.Manager
	mu      sync.Mutex
	live    []int
}

func (p *probeRouter) CompareAndSwapTable(old, replacement core.CommandTable) bool {
	p.mu.Lock()
	p.live = append(p.live, p.manager.Len())
	p.mu.Unlock()
	return p.Router.CompareAndSwapTable(old, replacement)
}

type plainDispatcher struct{}

func (plainDispatcher) Name() string { return "plain" }

func (plainDispatcher) Execute(ctx context.Context, sessionID, input string) (string, bool) {
	return "", false
}

type memHistory struct {
	mu      sync.Mutex
	records []core.SessionRecord
}

func (m *memHistory) AddRecord(ctx context.Context, rec core.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *memHistory) GetRecords(ctx context.Context, sessionID string, limit int) ([]core.SessionRecord, error) {
	return nil, errors.New("not used")
}

func (m *memHistory) all() []core.SessionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.SessionRecord(nil), m.records...)
}

var errNotOwner = errors.New("not the owner")

type harness struct {
	manager     *prompt.Manager
	messenger   *i18n.Messenger
	userTable   *countingTable
	adminTable  *command.Table
	user        *command.Router
	admin       *command.Router
	echo        *joinCommand
	secret      *joinCommand
	template    *joinCommand
	history     *memHistory
	interceptor *Interceptor
	pipeline    *dispatch.Pipeline
}

type harnessOption func(h *harness) []Dispatcher

func newHarness(t *testing.T, unsafe bool, dispatchers ...harnessOption) *harness {
	t.Helper()

	h := &harness{
		manager:   prompt.NewManager(),
		messenger: i18n.NewMessenger("> ", i18n.NewCatalog(testMessages)),
		echo:      &joinCommand{name: "echo"},
		secret:    &joinCommand{name: "secret", prefix: "secret"},
		template:  &joinCommand{name: "template", prefix: "stored", verbatim: true},
		history:   &memHistory{},
	}

	h.userTable = &countingTable{inner: command.NewTable(h.echo)}
	h.adminTable = command.NewTable(h.secret, h.template)
	guard := func(ctx context.Context, inv core.Invocation) error {
		if inv.SessionID != "owner" {
			return errNotOwner
		}
		return nil
	}
	h.user = command.New("user", h.userTable, h.messenger)
	h.admin = command.New("admin", h.adminTable, h.messenger, command.WithGuard(guard))

	ds := []Dispatcher{h.user, h.admin}
	if len(dispatchers) > 0 {
		ds = dispatchers[0](h)
	}

	h.interceptor = New(h.manager, h.messenger, Options{Unsafe: unsafe, History: h.history}, ds...)
	h.pipeline = dispatch.NewPipeline(h.messenger, h.user, h.admin)
	h.pipeline.Register(dispatch.PrioritySession, prompt.NewResponder(h.manager))
	h.pipeline.Register(dispatch.PriorityDetector, h.interceptor.Passive())
	return h
}

func (h *harness) send(ctx context.Context, session, text string, r core.Replier) dispatch.Verdict {
	return h.pipeline.Handle(ctx, dispatch.NewEvent(session, text, r))
}
