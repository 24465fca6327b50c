package command

import (
	"context"
	"strings"
	"sync"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/i18n"
	"github.com/sandevgo/prompter/pkg/log"
)

// Guard runs after a command was found and before it executes. A non-nil
// error denies the invocation.
type Guard func(ctx context.Context, inv core.Invocation) error

type Option func(*Router)

func WithGuard(g Guard) Option {
	return func(r *Router) { r.guard = g }
}

// Router is one host dispatcher. It holds the live table reference, which is
// the substitution point for table interception.
type Router struct {
	name      string
	mu        sync.RWMutex
	table     core.CommandTable
	guard     Guard
	messenger *i18n.Messenger
	formatter *ResponseFormatter
}

func New(name string, table core.CommandTable, messenger *i18n.Messenger, opts ...Option) *Router {
	r := &Router{
		name:      name,
		table:     table,
		messenger: messenger,
		formatter: NewResponseFormatter(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Name() string {
	return r.name
}

func (r *Router) Table() core.CommandTable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table
}

// CompareAndSwapTable installs replacement only if old is still the live table.
func (r *Router) CompareAndSwapTable(old, replacement core.CommandTable) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.table != old || replacement == nil {
		return false
	}
	r.table = replacement
	return true
}

// Execute runs input through the live table. It reports false when input is
// not a command this router knows, so the caller can try the next router.
func (r *Router) Execute(ctx context.Context, sessionID, input string) (string, bool) {
	return r.ExecuteOn(ctx, r.Table(), sessionID, input)
}

// ExecuteOn runs input through table with this router's guard and error
// handling. Interception uses it to dispatch through the original table.
func (r *Router) ExecuteOn(ctx context.Context, table core.CommandTable, sessionID, input string) (string, bool) {
	inv, ok := core.ParseInvocation(sessionID, input)
	if !ok {
		return "", false
	}

	cmd, ok := table.Lookup(ctx, inv)
	if !ok {
		return "", false
	}

	logger := log.FromCtx(ctx).With().Str("router", r.name).Str("command", inv.Name).Logger()

	if r.guard != nil {
		if err := r.guard(ctx, inv); err != nil {
			logger.Warn().Err(err).Str("session", sessionID).Msg("command denied")
			return r.messenger.Get("command.denied", inv.Name), true
		}
	}

	result, err := cmd.Execute(ctx, inv)
	if err != nil {
		logger.Error().Err(err).Str("session", sessionID).Msg("command failed")
		return r.formatter.Error(r.messenger.Get("command.error", err)), true
	}
	return result, true
}

// Complete suggests continuations for a partial command line. Candidates are
// whole lines, so the caller can replace the input with any of them.
func (r *Router) Complete(ctx context.Context, sessionID, input string) []string {
	if !strings.HasPrefix(input, "/") {
		return nil
	}

	table := r.Table()
	fields := strings.Fields(input)
	trailing := strings.HasSuffix(input, " ")

	if len(fields) <= 1 && !trailing {
		partial := strings.ToLower(strings.TrimPrefix(input, "/"))
		var out []string
		for _, cmd := range core.CommandsFor(ctx, table, sessionID) {
			if strings.HasPrefix(cmd.Name(), partial) && r.allowed(ctx, core.Invocation{SessionID: sessionID, Name: cmd.Name(), Raw: "/" + cmd.Name()}) {
				out = append(out, "/"+cmd.Name()+" ")
			}
		}
		return out
	}

	partial := ""
	if !trailing {
		partial = fields[len(fields)-1]
		fields = fields[:len(fields)-1]
	}
	head := strings.Join(fields, " ")

	inv, ok := core.ParseInvocation(sessionID, head)
	if !ok {
		return nil
	}
	cmd, ok := table.Lookup(ctx, inv)
	if !ok || !r.allowed(ctx, inv) {
		return nil
	}
	completer, ok := cmd.(core.Completer)
	if !ok {
		return nil
	}

	var out []string
	for _, c := range completer.Complete(ctx, inv) {
		if strings.HasPrefix(c, partial) {
			out = append(out, head+" "+c+" ")
		}
	}
	return out
}

func (r *Router) allowed(ctx context.Context, inv core.Invocation) bool {
	return r.guard == nil || r.guard(ctx, inv) == nil
}

func (r *Router) ListCommands() []core.Command {
	return r.Table().Commands()
}
