package intercept

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/prompter/internal/core"
)

var ErrBindFailed = errors.New("failed to bind dispatch table")

// Binding ties one dispatcher to the decorating table that replaces its
// original while table hijack is active.
type Binding struct {
	dispatcher TableDispatcher
	original   core.CommandTable
	table      *hijackedTable
}

func newBinding(d Dispatcher, i *Interceptor) (*Binding, error) {
	td, ok := d.(TableDispatcher)
	if !ok {
		return nil, fmt.Errorf("%w: dispatcher %s exposes no table", ErrBindFailed, d.Name())
	}

	original := td.Table()
	if original == nil {
		return nil, fmt.Errorf("%w: dispatcher %s has no table", ErrBindFailed, td.Name())
	}

	return &Binding{
		dispatcher: td,
		original:   original,
		table:      &hijackedTable{original: original, interceptor: i},
	}, nil
}

func (b *Binding) Name() string { return b.dispatcher.Name() }

func (b *Binding) Original() core.CommandTable { return b.original }

func (b *Binding) Install() error {
	if !b.dispatcher.CompareAndSwapTable(b.original, b.table) {
		return fmt.Errorf("%w: table of %s changed before install", ErrBindFailed, b.Name())
	}
	return nil
}

func (b *Binding) Uninstall() error {
	if !b.dispatcher.CompareAndSwapTable(b.table, b.original) {
		return fmt.Errorf("%w: table of %s replaced while bound", ErrBindFailed, b.Name())
	}
	return nil
}

// Dispatch runs input against the original table.
func (b *Binding) Dispatch(ctx context.Context, sessionID, input string) (string, bool) {
	return b.dispatcher.ExecuteOn(ctx, b.original, sessionID, input)
}

type hijackedTable struct {
	original    core.CommandTable
	interceptor *Interceptor
}

// Lookup never consults the original table for a session that is being
// prompted.
func (t *hijackedTable) Lookup(ctx context.Context, inv core.Invocation) (core.Command, bool) {
	if t.interceptor.manager.Active(inv.SessionID) {
		return noopCommand{name: inv.Name}, true
	}

	cmd, ok := t.original.Lookup(ctx, inv)
	if !ok {
		return nil, false
	}
	if core.IsVerbatim(cmd) {
		return cmd, true
	}
	return &promptingCommand{Command: cmd, interceptor: t.interceptor}, true
}

func (t *hijackedTable) Commands() []core.Command {
	return t.original.Commands()
}

// CommandsFor hides every command from a session that is being prompted, so
// name completion cannot reach the original table either.
func (t *hijackedTable) CommandsFor(ctx context.Context, sessionID string) []core.Command {
	if t.interceptor.manager.Active(sessionID) {
		return nil
	}
	return t.original.Commands()
}

// promptingCommand starts a session instead of executing when the line
// carries triggers. It runs after the router's own checks.
type promptingCommand struct {
	core.Command
	interceptor *Interceptor
}

func (c *promptingCommand) Execute(ctx context.Context, inv core.Invocation) (string, error) {
	if r, ok := core.ReplierFromCtx(ctx); ok && c.interceptor.begin(ctx, inv.SessionID, inv.Raw, r) {
		return "", nil
	}
	return c.Command.Execute(ctx, inv)
}

func (c *promptingCommand) Complete(ctx context.Context, inv core.Invocation) []string {
	if completer, ok := c.Command.(core.Completer); ok {
		return completer.Complete(ctx, inv)
	}
	return nil
}

type noopCommand struct {
	name string
}

func (c noopCommand) Name() string        { return c.name }
func (c noopCommand) Description() string { return "" }

func (c noopCommand) Execute(ctx context.Context, inv core.Invocation) (string, error) {
	return "", nil
}
