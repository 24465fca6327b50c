package core

import (
	"context"
	"strings"
)

// Invocation is one parsed command line as the host sees it.
type Invocation struct {
	SessionID string
	Name      string
	Args      []string
	// Raw is the full input line, leading slash included.
	Raw string
}

// ParseInvocation splits a "/name arg..." line. It returns false for text
// that is not a command.
func ParseInvocation(sessionID, input string) (Invocation, bool) {
	if !IsCommand(input) {
		return Invocation{}, false
	}

	parts := strings.Fields(input)
	return Invocation{
		SessionID: sessionID,
		Name:      strings.ToLower(strings.TrimPrefix(parts[0], "/")),
		Args:      parts[1:],
		Raw:       input,
	}, true
}

// IsCommand reports whether text is addressed to a command dispatcher.
func IsCommand(text string) bool {
	text = strings.TrimSpace(text)
	return len(text) > 1 && strings.HasPrefix(text, "/")
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, inv Invocation) (string, error)
}

// Completer is implemented by commands that can suggest their next argument.
type Completer interface {
	Complete(ctx context.Context, inv Invocation) []string
}

// CommandTable is the lookup contract of a host dispatcher. Both execution
// and tab-completion resolve commands through Lookup.
type CommandTable interface {
	Lookup(ctx context.Context, inv Invocation) (Command, bool)
	Commands() []Command
}

// SessionCommands is implemented by tables whose command list depends on
// the session asking.
type SessionCommands interface {
	CommandsFor(ctx context.Context, sessionID string) []Command
}

// CommandsFor lists the commands of t that sessionID can see.
func CommandsFor(ctx context.Context, t CommandTable, sessionID string) []Command {
	if sc, ok := t.(SessionCommands); ok {
		return sc.CommandsFor(ctx, sessionID)
	}
	return t.Commands()
}

// TableHolder is the substitution point of a dispatcher: whoever holds the
// live table reference.
type TableHolder interface {
	Name() string
	Table() CommandTable
	CompareAndSwapTable(old, replacement CommandTable) bool
}

type CmdRouter interface {
	Execute(ctx context.Context, sessionID, input string) (string, bool)
	Complete(ctx context.Context, sessionID, input string) []string
	ListCommands() []Command
}

// Verbatim is implemented by commands whose arguments may carry trigger text
// that must reach them untouched, such as the template editor.
type Verbatim interface {
	Verbatim() bool
}

// IsVerbatim reports whether cmd opts out of trigger detection.
func IsVerbatim(cmd Command) bool {
	v, ok := cmd.(Verbatim)
	return ok && v.Verbatim()
}
