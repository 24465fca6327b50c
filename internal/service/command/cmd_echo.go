package command

import (
	"context"
	"strings"

	"github.com/sandevgo/prompter/internal/core"
)

// EchoCommand repeats its arguments. It is the simplest target for a
// prompted command, e.g. "/echo Hello <name>".
type EchoCommand struct {
	formatter *ResponseFormatter
}

func NewEchoCommand() *EchoCommand {
	return &EchoCommand{formatter: NewResponseFormatter()}
}

func (c *EchoCommand) Name() string {
	return "echo"
}

func (c *EchoCommand) Description() string {
	return "Repeat the given text"
}

func (c *EchoCommand) Execute(ctx context.Context, inv core.Invocation) (string, error) {
	if len(inv.Args) == 0 {
		return c.formatter.Usage("/echo <text>"), nil
	}
	return strings.Join(inv.Args, " "), nil
}
