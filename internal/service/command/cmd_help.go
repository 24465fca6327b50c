package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/prompter/internal/core"
)

type HelpCommand struct {
	commands  func() []core.Command
	formatter *ResponseFormatter
}

func NewHelpCommand(commands func() []core.Command) *HelpCommand {
	return &HelpCommand{
		commands:  commands,
		formatter: NewResponseFormatter(),
	}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "List available commands"
}

func (c *HelpCommand) Execute(ctx context.Context, inv core.Invocation) (string, error) {
	cmds := c.commands()
	items := make([]string, len(cmds))
	for i, cmd := range cmds {
		items[i] = fmt.Sprintf("`/%s` %s", cmd.Name(), cmd.Description())
	}

	return c.formatter.Combine(
		c.formatter.Info(fmt.Sprintf("%s %s", core.PrompterName, core.PrompterVersion)),
		c.formatter.List(items),
	), nil
}
