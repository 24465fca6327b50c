package command

import (
	"context"
	"strconv"
	"strings"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/i18n"
)

var prompterUsage = []string{
	"/prompter reload [clean]",
	"/prompter cancel",
	"/prompter status",
}

type PrompterCommand struct {
	ctl       Controller
	sessions  Sessions
	messenger *i18n.Messenger
	formatter *ResponseFormatter
}

func NewPrompterCommand(ctl Controller, sessions Sessions, messenger *i18n.Messenger) *PrompterCommand {
	return &PrompterCommand{
		ctl:       ctl,
		sessions:  sessions,
		messenger: messenger,
		formatter: NewResponseFormatter(),
	}
}

func (c *PrompterCommand) Name() string {
	return "prompter"
}

func (c *PrompterCommand) Description() string {
	return "Reload configuration, cancel your session or show status"
}

func (c *PrompterCommand) Execute(ctx context.Context, inv core.Invocation) (string, error) {
	if len(inv.Args) == 0 {
		return c.formatter.Usage(prompterUsage...), nil
	}

	switch strings.ToLower(inv.Args[0]) {
	case "reload":
		clean := len(inv.Args) > 1 && strings.EqualFold(inv.Args[1], "clean")
		n, err := c.ctl.Reload(ctx, clean)
		if err != nil {
			return c.formatter.Error(c.messenger.Get("reload.failed", err)), nil
		}
		if clean {
			return c.formatter.Success(c.messenger.Get("reload.clean", n)), nil
		}
		return c.formatter.Success(c.messenger.Get("reload.done")), nil

	case "cancel":
		if c.sessions.Cancel(ctx, inv.SessionID) {
			return "", nil
		}
		return c.messenger.Get("prompt.no_session"), nil

	case "status":
		sessions := c.sessions.Sessions()
		return c.formatter.Combine(
			c.formatter.Info(c.messenger.Get("status.title")),
			c.formatter.Label(c.messenger.Get("status.mode"), c.ctl.Mode()),
			c.formatter.Label(c.messenger.Get("status.sessions"), strconv.Itoa(len(sessions))),
			c.formatter.List(sessions),
		), nil

	default:
		return c.formatter.Usage(prompterUsage...), nil
	}
}

func (c *PrompterCommand) Complete(ctx context.Context, inv core.Invocation) []string {
	switch {
	case len(inv.Args) == 0:
		return []string{"cancel", "reload", "status"}
	case len(inv.Args) == 1 && strings.EqualFold(inv.Args[0], "reload"):
		return []string{"clean"}
	default:
		return nil
	}
}
