package command

import (
	"context"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/i18n"
)

type CancelCommand struct {
	sessions  Sessions
	messenger *i18n.Messenger
}

func NewCancelCommand(sessions Sessions, messenger *i18n.Messenger) *CancelCommand {
	return &CancelCommand{
		sessions:  sessions,
		messenger: messenger,
	}
}

func (c *CancelCommand) Name() string {
	return "cancel"
}

func (c *CancelCommand) Description() string {
	return "Abort the command you are completing"
}

func (c *CancelCommand) Execute(ctx context.Context, inv core.Invocation) (string, error) {
	// The queue sends its own notice.
	if c.sessions.Cancel(ctx, inv.SessionID) {
		return "", nil
	}
	return c.messenger.Get("prompt.no_session"), nil
}
