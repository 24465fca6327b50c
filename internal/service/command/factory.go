package command

import (
	"context"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/i18n"
)

// Sessions is the slice of the prompt registry the built-in commands use.
type Sessions interface {
	Cancel(ctx context.Context, id string) bool
	Sessions() []string
}

// Controller is the administrative surface of the running application.
type Controller interface {
	Reload(ctx context.Context, clean bool) (int, error)
	Mode() string
}

type Deps struct {
	Messenger    *i18n.Messenger
	Sessions     Sessions
	Templates    core.TemplateRepository
	History      core.HistoryRepository
	HistoryLimit func() int
	Controller   Controller
	// Commands lists every command of every dispatcher, for help output and
	// reserved template names.
	Commands func() []core.Command
}

func NewUserCommands(d Deps) []core.Command {
	return []core.Command{
		NewHelpCommand(d.Commands),
		NewEchoCommand(),
		NewCancelCommand(d.Sessions, d.Messenger),
		NewHistoryCommand(d.History, d.HistoryLimit, d.Messenger),
	}
}

func NewAdminCommands(d Deps) []core.Command {
	return []core.Command{
		NewTemplateCommand(d.Templates, reservedBy(d.Commands), d.Messenger),
		NewPrompterCommand(d.Controller, d.Sessions, d.Messenger),
	}
}

func reservedBy(commands func() []core.Command) func(string) bool {
	return func(name string) bool {
		for _, cmd := range commands() {
			if cmd.Name() == name {
				return true
			}
		}
		return false
	}
}
