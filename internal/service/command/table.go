package command

import (
	"context"
	"sort"

	"github.com/sandevgo/prompter/internal/core"
)

// Table is the plain name-keyed dispatch table a Router starts with.
type Table struct {
	commands map[string]core.Command
}

func NewTable(commands ...core.Command) *Table {
	t := &Table{
		commands: make(map[string]core.Command),
	}
	for _, cmd := range commands {
		t.Register(cmd)
	}
	return t
}

// Register adds cmd, replacing any command with the same name. Tables are
// filled during wiring and read-only afterwards.
func (t *Table) Register(cmd core.Command) {
	t.commands[cmd.Name()] = cmd
}

func (t *Table) Lookup(ctx context.Context, inv core.Invocation) (core.Command, bool) {
	cmd, ok := t.commands[inv.Name]
	return cmd, ok
}

func (t *Table) Commands() []core.Command {
	res := make([]core.Command, 0, len(t.commands))
	for _, cmd := range t.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Name() < res[j].Name()
	})
	return res
}
