package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/i18n"
)

const maxHistoryLimit = 100

type HistoryCommand struct {
	repo      core.HistoryRepository
	limit     func() int
	messenger *i18n.Messenger
	formatter *ResponseFormatter
}

func NewHistoryCommand(repo core.HistoryRepository, limit func() int, messenger *i18n.Messenger) *HistoryCommand {
	return &HistoryCommand{
		repo:      repo,
		limit:     limit,
		messenger: messenger,
		formatter: NewResponseFormatter(),
	}
}

func (c *HistoryCommand) Name() string {
	return "history"
}

func (c *HistoryCommand) Description() string {
	return "Show your last prompted commands"
}

func (c *HistoryCommand) Execute(ctx context.Context, inv core.Invocation) (string, error) {
	limit := c.limit()
	if len(inv.Args) > 0 {
		n, err := strconv.Atoi(inv.Args[0])
		if err != nil || n <= 0 {
			return c.formatter.Usage("/history [count]"), nil
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := c.repo.GetRecords(ctx, inv.SessionID, limit)
	if err != nil {
		return "", fmt.Errorf("failed to load history: %w", err)
	}
	if len(records) == 0 {
		return c.messenger.Get("history.empty"), nil
	}

	items := make([]string, len(records))
	for i, rec := range records {
		line := rec.Command
		if rec.Outcome != core.OutcomeResolved {
			line = rec.Template
		}
		items[i] = fmt.Sprintf("`%s` %s, %s", line, rec.Outcome, rec.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	return c.formatter.Combine(
		c.formatter.Info("History"),
		c.formatter.List(items),
	), nil
}
