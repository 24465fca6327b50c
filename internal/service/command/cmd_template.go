package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/i18n"
)

var templateUsage = []string{
	"/template add <name> <command...>",
	"/template remove <name>",
	"/template list",
}

// TemplateCommand manages operator-defined prompt commands. Its arguments
// carry raw placeholders, so it is exempt from trigger detection.
type TemplateCommand struct {
	repo      core.TemplateRepository
	reserved  func(name string) bool
	messenger *i18n.Messenger
	formatter *ResponseFormatter
}

func NewTemplateCommand(repo core.TemplateRepository, reserved func(string) bool, messenger *i18n.Messenger) *TemplateCommand {
	return &TemplateCommand{
		repo:      repo,
		reserved:  reserved,
		messenger: messenger,
		formatter: NewResponseFormatter(),
	}
}

func (c *TemplateCommand) Name() string {
	return "template"
}

func (c *TemplateCommand) Description() string {
	return "Add, remove or list prompt templates"
}

func (c *TemplateCommand) Verbatim() bool {
	return true
}

func (c *TemplateCommand) Execute(ctx context.Context, inv core.Invocation) (string, error) {
	if len(inv.Args) == 0 {
		return c.formatter.Usage(templateUsage...), nil
	}

	switch strings.ToLower(inv.Args[0]) {
	case "add":
		if len(inv.Args) < 3 {
			return c.formatter.Usage(templateUsage[0]), nil
		}
		return c.add(ctx, inv)
	case "remove":
		if len(inv.Args) != 2 {
			return c.formatter.Usage(templateUsage[1]), nil
		}
		return c.remove(ctx, normalizeName(inv.Args[1]))
	case "list":
		return c.list(ctx)
	default:
		return c.formatter.Usage(templateUsage...), nil
	}
}

func (c *TemplateCommand) add(ctx context.Context, inv core.Invocation) (string, error) {
	name := normalizeName(inv.Args[1])
	if c.reserved(name) {
		return c.messenger.Get("template.reserved", name), nil
	}

	body := afterFields(inv.Raw, 3)
	if !strings.HasPrefix(body, "/") {
		body = "/" + body
	}

	err := c.repo.SaveTemplate(ctx, core.Template{
		Name:      name,
		Body:      body,
		CreatedBy: inv.SessionID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to save template: %w", err)
	}
	return c.formatter.Success(c.messenger.Get("template.saved", name)), nil
}

func (c *TemplateCommand) remove(ctx context.Context, name string) (string, error) {
	if err := c.repo.DeleteTemplate(ctx, name); err != nil {
		if errors.Is(err, core.ErrTemplateNotFound) {
			return c.messenger.Get("template.missing", name), nil
		}
		return "", fmt.Errorf("failed to remove template: %w", err)
	}
	return c.formatter.Success(c.messenger.Get("template.removed", name)), nil
}

func (c *TemplateCommand) list(ctx context.Context) (string, error) {
	templates, err := c.repo.ListTemplates(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list templates: %w", err)
	}
	if len(templates) == 0 {
		return c.messenger.Get("template.empty"), nil
	}

	items := make([]string, len(templates))
	for i, tpl := range templates {
		items[i] = fmt.Sprintf("`/%s`  ›  `%s`", tpl.Name, tpl.Body)
	}
	return c.formatter.Combine(
		c.formatter.Info("Templates"),
		c.formatter.List(items),
	), nil
}

func (c *TemplateCommand) Complete(ctx context.Context, inv core.Invocation) []string {
	switch {
	case len(inv.Args) == 0:
		return []string{"add", "list", "remove"}
	case len(inv.Args) == 1 && strings.EqualFold(inv.Args[0], "remove"):
		templates, err := c.repo.ListTemplates(ctx)
		if err != nil {
			return nil
		}
		names := make([]string, len(templates))
		for i, tpl := range templates {
			names[i] = tpl.Name
		}
		return names
	default:
		return nil
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, "/"))
}

// afterFields returns s without its first n whitespace-separated fields,
// keeping the spacing of the remainder.
func afterFields(s string, n int) string {
	s = strings.TrimSpace(s)
	for i := 0; i < n && s != ""; i++ {
		idx := strings.IndexFunc(s, isSpace)
		if idx < 0 {
			return ""
		}
		s = strings.TrimLeftFunc(s[idx:], isSpace)
	}
	return s
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
