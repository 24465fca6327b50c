// Package template turns operator-defined shortcuts into full prompt
// commands before the rest of the listener chain sees them.
package template

import (
	"context"
	"errors"
	"strings"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/dispatch"
	"github.com/sandevgo/prompter/internal/service/placeholder"
	"github.com/sandevgo/prompter/pkg/log"
)

// Expander rewrites "/name args..." to the stored template body.
type Expander struct {
	repo core.TemplateRepository
}

func NewExpander(repo core.TemplateRepository) *Expander {
	return &Expander{repo: repo}
}

func (e *Expander) Name() string { return "template-expander" }

// Handle only rewrites the event text; it never consumes.
func (e *Expander) Handle(ctx context.Context, ev *dispatch.Event) dispatch.Verdict {
	inv, ok := core.ParseInvocation(ev.SessionID, ev.Text)
	if !ok {
		return dispatch.Passthrough
	}

	tpl, err := e.repo.GetTemplate(ctx, inv.Name)
	if err != nil {
		if !errors.Is(err, core.ErrTemplateNotFound) {
			log.FromCtx(ctx).Error().Err(err).Str("template", inv.Name).Msg("failed to load template")
		}
		return dispatch.Passthrough
	}

	ev.Text = Expand(tpl.Body, inv.Args)
	log.FromCtx(ctx).Debug().
		Str("session", ev.SessionID).
		Str("template", tpl.Name).
		Str("command", ev.Text).
		Msg("template expanded")
	return dispatch.Passthrough
}

// Expand fills args into the leading placeholders of body. Arguments left
// over are appended.
func Expand(body string, args []string) string {
	tokens := placeholder.Parse(body)
	n := min(len(args), len(tokens))

	out := placeholder.Substitute(body, tokens[:n], args[:n])
	if len(args) > n {
		out += " " + strings.Join(args[n:], " ")
	}
	return out
}
