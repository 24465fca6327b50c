package prompt

import (
	"context"
	"strconv"
	"strings"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/i18n"
	"github.com/sandevgo/prompter/internal/service/placeholder"
)

const (
	TriggerChat   = "chat"
	TriggerChoice = "choice"
)

// Prompt is one question for exactly one token. It formats and delivers the
// question; answers flow back through the owning Queue.
type Prompt interface {
	Trigger() string
	Send(ctx context.Context) error
	Context() *Context
	Token() placeholder.Token
}

type basePrompt struct {
	pctx      *Context
	token     placeholder.Token
	messenger *i18n.Messenger
	first     bool
}

func (p *basePrompt) Context() *Context        { return p.pctx }
func (p *basePrompt) Token() placeholder.Token { return p.token }

func (p *basePrompt) question(withHint bool) string {
	label := p.token.Label
	if label == "" {
		label = p.token.Raw
	}

	parts := []string{label}
	if withHint && p.token.Hint != "" {
		parts[0] += " " + p.messenger.Get("prompt.hint", p.token.Hint)
	}
	if p.token.Default != "" {
		parts = append(parts, p.messenger.Get("prompt.default", p.token.Default))
	}
	if p.first {
		parts = append(parts, p.messenger.Get("prompt.cancel_hint"))
	}
	return strings.Join(parts, "{br}")
}

type ChatPrompt struct {
	basePrompt
}

func (p *ChatPrompt) Trigger() string { return TriggerChat }

func (p *ChatPrompt) Send(ctx context.Context) error {
	return p.messenger.SendText(ctx, p.pctx.Replier, p.question(true))
}

// ChoicePrompt offers the options listed in the token hint. Channels that
// support buttons get them; others get the options as text.
type ChoicePrompt struct {
	basePrompt
	choices []string
}

func (p *ChoicePrompt) Trigger() string { return TriggerChoice }

func (p *ChoicePrompt) Choices() []string {
	return append([]string(nil), p.choices...)
}

// Answer maps a 1-based option number to that option. An answer that is
// already one of the options, or not a listed number, is kept as typed.
func (p *ChoicePrompt) Answer(raw string) string {
	s := strings.TrimSpace(raw)
	for _, c := range p.choices {
		if s == c {
			return raw
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > len(p.choices) {
		return raw
	}
	return p.choices[n-1]
}

func (p *ChoicePrompt) Send(ctx context.Context) error {
	if cr, ok := p.pctx.Replier.(core.ChoiceReplier); ok {
		return cr.ReplyWithChoices(ctx, p.messenger.Format(p.question(false)), p.Choices())
	}

	text := p.question(false) + "{br}" + p.messenger.Get("prompt.choices", strings.Join(p.choices, ", "))
	return p.messenger.SendText(ctx, p.pctx.Replier, text)
}

func newPrompt(pctx *Context, tok placeholder.Token, messenger *i18n.Messenger, first bool) Prompt {
	base := basePrompt{
		pctx:      pctx,
		token:     tok,
		messenger: messenger,
		first:     first,
	}

	if choices := tok.Choices(); len(choices) > 0 {
		return &ChoicePrompt{basePrompt: base, choices: choices}
	}
	return &ChatPrompt{basePrompt: base}
}
