package prompt

import (
	"time"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/placeholder"
)

// Context is the shared state of one interactive session. Only the owning
// Queue mutates it.
type Context struct {
	SessionID string
	// Command is the raw command text the tokens were parsed from.
	Command   string
	Replier   core.Replier
	CreatedAt time.Time

	tokens  []placeholder.Token
	answers []string
}

func NewContext(sessionID, command string, tokens []placeholder.Token, r core.Replier) *Context {
	t := make([]placeholder.Token, len(tokens))
	copy(t, tokens)

	return &Context{
		SessionID: sessionID,
		Command:   command,
		Replier:   r,
		CreatedAt: time.Now(),
		tokens:    t,
	}
}

func (c *Context) Tokens() []placeholder.Token {
	out := make([]placeholder.Token, len(c.tokens))
	copy(out, c.tokens)
	return out
}

// Pending returns the tokens that have no answer yet, in order.
func (c *Context) Pending() []placeholder.Token {
	if len(c.answers) >= len(c.tokens) {
		return nil
	}
	return append([]placeholder.Token(nil), c.tokens[len(c.answers):]...)
}

func (c *Context) Answers() []string {
	return append([]string(nil), c.answers...)
}

func (c *Context) addAnswer(answer string) {
	c.answers = append(c.answers, answer)
}

// Reconstruct substitutes the collected answers into the original command.
func (c *Context) Reconstruct() string {
	return placeholder.Substitute(c.Command, c.tokens, c.answers)
}
