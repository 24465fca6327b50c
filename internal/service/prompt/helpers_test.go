package prompt

import (
	"context"
	"errors"
	"sync"

	"github.com/sandevgo/prompter/internal/service/i18n"
	"github.com/sandevgo/prompter/internal/service/placeholder"
)

var testMessages = map[string]string{
	"prompt.cancel_hint": "Type cancel to abort.",
	"prompt.cancelled":   "Cancelled.",
	"prompt.aborted":     "Aborted.",
	"prompt.expired":     "Expired.",
	"prompt.hint":        "(%s)",
	"prompt.default":     "Default: %s",
	"prompt.choices":     "Choose: %s",
}

func newTestMessenger() *i18n.Messenger {
	return i18n.NewMessenger("> ", i18n.NewCatalog(testMessages))
}

type fakeReplier struct {
	mu      sync.Mutex
	msgs    []string
	choices [][]string
	err     error
}

func (f *fakeReplier) Reply(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, text)
	return f.err
}

func (f *fakeReplier) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.msgs...)
}

func (f *fakeReplier) count(text string) int {
	n := 0
	for _, m := range f.messages() {
		if m == text {
			n++
		}
	}
	return n
}

type fakeChoiceReplier struct {
	fakeReplier
}

func (f *fakeChoiceReplier) ReplyWithChoices(ctx context.Context, text string, choices []string) error {
	f.mu.Lock()
	f.choices = append(f.choices, choices)
	f.mu.Unlock()
	return f.Reply(ctx, text)
}

var errSend = errors.New("send failed")

type resolution struct {
	mu       sync.Mutex
	commands []string
}

func (r *resolution) resolve(ctx context.Context, pctx *Context, command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, command)
}

func (r *resolution) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commands...)
}

func newTestQueue(session, command string, r *fakeReplier, res *resolution) *Queue {
	pctx := NewContext(session, command, placeholder.Parse(command), r)
	return NewQueue(pctx, newTestMessenger(), WithResolver(res.resolve))
}
