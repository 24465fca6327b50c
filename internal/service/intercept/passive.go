package intercept

import (
	"context"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/dispatch"
)

// Passive watches command text on its way to the routers and takes over
// lines with triggers. Host checks made by the routers, such as the admin
// guard, never see those lines.
type Passive struct {
	interceptor *Interceptor
}

func (p *Passive) Name() string { return "prompt-detector" }

func (p *Passive) Handle(ctx context.Context, ev *dispatch.Event) dispatch.Verdict {
	if p.interceptor.hijacked.Load() {
		return dispatch.Passthrough
	}

	inv, ok := core.ParseInvocation(ev.SessionID, ev.Text)
	if !ok || p.interceptor.verbatim(ctx, inv) {
		return dispatch.Passthrough
	}

	if p.interceptor.begin(ctx, ev.SessionID, ev.Text, ev.Replier) {
		return dispatch.Consumed
	}
	return dispatch.Passthrough
}
