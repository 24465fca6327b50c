package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/dispatch"
	"github.com/sandevgo/prompter/pkg/log"
)

// Responder routes every line from a user with a live session to that
// session's queue, so neither listeners further down nor the command routers
// see it.
type Responder struct {
	manager *Manager
}

func NewResponder(manager *Manager) *Responder {
	return &Responder{manager: manager}
}

func (r *Responder) Name() string { return "prompt-responder" }

func (r *Responder) Handle(ctx context.Context, ev *dispatch.Event) dispatch.Verdict {
	q, ok := r.manager.Lookup(ev.SessionID)
	if !ok {
		return dispatch.Passthrough
	}

	logger := log.FromCtx(ctx)
	if isCancelCommand(ev.SessionID, ev.Original) {
		if !r.manager.Cancel(ctx, ev.SessionID) {
			logger.Debug().Str("session", ev.SessionID).Msg("session finished before cancel")
		}
		return dispatch.Consumed
	}

	if err := q.Submit(ctx, ev.Original); err != nil {
		if errors.Is(err, ErrInvalidState) {
			// Lost a race with the terminal transition; the line is ordinary input again.
			logger.Warn().Err(err).Str("session", ev.SessionID).Msg("answer for finished session")
			return dispatch.Passthrough
		}
		logger.Error().Err(err).Str("session", ev.SessionID).Msg("failed to process answer")
	}
	return dispatch.Consumed
}

// isCancelCommand reports whether line invokes /cancel or /prompter cancel.
// Other command text is an answer.
func isCancelCommand(sessionID, line string) bool {
	inv, ok := core.ParseInvocation(sessionID, line)
	if !ok {
		return false
	}

	switch inv.Name {
	case CancelKeyword:
		return true
	case "prompter":
		return len(inv.Args) > 0 && strings.EqualFold(inv.Args[0], CancelKeyword)
	default:
		return false
	}
}
