package core

import (
	"context"
	"time"
)

const (
	PrompterName          = "Prompter"
	PrompterRepositoryURL = "https://github.com/sandevgo/prompter"
	PrompterVersion       = "0.1.0"
)

// Replier is the channel a session talks back to the user through.
type Replier interface {
	Reply(ctx context.Context, text string) error
}

// ChoiceReplier is implemented by channels that can offer clickable answers.
type ChoiceReplier interface {
	Replier
	ReplyWithChoices(ctx context.Context, text string, choices []string) error
}

type SessionOutcome string

const (
	OutcomeResolved  SessionOutcome = "resolved"
	OutcomeCancelled SessionOutcome = "cancelled"
)

// SessionRecord is one finished prompt session.
type SessionRecord struct {
	ID        int64          `json:"id"`
	SessionID string         `json:"session_id"`
	Template  string         `json:"template"`
	Command   string         `json:"command,omitempty"`
	Outcome   SessionOutcome `json:"outcome"`
	Answers   []string       `json:"answers,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Template is an operator-defined command whose body carries placeholders.
type Template struct {
	Name      string    `json:"name"`
	Body      string    `json:"body"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type replierKey struct{}

// WithReplier stores the reply channel of the event being dispatched.
func WithReplier(ctx context.Context, r Replier) context.Context {
	return context.WithValue(ctx, replierKey{}, r)
}

func ReplierFromCtx(ctx context.Context) (Replier, bool) {
	r, ok := ctx.Value(replierKey{}).(Replier)
	return r, ok && r != nil
}
