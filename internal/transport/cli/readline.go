package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/sandevgo/prompter/internal/config"
	"github.com/sandevgo/prompter/internal/service/dispatch"
	"github.com/sandevgo/prompter/internal/service/ui"
	"github.com/sandevgo/prompter/pkg/conv"
	"github.com/sandevgo/prompter/pkg/log"
)

// SessionID is the prompt session of the local console operator.
const SessionID = "cli-local"

// Handler receives console lines and completes partial input.
type Handler interface {
	Handle(ctx context.Context, ev *dispatch.Event) dispatch.Verdict
	Complete(ctx context.Context, sessionID, line string) []string
}

// Sessions drops the console session when the console goes away.
type Sessions interface {
	Clear(ctx context.Context, id string) bool
}

type ReadLine struct {
	cfg      *config.AppConfig
	handler  Handler
	sessions Sessions
	rl       *readline.Instance
	once     sync.Once
}

func NewReadLine(ctx context.Context, handler Handler, sessions Sessions, cfg *config.AppConfig) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.GetRuntimePath(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     cfg.GetInputHistoryPath(),
		AutoComplete:    &completer{ctx: ctx, handler: handler},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:      cfg,
		handler:  handler,
		sessions: sessions,
		rl:       rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("console started, type 'exit' to quit")

	out := &writerReplier{w: r.rl.Stdout()}
	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if strings.TrimSpace(line) == "exit" {
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if r.handler.Handle(ctx, dispatch.NewEvent(SessionID, line, out)) == dispatch.Passthrough {
			fmt.Fprintln(r.rl.Stdout(), ui.HintStyle.Render("Commands start with /. Try /help."))
		}
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	var err error
	r.once.Do(func() {
		r.sessions.Clear(ctx, SessionID)
		if r.rl != nil {
			err = r.rl.Close()
		}
	})
	return err
}

// writerReplier prints replies as plain text.
type writerReplier struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *writerReplier) Reply(ctx context.Context, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, err := fmt.Fprintln(w.w, conv.MarkdownToText([]byte(text)))
	return err
}

func (w *writerReplier) ReplyWithChoices(ctx context.Context, text string, choices []string) error {
	if err := w.Reply(ctx, text); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for i, c := range choices {
		if _, err := fmt.Fprintf(w.w, "  %s %s\n", ui.HintStyle.Render(fmt.Sprintf("%d.", i+1)), c); err != nil {
			return err
		}
	}
	return nil
}

// completer feeds the routers' completions to readline.
type completer struct {
	ctx     context.Context
	handler Handler
}

// Do returns the suffixes that complete line[:pos], and how many runes of
// the current word they replace.
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	head := string(line[:pos])
	if !strings.HasPrefix(head, "/") {
		return nil, 0
	}

	word := head[strings.LastIndex(head, " ")+1:]
	var out [][]rune
	for _, candidate := range c.handler.Complete(c.ctx, SessionID, head) {
		if !strings.HasPrefix(candidate, head) {
			continue
		}
		out = append(out, []rune(candidate[len(head):]))
	}
	return out, len([]rune(word))
}
