package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/prompter/internal/config"
	"github.com/sandevgo/prompter/internal/service/dispatch"
	"github.com/sandevgo/prompter/pkg/log"
	"github.com/sandevgo/prompter/pkg/retry"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

// Handler receives every text message as an event.
type Handler interface {
	Handle(ctx context.Context, ev *dispatch.Event) dispatch.Verdict
}

// Sessions drops the prompt session of a user who left the chat.
type Sessions interface {
	Clear(ctx context.Context, id string) bool
}

type Bot struct {
	bot      *tele.Bot
	cfg      *config.TelegramConfig
	handler  Handler
	sessions Sessions
	sender   *sender
}

// SessionID maps a Telegram user to a prompt session id.
func SessionID(userID int64) string {
	return fmt.Sprintf("telegram-%d", userID)
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	handler Handler,
	sessions Sessions,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:      b,
		cfg:      cfg,
		handler:  handler,
		sessions: sessions,
		sender:   newSender(b, retry.NewDefaultRetrier(), rate.NewLimiter(defaultSendLimit, 5)),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: only the owner and allowed users
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || !cfg.IsAllowed(c.Sender().ID) {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)
	b.Handle(tele.OnMyChatMember, bot.handleMembership)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("bot", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	sessionID := SessionID(c.Sender().ID)
	logger := log.FromCtx(ctx).With().Str("session", sessionID).Logger()

	text := stripMention(c.Text(), b.bot.Me.Username)
	r := &replier{sender: b.sender, to: c.Chat()}

	if b.handler.Handle(ctx, dispatch.NewEvent(sessionID, text, r)) == dispatch.Passthrough {
		logger.Debug().Msg("chat message ignored")
	}
	return nil
}

// handleMembership clears the session of a user who blocked the bot or left
// the chat.
func (b *Bot) handleMembership(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	update := c.ChatMember()
	if update == nil || update.NewChatMember == nil {
		return nil
	}

	switch update.NewChatMember.Role {
	case tele.Kicked, tele.Left:
		sessionID := SessionID(c.Sender().ID)
		if b.sessions.Clear(ctx, sessionID) {
			log.FromCtx(ctx).Info().Str("session", sessionID).Msg("prompt session cleared on disconnect")
		}
	}
	return nil
}

// stripMention turns "/cmd@bot args" into "/cmd args" for this bot.
func stripMention(text, username string) string {
	if username == "" || !strings.HasPrefix(text, "/") {
		return text
	}

	head, rest, _ := strings.Cut(text, " ")
	name, mention, ok := strings.Cut(head, "@")
	if !ok || !strings.EqualFold(mention, username) {
		return text
	}
	if rest == "" {
		return name
	}
	return name + " " + rest
}
