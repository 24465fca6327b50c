package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sandevgo/prompter/pkg/conv"
	"github.com/sandevgo/prompter/pkg/log"
	"github.com/sandevgo/prompter/pkg/retry"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

// Bot API limit is about 30 messages per second across all chats.
var defaultSendLimit = rate.Every(time.Second / 25)

// messageSender is the part of *tele.Bot the sender needs.
type messageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type sender struct {
	bot     messageSender
	retrier *retry.Retrier
	limiter *rate.Limiter
}

func newSender(bot messageSender, retrier *retry.Retrier, limiter *rate.Limiter) *sender {
	return &sender{bot: bot, retrier: retrier, limiter: limiter}
}

// sendMarkdown converts Markdown to Telegram HTML and sends it in chunks if
// needed. The markup, if any, goes with the last chunk.
func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string, markup *tele.ReplyMarkup) error {
	logger := log.FromCtx(ctx)
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))
	if html == "" {
		return nil
	}

	chunks := splitHTML(html, maxTelegramMsgLen)
	for i, chunk := range chunks {
		opts := []interface{}{tele.ModeHTML}
		if markup != nil && i == len(chunks)-1 {
			opts = append(opts, markup)
		}

		err := s.retrier.Do(ctx, func() error {
			if err := s.limiter.Wait(ctx); err != nil {
				return retry.Permanent(err)
			}
			_, err := s.bot.Send(to, chunk, opts...)
			return classify(err)
		})
		if err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

// classify maps send errors for the retrier. Flood control waits as told and
// other API errors are final.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var flood tele.FloodError
	if errors.As(err, &flood) {
		return retry.After(err, time.Duration(flood.RetryAfter)*time.Second)
	}

	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return retry.Permanent(err)
	}
	return err
}

// splitHTML splits text into chunks respecting Telegram's limit.
// It tries to split at newlines to preserve formatting.
func splitHTML(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		// Prefer a newline in the last two thirds of the chunk
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}

// replier answers one chat.
type replier struct {
	sender *sender
	to     tele.Recipient
}

func (r *replier) Reply(ctx context.Context, text string) error {
	return r.sender.sendMarkdown(ctx, r.to, text, &tele.ReplyMarkup{RemoveKeyboard: true})
}

// ReplyWithChoices shows one keyboard button per choice. The keyboard hides
// after a tap and the tap arrives as an ordinary text message.
func (r *replier) ReplyWithChoices(ctx context.Context, text string, choices []string) error {
	return r.sender.sendMarkdown(ctx, r.to, text, choiceKeyboard(choices))
}

func choiceKeyboard(choices []string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	buttons := make([]tele.Btn, len(choices))
	for i, c := range choices {
		buttons[i] = menu.Text(c)
	}
	menu.Reply(menu.Split(3, buttons)...)
	return menu
}
