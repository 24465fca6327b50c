package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/prompter/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"
)

type sent struct {
	text string
	opts []interface{}
}

// fakeAPI records Send calls.
type fakeAPI struct {
	sent  []sent
	calls int

	// errs are returned by the first calls, in order.
	errs []error
}

var (
	_ messageSender = (*tele.Bot)(nil)
	_ messageSender = (*fakeAPI)(nil)
)

func (f *fakeAPI) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	f.sent = append(f.sent, sent{text: what.(string), opts: opts})
	return &tele.Message{}, nil
}

func testRetrier() *retry.Retrier {
	return retry.NewRetrier(&retry.Config{MaxRetries: 2, BackoffFactor: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond})
}

func markupOf(s sent) *tele.ReplyMarkup {
	for _, o := range s.opts {
		if m, ok := o.(*tele.ReplyMarkup); ok {
			return m
		}
	}
	return nil
}

func TestSplitHTML(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   []string
	}{
		{name: "short", text: "hello", maxLen: 10, want: []string{"hello"}},
		{name: "newline break", text: "aaaa\nbbbb\ncc", maxLen: 10, want: []string{"aaaa\nbbbb", "cc"}},
		{name: "hard cut", text: strings.Repeat("x", 12), maxLen: 5, want: []string{"xxxxx", "xxxxx", "xx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitHTML(tt.text, tt.maxLen))
		})
	}
}

func TestStripMention(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "/echo@PromptBot hi there", want: "/echo hi there"},
		{text: "/help@promptbot", want: "/help"},
		{text: "/echo@OtherBot hi", want: "/echo@OtherBot hi"},
		{text: "mail me@PromptBot", want: "mail me@PromptBot"},
		{text: "/echo <name>", want: "/echo <name>"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, stripMention(tt.text, "PromptBot"))
		})
	}
}

func TestChoiceKeyboard(t *testing.T) {
	menu := choiceKeyboard([]string{"red", "green", "blue", "black"})

	assert.True(t, menu.OneTimeKeyboard)
	assert.True(t, menu.ResizeKeyboard)
	require.Len(t, menu.ReplyKeyboard, 2)
	assert.Len(t, menu.ReplyKeyboard[0], 3)
	assert.Equal(t, "black", menu.ReplyKeyboard[1][0].Text)
}

func TestReplier(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	r := &replier{sender: newSender(api, testRetrier(), rate.NewLimiter(rate.Inf, 1)), to: &tele.Chat{ID: 42}}

	require.NoError(t, r.Reply(ctx, "Use `cancel` to stop"))
	require.Len(t, api.sent, 1)
	assert.Contains(t, api.sent[0].text, "<code>cancel</code>")
	assert.True(t, markupOf(api.sent[0]).RemoveKeyboard)

	require.NoError(t, r.ReplyWithChoices(ctx, "color", []string{"red", "green"}))
	require.Len(t, api.sent, 2)
	assert.Len(t, markupOf(api.sent[1]).ReplyKeyboard[0], 2)

	require.NoError(t, r.Reply(ctx, "   "))
	assert.Len(t, api.sent, 2, "blank replies are not sent")
}

func TestSender_Retries(t *testing.T) {
	ctx := context.Background()
	to := &tele.Chat{ID: 42}

	t.Run("network error", func(t *testing.T) {
		api := &fakeAPI{errs: []error{errors.New("connection reset")}}
		require.NoError(t, newSender(api, testRetrier(), rate.NewLimiter(rate.Inf, 1)).sendMarkdown(ctx, to, "hi", nil))
		assert.Equal(t, 2, api.calls)
		assert.Len(t, api.sent, 1)
	})

	t.Run("api error is final", func(t *testing.T) {
		api := &fakeAPI{errs: []error{tele.ErrChatNotFound}}
		err := newSender(api, testRetrier(), rate.NewLimiter(rate.Inf, 1)).sendMarkdown(ctx, to, "hi", nil)
		assert.ErrorIs(t, err, tele.ErrChatNotFound)
		assert.Equal(t, 1, api.calls)
	})
}

func TestSender_LimiterHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	api := &fakeAPI{}
	s := newSender(api, testRetrier(), rate.NewLimiter(rate.Every(time.Hour), 1))
	require.True(t, s.limiter.Allow(), "use up the burst")

	err := s.sendMarkdown(ctx, &tele.Chat{ID: 42}, "hi", nil)
	assert.Error(t, err)
	assert.Zero(t, api.calls)
}
