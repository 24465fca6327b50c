package command

import (
	"context"
	"errors"
	"testing"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Execute(t *testing.T) {
	ctx := context.Background()
	say := &stubCommand{name: "say", result: "said"}
	fail := &stubCommand{name: "fail", err: errors.New("boom")}
	r := New("user", NewTable(say, fail), newTestMessenger())

	tests := []struct {
		name    string
		input   string
		want    string
		handled bool
	}{
		{name: "known command", input: "/say hi there", want: "said", handled: true},
		{name: "case insensitive name", input: "/SAY", want: "said", handled: true},
		{name: "unknown command", input: "/nope", handled: false},
		{name: "plain text", input: "hello", handled: false},
		{name: "command error", input: "/fail", want: "❌ error: boom\n", handled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, handled := r.Execute(ctx, "s1", tt.input)
			assert.Equal(t, tt.handled, handled)
			assert.Equal(t, tt.want, got)
		})
	}

	require.NotEmpty(t, say.calls)
	assert.Equal(t, core.Invocation{SessionID: "s1", Name: "say", Args: []string{"hi", "there"}, Raw: "/say hi there"}, say.calls[0])
}

func TestRouter_Guard(t *testing.T) {
	ctx := context.Background()
	cmd := &stubCommand{name: "secret", result: "ok"}
	guard := func(ctx context.Context, inv core.Invocation) error {
		if inv.SessionID != "owner" {
			return errDenied
		}
		return nil
	}
	r := New("admin", NewTable(cmd), newTestMessenger(), WithGuard(guard))

	got, handled := r.Execute(ctx, "stranger", "/secret")
	assert.True(t, handled)
	assert.Equal(t, "denied /secret", got)
	assert.Empty(t, cmd.calls)

	got, handled = r.Execute(ctx, "owner", "/secret")
	assert.True(t, handled)
	assert.Equal(t, "ok", got)

	assert.Empty(t, r.Complete(ctx, "stranger", "/se"))
	assert.Equal(t, []string{"/secret "}, r.Complete(ctx, "owner", "/se"))
}

func TestRouter_CompareAndSwapTable(t *testing.T) {
	ctx := context.Background()
	original := NewTable(&stubCommand{name: "a", result: "from original"})
	replacement := NewTable(&stubCommand{name: "a", result: "from replacement"})
	r := New("user", original, newTestMessenger())

	assert.False(t, r.CompareAndSwapTable(replacement, original), "stale old table")
	assert.False(t, r.CompareAndSwapTable(original, nil))
	assert.Same(t, original, r.Table())

	require.True(t, r.CompareAndSwapTable(original, replacement))
	got, _ := r.Execute(ctx, "s1", "/a")
	assert.Equal(t, "from replacement", got)

	got, _ = r.ExecuteOn(ctx, original, "s1", "/a")
	assert.Equal(t, "from original", got)

	require.True(t, r.CompareAndSwapTable(replacement, original))
	assert.Same(t, original, r.Table())
}

func TestRouter_Complete(t *testing.T) {
	ctx := context.Background()
	d := Deps{
		Messenger:    newTestMessenger(),
		Sessions:     &fakeSessions{},
		Templates:    newMemTemplates(),
		History:      &memHistory{},
		HistoryLimit: func() int { return 10 },
		Controller:   &fakeController{},
		Commands:     func() []core.Command { return nil },
	}
	table := NewTable(append(NewUserCommands(d), NewAdminCommands(d)...)...)
	r := New("all", table, d.Messenger)

	require.NoError(t, d.Templates.SaveTemplate(ctx, core.Template{Name: "give", Body: "/give <p>"}))

	tests := []struct {
		input string
		want  []string
	}{
		{input: "/he", want: []string{"/help "}},
		{input: "/h", want: []string{"/help ", "/history "}},
		{input: "/template ", want: []string{"/template add ", "/template list ", "/template remove "}},
		{input: "/template re", want: []string{"/template remove "}},
		{input: "/template remove ", want: []string{"/template remove give "}},
		{input: "/prompter reload ", want: []string{"/prompter reload clean "}},
		{input: "/echo ", want: nil},
		{input: "/missing ", want: nil},
		{input: "plain", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Complete(ctx, "s1", tt.input))
		})
	}
}

type quietTable struct {
	*Table
	quiet string
}

func (t *quietTable) CommandsFor(ctx context.Context, sessionID string) []core.Command {
	if sessionID == t.quiet {
		return nil
	}
	return t.Commands()
}

func TestRouter_CompleteUsesSessionCommands(t *testing.T) {
	ctx := context.Background()
	table := &quietTable{Table: NewTable(&stubCommand{name: "say"}, &stubCommand{name: "secret"}), quiet: "s1"}
	r := New("user", table, newTestMessenger())

	tests := []struct {
		session string
		input   string
		want    []string
	}{
		{session: "s1", input: "/s", want: nil},
		{session: "s1", input: "/", want: nil},
		{session: "s2", input: "/sa", want: []string{"/say "}},
	}

	for _, tt := range tests {
		t.Run(tt.session+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Complete(ctx, tt.session, tt.input))
		})
	}
}
