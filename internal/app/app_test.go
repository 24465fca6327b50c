package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sandevgo/prompter/internal/config"
	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/dispatch"
	"github.com/sandevgo/prompter/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) Reply(ctx context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, text)
	return nil
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		return ""
	}
	return r.msgs[len(r.msgs)-1]
}

func newTestApp(t *testing.T) (*App, *config.AppConfig) {
	t.Helper()
	ctx := context.Background()

	t.Setenv("PROMPTER_PREFIX", "> ")
	t.Setenv("PROMPTER_UNSAFE", "false")
	t.Setenv("PROMPTER_HISTORY_LIMIT", "10")

	appCfg := &config.AppConfig{RuntimePath: t.TempDir()}
	cfg, err := config.LoadPrompterConfig()
	require.NoError(t, err)

	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a, err := New(ctx, appCfg, cfg, db)
	require.NoError(t, err)
	return a, appCfg
}

func TestNew_ListenerOrder(t *testing.T) {
	a, _ := newTestApp(t)

	assert.Equal(t,
		[]string{"template-expander", "prompt-responder", "prompt-detector"},
		a.Pipeline().Listeners(),
	)
	assert.Equal(t, "passive", a.Mode())
	assert.Len(t, a.Services(), 3)
}

func TestApp_PromptedCommand(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t)
	r := &recorder{}

	v := a.Pipeline().Handle(ctx, dispatch.NewEvent("u1", "/echo Hello <name>", r))
	assert.Equal(t, dispatch.Consumed, v)
	assert.True(t, a.Manager().Active("u1"))
	assert.True(t, strings.HasPrefix(r.last(), "> name"))

	a.Pipeline().Handle(ctx, dispatch.NewEvent("u1", "Bob", r))
	assert.False(t, a.Manager().Active("u1"))
	assert.Equal(t, "Hello Bob", r.last())

	recs, err := a.history.GetRecords(ctx, "u1", 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, core.OutcomeResolved, recs[0].Outcome)
	assert.Equal(t, "/echo Hello Bob", recs[0].Command)
}

func TestApp_OperatorGuard(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t)
	r := &recorder{}

	a.Pipeline().Handle(ctx, dispatch.NewEvent("stranger", "/template list", r))
	assert.Contains(t, r.last(), "not allowed")

	a.AddOperator("op")
	a.Pipeline().Handle(ctx, dispatch.NewEvent("op", "/template add greet /echo Hi <who>", r))
	assert.Contains(t, r.last(), "greet")

	tpl, err := a.templates.GetTemplate(ctx, "greet")
	require.NoError(t, err)
	assert.Equal(t, "/echo Hi <who>", tpl.Body)
}

func TestApp_CancelCommandMidSession(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "cancel", line: "/cancel"},
		{name: "prompter cancel", line: "/prompter cancel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			a, _ := newTestApp(t)
			a.AddOperator("op")
			r := &recorder{}

			a.Pipeline().Handle(ctx, dispatch.NewEvent("op", "/echo Hi <who>", r))
			require.True(t, a.Manager().Active("op"))

			v := a.Pipeline().Handle(ctx, dispatch.NewEvent("op", tt.line, r))
			assert.Equal(t, dispatch.Consumed, v)
			assert.False(t, a.Manager().Active("op"))
			assert.Equal(t, "> Command completion has been cancelled.", r.last())

			recs, err := a.history.GetRecords(ctx, "op", 5)
			require.NoError(t, err)
			require.Len(t, recs, 1)
			assert.Equal(t, core.OutcomeCancelled, recs[0].Outcome)
			assert.Empty(t, recs[0].Command)
			assert.Empty(t, recs[0].Answers)
		})
	}
}

func TestApp_Reload(t *testing.T) {
	ctx := context.Background()
	a, appCfg := newTestApp(t)

	require.NoError(t, os.WriteFile(appCfg.GetEnvPath(), []byte("PROMPTER_PREFIX=\"# \"\nPROMPTER_HISTORY_LIMIT=3\n"), 0o600))
	require.NoError(t, os.WriteFile(appCfg.GetMessagesPath(), []byte("prompt.cancelled: \"Gone.\"\n"), 0o600))

	r := &recorder{}
	a.Pipeline().Handle(ctx, dispatch.NewEvent("u1", "/echo <x>", r))
	require.True(t, a.Manager().Active("u1"))

	n, err := a.Reload(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, a.Manager().Active("u1"))

	assert.Equal(t, "# ", a.Messenger().Prefix())
	assert.Equal(t, "Gone.", a.Messenger().Get("prompt.cancelled"))
	assert.Equal(t, 3, a.historyLimit())
}

func TestApp_ReloadWithoutEnvFile(t *testing.T) {
	a, appCfg := newTestApp(t)
	_, err := os.Stat(filepath.Join(appCfg.GetRuntimePath(), ".env"))
	require.True(t, os.IsNotExist(err))

	n, err := a.Reload(context.Background(), false)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "> ", a.Messenger().Prefix())
}
