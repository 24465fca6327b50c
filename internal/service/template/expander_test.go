package template

import (
	"context"
	"errors"
	"testing"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/dispatch"
	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name string
		body string
		args []string
		want string
	}{
		{name: "no args", body: "/give <player> <amount>", want: "/give <player> <amount>"},
		{name: "partial", body: "/give <player> <amount>", args: []string{"Steve"}, want: "/give Steve <amount>"},
		{name: "all", body: "/give <player> <amount>", args: []string{"Steve", "64"}, want: "/give Steve 64"},
		{name: "extra args", body: "/echo <a>", args: []string{"x", "y", "z"}, want: "/echo x y z"},
		{name: "no placeholders", body: "/echo hi", args: []string{"there"}, want: "/echo hi there"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expand(tt.body, tt.args))
		})
	}
}

type stubRepo struct {
	templates map[string]core.Template
	err       error
}

func (s *stubRepo) SaveTemplate(ctx context.Context, tpl core.Template) error { return nil }
func (s *stubRepo) DeleteTemplate(ctx context.Context, name string) error     { return nil }

func (s *stubRepo) GetTemplate(ctx context.Context, name string) (core.Template, error) {
	if s.err != nil {
		return core.Template{}, s.err
	}
	tpl, ok := s.templates[name]
	if !ok {
		return core.Template{}, core.ErrTemplateNotFound
	}
	return tpl, nil
}

func (s *stubRepo) ListTemplates(ctx context.Context) ([]core.Template, error) { return nil, nil }

func TestExpander_Handle(t *testing.T) {
	ctx := context.Background()
	repo := &stubRepo{templates: map[string]core.Template{
		"give": {Name: "give", Body: "/echo give <player> <amount>"},
	}}
	e := NewExpander(repo)

	ev := dispatch.NewEvent("u1", "/give Steve", nil)
	assert.Equal(t, dispatch.Passthrough, e.Handle(ctx, ev))
	assert.Equal(t, "/echo give Steve <amount>", ev.Text)
	assert.Equal(t, "/give Steve", ev.Original)

	other := dispatch.NewEvent("u1", "/help", nil)
	e.Handle(ctx, other)
	assert.Equal(t, "/help", other.Text)

	chat := dispatch.NewEvent("u1", "give me", nil)
	e.Handle(ctx, chat)
	assert.Equal(t, "give me", chat.Text)

	repo.err = errors.New("db down")
	failing := dispatch.NewEvent("u1", "/give", nil)
	assert.Equal(t, dispatch.Passthrough, e.Handle(ctx, failing))
	assert.Equal(t, "/give", failing.Text)
}
