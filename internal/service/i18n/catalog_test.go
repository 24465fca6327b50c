package i18n

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog_EmbeddedDefaults(t *testing.T) {
	c, err := LoadCatalog(context.Background(), "")
	require.NoError(t, err)

	for _, key := range []string{"prompt.cancel_hint", "prompt.cancelled", "prompt.aborted", "command.unknown"} {
		assert.True(t, c.Has(key), key)
	}
	assert.Equal(t, "Unknown command: /give", c.Get("command.unknown", "give"))
}

func TestLoadCatalog_Override(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "messages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prompt.cancelled: \"Abgebrochen.\"\n"), 0o600))

	c, err := LoadCatalog(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Abgebrochen.", c.Get("prompt.cancelled"))
	assert.True(t, c.Has("prompt.aborted"), "defaults survive a partial override")
}

func TestLoadCatalog_MissingOverride(t *testing.T) {
	c, err := LoadCatalog(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.True(t, c.Has("prompt.cancelled"))
}

func TestLoadCatalog_BadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))

	_, err := LoadCatalog(context.Background(), path)
	assert.Error(t, err)
}

func TestCatalog_Get(t *testing.T) {
	c := NewCatalog(map[string]string{
		"plain":  "hello",
		"format": "hello %s",
	})

	assert.Equal(t, "hello", c.Get("plain"))
	assert.Equal(t, "hello bob", c.Get("format", "bob"))
	assert.Equal(t, "missing.key", c.Get("missing.key"))
	assert.False(t, c.Has("missing.key"))
}

func TestMessenger_Format(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		text   string
		want   string
	}{
		{name: "single line", prefix: "> ", text: "hi", want: "> hi"},
		{name: "line breaks", prefix: "> ", text: "one{br} two {br}three", want: "> one\n> two\n> three"},
		{name: "no prefix", prefix: "", text: "a{br}b", want: "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMessenger(tt.prefix, NewCatalog(nil))
			assert.Equal(t, tt.want, m.Format(tt.text))
		})
	}
}

type recorder struct {
	msgs []string
}

func (r *recorder) Reply(ctx context.Context, text string) error {
	r.msgs = append(r.msgs, text)
	return nil
}

func TestMessenger_SendAndReload(t *testing.T) {
	ctx := context.Background()
	m := NewMessenger("> ", NewCatalog(map[string]string{"greet": "Hi %s{br}Bye"}))
	r := &recorder{}

	require.NoError(t, m.Send(ctx, r, "greet", "bob"))
	assert.Equal(t, []string{"> Hi bob\n> Bye"}, r.msgs)

	m.Reload("# ", nil)
	assert.Equal(t, "# ", m.Prefix())
	assert.Equal(t, "Hi %s{br}Bye", m.Get("greet"), "nil catalog keeps the old one")

	m.Reload("# ", NewCatalog(map[string]string{"greet": "Yo"}))
	require.NoError(t, m.Send(ctx, r, "greet"))
	assert.Equal(t, "# Yo", r.msgs[1])
}
