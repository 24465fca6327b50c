package i18n

import (
	"context"
	"strings"
	"sync"

	"github.com/sandevgo/prompter/internal/core"
)

const lineBreak = "{br}"

// Messenger prefixes and delivers catalog messages. Prefix and catalog can be
// swapped at runtime by a reload.
type Messenger struct {
	mu      sync.RWMutex
	prefix  string
	catalog *Catalog
}

func NewMessenger(prefix string, catalog *Catalog) *Messenger {
	return &Messenger{
		prefix:  prefix,
		catalog: catalog,
	}
}

func (m *Messenger) Reload(prefix string, catalog *Catalog) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prefix = prefix
	if catalog != nil {
		m.catalog = catalog
	}
}

func (m *Messenger) Prefix() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prefix
}

// Get returns the catalog text for key without the prefix.
func (m *Messenger) Get(key string, args ...any) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalog.Get(key, args...)
}

// Format splits text on {br} and prefixes every line.
func (m *Messenger) Format(text string) string {
	prefix := m.Prefix()

	parts := strings.Split(text, lineBreak)
	for i, part := range parts {
		parts[i] = prefix + strings.TrimSpace(part)
	}
	return strings.Join(parts, "\n")
}

func (m *Messenger) Send(ctx context.Context, r core.Replier, key string, args ...any) error {
	return m.SendText(ctx, r, m.Get(key, args...))
}

func (m *Messenger) SendText(ctx context.Context, r core.Replier, text string) error {
	return r.Reply(ctx, m.Format(text))
}
