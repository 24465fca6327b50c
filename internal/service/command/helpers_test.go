package command

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/i18n"
)

var testMessages = map[string]string{
	"command.denied":    "denied /%s",
	"command.error":     "error: %v",
	"prompt.no_session": "no session",
	"reload.done":       "reloaded",
	"reload.clean":      "reloaded, %d cleared",
	"reload.failed":     "reload failed: %v",
	"status.title":      "Status",
	"status.mode":       "Mode",
	"status.sessions":   "Sessions",
	"template.saved":    "saved %s",
	"template.removed":  "removed %s",
	"template.missing":  "missing %s",
	"template.empty":    "no templates",
	"template.reserved": "reserved %s",
	"history.empty":     "no history",
}

func newTestMessenger() *i18n.Messenger {
	return i18n.NewMessenger("> ", i18n.NewCatalog(testMessages))
}

type stubCommand struct {
	name   string
	result string
	err    error
	calls  []core.Invocation
}

func (c *stubCommand) Name() string        { return c.name }
func (c *stubCommand) Description() string { return "stub " + c.name }

func (c *stubCommand) Execute(ctx context.Context, inv core.Invocation) (string, error) {
	c.calls = append(c.calls, inv)
	return c.result, c.err
}

type memTemplates struct {
	mu        sync.Mutex
	templates map[string]core.Template
}

func newMemTemplates() *memTemplates {
	return &memTemplates{templates: make(map[string]core.Template)}
}

func (m *memTemplates) SaveTemplate(ctx context.Context, tpl core.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[tpl.Name] = tpl
	return nil
}

func (m *memTemplates) GetTemplate(ctx context.Context, name string) (core.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tpl, ok := m.templates[name]
	if !ok {
		return core.Template{}, core.ErrTemplateNotFound
	}
	return tpl, nil
}

func (m *memTemplates) DeleteTemplate(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[name]; !ok {
		return core.ErrTemplateNotFound
	}
	delete(m.templates, name)
	return nil
}

func (m *memTemplates) ListTemplates(ctx context.Context) ([]core.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]core.Template, 0, len(m.templates))
	for _, tpl := range m.templates {
		res = append(res, tpl)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

type memHistory struct {
	records []core.SessionRecord
	err     error
	limit   int
}

func (m *memHistory) AddRecord(ctx context.Context, rec core.SessionRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *memHistory) GetRecords(ctx context.Context, sessionID string, limit int) ([]core.SessionRecord, error) {
	m.limit = limit
	if m.err != nil {
		return nil, m.err
	}
	var res []core.SessionRecord
	for i := len(m.records) - 1; i >= 0 && len(res) < limit; i-- {
		if m.records[i].SessionID == sessionID {
			res = append(res, m.records[i])
		}
	}
	return res, nil
}

type fakeSessions struct {
	active map[string]bool
}

func (f *fakeSessions) Cancel(ctx context.Context, id string) bool {
	if !f.active[id] {
		return false
	}
	delete(f.active, id)
	return true
}

func (f *fakeSessions) Sessions() []string {
	var ids []string
	for id := range f.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type fakeController struct {
	cleared int
	err     error
	clean   []bool
}

func (f *fakeController) Reload(ctx context.Context, clean bool) (int, error) {
	f.clean = append(f.clean, clean)
	if f.err != nil {
		return 0, f.err
	}
	if clean {
		return f.cleared, nil
	}
	return 0, nil
}

func (f *fakeController) Mode() string { return "passive" }

var errDenied = errors.New("not an operator")
